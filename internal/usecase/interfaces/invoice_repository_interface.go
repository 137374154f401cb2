package interfaces

import (
	"context"
	"errors"

	"invoice_ledger/internal/domain/entities"
)

var (
	// ErrInvoiceNumberTaken is returned by Create when (tenant_id, invoice_number) already exists.
	ErrInvoiceNumberTaken = errors.New("invoice number already in use")
	// ErrVersionConflict is returned when the stored version differs from the one that was read.
	ErrVersionConflict = errors.New("invoice was modified concurrently")
)

// IInvoiceRepository abstracts tenant-scoped persistence for invoices and their ledgers.
//
// Implementations must:
//   - enforce uniqueness of (tenant_id, invoice_number) atomically with the insert
//   - apply Save and DeleteBatch only when the stored Version equals the given one,
//     storing Version+1 on success
//   - never return soft-deleted invoices from GetByID
//
// GetByID returns a zero Invoice and a nil error when nothing matches.
//go:generate mockgen -source=invoice_repository_interface.go -destination=mocks/mock_invoice_repository_interface.go -package=mock_interfaces

type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, tenantID, id string) (entities.Invoice, error)
	Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	DeleteBatch(ctx context.Context, tenantID string, invoices []entities.Invoice) error
	ListInvoiceNumbers(ctx context.Context, tenantID, prefix string) ([]string, error)
}
