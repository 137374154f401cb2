package repository

import (
	"context"
	"strings"
	"sync"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"
)

// InvoiceMemoryRepository keeps invoices in process memory. It honours the same
// uniqueness and version rules as the durable stores and backs INVOICE_STORE=memory.
type InvoiceMemoryRepository struct {
	mu       sync.RWMutex
	invoices map[string]entities.Invoice
	numbers  map[string]map[string]string // tenant -> invoice number -> invoice id
}

var _ interfaces.IInvoiceRepository = (*InvoiceMemoryRepository)(nil)

func NewInvoiceMemoryRepository() *InvoiceMemoryRepository {
	return &InvoiceMemoryRepository{
		invoices: make(map[string]entities.Invoice),
		numbers:  make(map[string]map[string]string),
	}
}

func (r *InvoiceMemoryRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return entities.Invoice{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	byNumber := r.numbers[inv.TenantID]
	if byNumber == nil {
		byNumber = make(map[string]string)
		r.numbers[inv.TenantID] = byNumber
	}
	if _, taken := byNumber[inv.InvoiceNumber]; taken {
		return entities.Invoice{}, interfaces.ErrInvoiceNumberTaken
	}
	byNumber[inv.InvoiceNumber] = inv.ID
	r.invoices[inv.ID] = cloneInvoice(inv)
	return cloneInvoice(inv), nil
}

func (r *InvoiceMemoryRepository) GetByID(ctx context.Context, tenantID, id string) (entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return entities.Invoice{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invoices[id]
	if !ok || inv.TenantID != tenantID || inv.IsDeleted() {
		return entities.Invoice{}, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceMemoryRepository) Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return entities.Invoice{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.invoices[inv.ID]
	if !ok || stored.TenantID != inv.TenantID || stored.IsDeleted() || stored.Version != inv.Version {
		return entities.Invoice{}, interfaces.ErrVersionConflict
	}
	inv.Version++
	r.invoices[inv.ID] = cloneInvoice(inv)
	return cloneInvoice(inv), nil
}

func (r *InvoiceMemoryRepository) DeleteBatch(ctx context.Context, tenantID string, invoices []entities.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range invoices {
		stored, ok := r.invoices[inv.ID]
		if !ok || stored.TenantID != tenantID || stored.Version != inv.Version {
			return interfaces.ErrVersionConflict
		}
	}
	for _, inv := range invoices {
		stored := r.invoices[inv.ID]
		delete(r.numbers[tenantID], stored.InvoiceNumber)
		delete(r.invoices, inv.ID)
	}
	return nil
}

func (r *InvoiceMemoryRepository) ListInvoiceNumbers(ctx context.Context, tenantID, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.numbers[tenantID]))
	for n := range r.numbers[tenantID] {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out, nil
}

func cloneInvoice(inv entities.Invoice) entities.Invoice {
	inv.LineItems = append([]entities.LineItem(nil), inv.LineItems...)
	inv.Payments = append([]entities.Payment{}, inv.Payments...)
	return inv
}
