package interfaces

import (
	"context"
	"errors"

	"invoice_ledger/internal/domain/entities"
)

var ErrReferenceNotInTenant = errors.New("reference does not belong to tenant")

// IReferenceResolver looks up the client and site records an invoice may point at.
// Both methods return ErrReferenceNotInTenant when the id is unknown for the tenant.
//go:generate mockgen -source=reference_resolver_interface.go -destination=mocks/mock_reference_resolver_interface.go -package=mock_interfaces

type IReferenceResolver interface {
	ResolveClient(ctx context.Context, tenantID, clientID string) (entities.Client, error)
	ResolveSite(ctx context.Context, tenantID, siteID string) (entities.Site, error)
}
