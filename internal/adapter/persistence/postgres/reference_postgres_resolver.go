package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/jmoiron/sqlx"
)

// ReferencePostgresResolver reads clients and sites from the shared database.
type ReferencePostgresResolver struct {
	db *sqlx.DB
}

var _ interfaces.IReferenceResolver = (*ReferencePostgresResolver)(nil)

func NewReferencePostgresResolver(db *sqlx.DB) *ReferencePostgresResolver {
	return &ReferencePostgresResolver{db: db}
}

func (r *ReferencePostgresResolver) ResolveClient(ctx context.Context, tenantID, clientID string) (entities.Client, error) {
	var c entities.Client
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, tenant_id, name, email FROM clients WHERE id = $1 AND tenant_id = $2`,
		clientID, tenantID).Scan(&c.ID, &c.TenantID, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Client{}, interfaces.ErrReferenceNotInTenant
	}
	if err != nil {
		return entities.Client{}, fmt.Errorf("failed to resolve client: %w", err)
	}
	return c, nil
}

func (r *ReferencePostgresResolver) ResolveSite(ctx context.Context, tenantID, siteID string) (entities.Site, error) {
	var s entities.Site
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, tenant_id, client_id, name FROM sites WHERE id = $1 AND tenant_id = $2`,
		siteID, tenantID).Scan(&s.ID, &s.TenantID, &s.ClientID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Site{}, interfaces.ErrReferenceNotInTenant
	}
	if err != nil {
		return entities.Site{}, fmt.Errorf("failed to resolve site: %w", err)
	}
	return s, nil
}
