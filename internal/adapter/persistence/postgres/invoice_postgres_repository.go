package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const invoiceNumberConstraint = "invoices_tenant_number_key"

type invoiceRow struct {
	ID            string          `db:"id"`
	TenantID      string          `db:"tenant_id"`
	InvoiceNumber string          `db:"invoice_number"`
	ClientID      string          `db:"client_id"`
	SiteID        string          `db:"site_id"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	SentAt        sql.NullTime    `db:"sent_at"`
	DueDate       sql.NullTime    `db:"due_date"`
	Notes         string          `db:"notes"`
	CreatedBy     string          `db:"created_by"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	DeletedAt     sql.NullTime    `db:"deleted_at"`
	Version       int64           `db:"version"`
}

type lineItemRow struct {
	Position       int             `db:"position"`
	Description    string          `db:"description"`
	Quantity       decimal.Decimal `db:"quantity"`
	UnitRate       decimal.Decimal `db:"unit_rate"`
	TaxRatePercent decimal.Decimal `db:"tax_rate_percent"`
}

type paymentRow struct {
	ID                string          `db:"id"`
	Amount            decimal.Decimal `db:"amount"`
	PaidAt            time.Time       `db:"paid_at"`
	Method            string          `db:"method"`
	Note              string          `db:"note"`
	ProviderPaymentID string          `db:"provider_payment_id"`
	CreatedBy         string          `db:"created_by"`
	CreatedAt         time.Time       `db:"created_at"`
}

// InvoicePostgresRepository persists invoices in Postgres (see migrations/001_invoices.sql).
//
// The ledger lives in invoice_payments and is only ever inserted into.
type InvoicePostgresRepository struct {
	db *sqlx.DB
}

var _ interfaces.IInvoiceRepository = (*InvoicePostgresRepository)(nil)

func NewInvoicePostgresRepository(db *sqlx.DB) *InvoicePostgresRepository {
	return &InvoicePostgresRepository{db: db}
}

func (r *InvoicePostgresRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (
				id, tenant_id, invoice_number, client_id, site_id,
				subtotal, total, status, sent_at, due_date,
				notes, created_by, created_at, updated_at, deleted_at, version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			inv.ID, inv.TenantID, inv.InvoiceNumber, inv.ClientID, inv.SiteID,
			inv.Subtotal, inv.Total, string(inv.Status), nullTime(inv.SentAt), nullTime(inv.DueDate),
			inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt, nullTime(inv.DeletedAt), inv.Version,
		)
		if err != nil {
			if isUniqueViolation(err, invoiceNumberConstraint) {
				return interfaces.ErrInvoiceNumberTaken
			}
			return fmt.Errorf("failed to insert invoice: %w", err)
		}
		if err := insertLineItems(ctx, tx, inv); err != nil {
			return err
		}
		return insertPayments(ctx, tx, inv)
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoicePostgresRepository) GetByID(ctx context.Context, tenantID, id string) (entities.Invoice, error) {
	var (
		row      invoiceRow
		items    []lineItemRow
		payments []paymentRow
		found    bool
	)
	err := withTx(ctx, r.db, readSnapshot, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &row, `
			SELECT id, tenant_id, invoice_number, client_id, site_id, subtotal, total, status,
				sent_at, due_date, notes, created_by, created_at, updated_at, deleted_at, version
			FROM invoices
			WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		found = true

		if err := tx.SelectContext(ctx, &items, `
			SELECT position, description, quantity, unit_rate, tax_rate_percent
			FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`, id); err != nil {
			return fmt.Errorf("failed to get line items: %w", err)
		}

		if err := tx.SelectContext(ctx, &payments, `
			SELECT id, amount, paid_at, method, note, provider_payment_id, created_by, created_at
			FROM invoice_payments WHERE invoice_id = $1 ORDER BY created_at, id`, id); err != nil {
			return fmt.Errorf("failed to get payments: %w", err)
		}
		return nil
	})
	if err != nil || !found {
		return entities.Invoice{}, err
	}
	return fromRows(row, items, payments), nil
}

// Save writes the invoice when the stored version matches inv.Version. Line
// items are replaced; payments not yet stored are appended.
func (r *InvoicePostgresRepository) Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE invoices SET
				client_id = $4, site_id = $5, subtotal = $6, total = $7, status = $8,
				sent_at = $9, due_date = $10, notes = $11, updated_at = $12, version = version + 1
			WHERE id = $1 AND tenant_id = $2 AND version = $3 AND deleted_at IS NULL`,
			inv.ID, inv.TenantID, inv.Version,
			inv.ClientID, inv.SiteID, inv.Subtotal, inv.Total, string(inv.Status),
			nullTime(inv.SentAt), nullTime(inv.DueDate), inv.Notes, inv.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return interfaces.ErrVersionConflict
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return fmt.Errorf("failed to clear line items: %w", err)
		}
		if err := insertLineItems(ctx, tx, inv); err != nil {
			return err
		}
		return insertPayments(ctx, tx, inv)
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	inv.Version++
	return inv, nil
}

func (r *InvoicePostgresRepository) DeleteBatch(ctx context.Context, tenantID string, invoices []entities.Invoice) error {
	return withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		for _, inv := range invoices {
			res, err := tx.ExecContext(ctx, `
				DELETE FROM invoices WHERE id = $1 AND tenant_id = $2 AND version = $3`,
				inv.ID, tenantID, inv.Version)
			if err != nil {
				return fmt.Errorf("failed to delete invoice: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if n == 0 {
				return interfaces.ErrVersionConflict
			}
		}
		return nil
	})
}

func (r *InvoicePostgresRepository) ListInvoiceNumbers(ctx context.Context, tenantID, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.SelectContext(ctx, &numbers, `
		SELECT invoice_number FROM invoices
		WHERE tenant_id = $1 AND invoice_number LIKE $2 ESCAPE '\'`,
		tenantID, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice numbers: %w", err)
	}
	return numbers, nil
}

func insertLineItems(ctx context.Context, tx *sqlx.Tx, inv entities.Invoice) error {
	for i, li := range inv.LineItems {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_line_items (invoice_id, position, description, quantity, unit_rate, tax_rate_percent)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			inv.ID, i, li.Description, li.Quantity, li.UnitRate, li.TaxRatePercent)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}

func insertPayments(ctx context.Context, tx *sqlx.Tx, inv entities.Invoice) error {
	for _, p := range inv.Payments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_payments (invoice_id, id, amount, paid_at, method, note, provider_payment_id, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (invoice_id, id) DO NOTHING`,
			inv.ID, p.ID, p.Amount, p.Date, string(p.Method), p.Note, p.ProviderPaymentID, p.CreatedBy, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}
	return nil
}

// readSnapshot makes the invoice row, its line items and its payments come from one version.
var readSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// withTx runs fn in a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(*sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && (constraint == "" || pqErr.Constraint == constraint)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func fromRows(row invoiceRow, items []lineItemRow, payments []paymentRow) entities.Invoice {
	inv := entities.Invoice{
		ID:            row.ID,
		TenantID:      row.TenantID,
		InvoiceNumber: row.InvoiceNumber,
		ClientID:      row.ClientID,
		SiteID:        row.SiteID,
		LineItems:     make([]entities.LineItem, 0, len(items)),
		Subtotal:      row.Subtotal,
		Total:         row.Total,
		Status:        entities.InvoiceStatus(row.Status),
		SentAt:        timePtr(row.SentAt),
		Payments:      make([]entities.Payment, 0, len(payments)),
		DueDate:       timePtr(row.DueDate),
		Notes:         row.Notes,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
		DeletedAt:     timePtr(row.DeletedAt),
		Version:       row.Version,
	}
	for _, li := range items {
		inv.LineItems = append(inv.LineItems, entities.LineItem{
			Description:    li.Description,
			Quantity:       li.Quantity,
			UnitRate:       li.UnitRate,
			TaxRatePercent: li.TaxRatePercent,
		})
	}
	for _, p := range payments {
		inv.Payments = append(inv.Payments, entities.Payment{
			ID:                p.ID,
			Amount:            p.Amount,
			Date:              p.PaidAt.UTC(),
			Method:            entities.PaymentMethod(p.Method),
			Note:              p.Note,
			ProviderPaymentID: p.ProviderPaymentID,
			CreatedBy:         p.CreatedBy,
			CreatedAt:         p.CreatedAt.UTC(),
		})
	}
	return inv
}
