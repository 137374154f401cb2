package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `2026-`, escapeLike("2026-"))
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505", Constraint: invoiceNumberConstraint})
	assert.True(t, isUniqueViolation(err, invoiceNumberConstraint))
	assert.False(t, isUniqueViolation(err, "other_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

func TestReadSnapshot(t *testing.T) {
	assert.Equal(t, sql.LevelRepeatableRead, readSnapshot.Isolation)
	assert.True(t, readSnapshot.ReadOnly)
}

// openTestDB connects to TEST_DATABASE_URL, which must point at a database
// migrated with migrations/001_invoices.sql.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newDraft(tenant, number string) entities.Invoice {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return entities.Invoice{
		ID:            uuid.NewString(),
		TenantID:      tenant,
		InvoiceNumber: number,
		LineItems: []entities.LineItem{
			{Description: "service", Quantity: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(100), TaxRatePercent: decimal.Zero},
		},
		Subtotal:  decimal.NewFromInt(100),
		Total:     decimal.NewFromInt(100),
		Status:    entities.InvoiceStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

func TestInvoicePostgresRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	r := NewInvoicePostgresRepository(db)
	ctx := context.Background()
	tenant := "t-" + uuid.NewString()

	t.Run("unique number per tenant", func(t *testing.T) {
		_, err := r.Create(ctx, newDraft(tenant, "1"))
		require.NoError(t, err)
		_, err = r.Create(ctx, newDraft(tenant, "1"))
		assert.ErrorIs(t, err, interfaces.ErrInvoiceNumberTaken)
	})

	t.Run("ledger append and version check", func(t *testing.T) {
		created, err := r.Create(ctx, newDraft(tenant, "2"))
		require.NoError(t, err)

		created.Payments = append(created.Payments, entities.Payment{
			ID: uuid.NewString(), Amount: decimal.RequireFromString("30"), Date: created.CreatedAt, CreatedAt: created.CreatedAt,
		})
		saved, err := r.Save(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.Version)

		_, err = r.Save(ctx, created)
		assert.ErrorIs(t, err, interfaces.ErrVersionConflict)

		got, err := r.GetByID(ctx, tenant, created.ID)
		require.NoError(t, err)
		require.Len(t, got.Payments, 1)
		assert.True(t, got.Payments[0].Amount.Equal(decimal.RequireFromString("30")))
	})

	t.Run("concurrent creates on one number", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Create(ctx, newDraft(tenant, "3"))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, interfaces.ErrInvoiceNumberTaken)
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("reads see one version of row and ledger", func(t *testing.T) {
		inv, err := r.Create(ctx, newDraft(tenant, "4"))
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)
			cur := inv
			for i := 0; i < 20; i++ {
				cur.Payments = append(cur.Payments, entities.Payment{
					ID: uuid.NewString(), Amount: decimal.RequireFromString("1"), Date: cur.CreatedAt, CreatedAt: cur.CreatedAt.Add(time.Duration(i) * time.Millisecond),
				})
				saved, err := r.Save(ctx, cur)
				if err != nil {
					return
				}
				cur = saved
			}
		}()

		for {
			select {
			case <-done:
				got, err := r.GetByID(ctx, tenant, inv.ID)
				require.NoError(t, err)
				assert.Len(t, got.Payments, int(got.Version-1))
				return
			default:
			}
			got, err := r.GetByID(ctx, tenant, inv.ID)
			require.NoError(t, err)
			require.Len(t, got.Payments, int(got.Version-1), "version %d", got.Version)
		}
	})

	t.Run("missing invoice is the zero value", func(t *testing.T) {
		got, err := r.GetByID(ctx, tenant, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})

	t.Run("list numbers by prefix", func(t *testing.T) {
		numbers, err := r.ListInvoiceNumbers(ctx, tenant, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, numbers)
	})
}
