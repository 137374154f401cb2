package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/infrastructure/metrics"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// MaxBatchDelete bounds DestroyInvoices. The DynamoDB store writes each invoice
// and its number claim in one transaction, which caps at 100 items.
const MaxBatchDelete = 50

// Error kinds returned by the invoice use cases. All of them match with errors.Is;
// OverpaymentError and NotFullyPaidError also carry amounts for errors.As.
var (
	ErrValidationFailed     = invoicing.ErrValidationFailed
	ErrInvoiceNotFound      = invoicing.ErrNotFound
	ErrRetryExhausted       = invoicing.ErrRetryExhausted
	ErrInvalidPaymentAmount = invoicing.ErrInvalidPaymentAmount
	ErrOverpaymentRejected  = invoicing.ErrOverpaymentRejected
	ErrNotFullyPaid         = invoicing.ErrNotFullyPaid
	ErrInvoiceLocked        = invoicing.ErrInvoiceLocked
)

const (
	DefaultMaxAttempts  = 5
	notifyPublishBudget = 5 * time.Second
)

type CreateInvoiceInput struct {
	// InvoiceNumber bypasses allocation when set; a taken number is a validation error.
	InvoiceNumber string
	// NumberFormat overrides the configured default for this call.
	NumberFormat entities.NumberFormat
	ClientID     string
	SiteID       string
	LineItems    []entities.LineItem
	DueDate      *time.Time
	Notes        string
	CreatedBy    string
}

// UpdateInvoiceInput holds the fields to change; nil means unchanged.
type UpdateInvoiceInput struct {
	InvoiceNumber *string
	ClientID      *string
	SiteID        *string
	LineItems     []entities.LineItem
	DueDate       *time.Time
	Notes         *string
}

type PaymentInput struct {
	Amount            decimal.Decimal
	Date              time.Time
	Method            entities.PaymentMethod
	Note              string
	ProviderPaymentID string
	CreatedBy         string
}

type SendResult struct {
	Invoice               entities.Invoice
	NotificationAttempted bool
	// NotifiedAddress is empty when no notification was attempted.
	NotifiedAddress string
}

// IInvoiceUseCase is the transactional boundary of the invoice aggregate.
//
// Every mutating call performs exactly one conditional write. Writers that lose
// a race reload and re-validate, up to the configured attempt bound.

type IInvoiceUseCase interface {
	CreateInvoice(ctx context.Context, tenantID string, in CreateInvoiceInput) (entities.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, id string) (entities.Invoice, error)
	UpdateInvoice(ctx context.Context, tenantID, id string, in UpdateInvoiceInput) (entities.Invoice, error)
	RecordPayment(ctx context.Context, tenantID, id string, in PaymentInput) (entities.Invoice, error)
	DestroyInvoice(ctx context.Context, tenantID, id string) error
	DestroyInvoices(ctx context.Context, tenantID string, ids []string) error
	SendInvoice(ctx context.Context, tenantID, id string) (SendResult, error)
}

type InvoiceUseCase struct {
	repo      interfaces.IInvoiceRepository
	refs      interfaces.IReferenceResolver
	publisher interfaces.IEventPublisher

	metrics       *metrics.Recorder
	log           zerolog.Logger
	now           func() time.Time
	newID         func() string
	defaultFormat entities.NumberFormat
	maxAttempts   int

	sends singleflight.Group
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

type InvoiceUseCaseOption func(*InvoiceUseCase)

func WithNumberFormat(f entities.NumberFormat) InvoiceUseCaseOption {
	return func(u *InvoiceUseCase) { u.defaultFormat = f }
}

func WithMaxAttempts(n int) InvoiceUseCaseOption {
	return func(u *InvoiceUseCase) {
		if n > 0 {
			u.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) InvoiceUseCaseOption {
	return func(u *InvoiceUseCase) { u.now = now }
}

func WithIDGenerator(newID func() string) InvoiceUseCaseOption {
	return func(u *InvoiceUseCase) { u.newID = newID }
}

func WithMetrics(m *metrics.Recorder) InvoiceUseCaseOption {
	return func(u *InvoiceUseCase) { u.metrics = m }
}

func NewInvoiceUseCase(repo interfaces.IInvoiceRepository, refs interfaces.IReferenceResolver, publisher interfaces.IEventPublisher, opts ...InvoiceUseCaseOption) *InvoiceUseCase {
	u := &InvoiceUseCase{
		repo:          repo,
		refs:          refs,
		publisher:     publisher,
		metrics:       metrics.Default,
		log:           logger.WithComponent("invoice-usecase"),
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
		defaultFormat: entities.NumberFormatNumeric,
		maxAttempts:   DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *InvoiceUseCase) CreateInvoice(ctx context.Context, tenantID string, in CreateInvoiceInput) (entities.Invoice, error) {
	tenantID = strings.TrimSpace(tenantID)
	u.log.Info().Str("tenant_id", tenantID).Int("line_items", len(in.LineItems)).Msg("create start")
	if tenantID == "" {
		return entities.Invoice{}, invoicing.NewValidationError("tenant_id", "is required")
	}

	format := in.NumberFormat
	if format == "" {
		format = u.defaultFormat
	}
	format, err := invoicing.ParseNumberFormat(string(format))
	if err != nil {
		return entities.Invoice{}, err
	}

	if err := u.checkReferences(ctx, tenantID, strings.TrimSpace(in.ClientID), strings.TrimSpace(in.SiteID)); err != nil {
		u.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("create rejected references")
		return entities.Invoice{}, err
	}

	now := u.now()
	inv := entities.Invoice{
		ID:        u.newID(),
		TenantID:  tenantID,
		ClientID:  strings.TrimSpace(in.ClientID),
		SiteID:    strings.TrimSpace(in.SiteID),
		Status:    entities.InvoiceStatusDraft,
		Payments:  []entities.Payment{},
		DueDate:   in.DueDate,
		Notes:     in.Notes,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	inv, err = invoicing.ApplyLineItems(inv, in.LineItems)
	if err != nil {
		return entities.Invoice{}, err
	}

	if explicit := strings.TrimSpace(in.InvoiceNumber); explicit != "" {
		inv.InvoiceNumber = explicit
		created, err := u.repo.Create(ctx, inv)
		if errors.Is(err, interfaces.ErrInvoiceNumberTaken) {
			u.metrics.NumberConflicts.Inc()
			u.log.Warn().Str("tenant_id", tenantID).Str("invoice_number", explicit).Msg("create rejected explicit number in use")
			return entities.Invoice{}, invoicing.NewValidationError("invoice_number", "already in use")
		}
		if err != nil {
			u.log.Error().Err(err).Str("tenant_id", tenantID).Msg("create failed")
			return entities.Invoice{}, err
		}
		u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", created.ID).Str("invoice_number", created.InvoiceNumber).Msg("create success")
		return created, nil
	}

	prefix := invoicing.NumberPrefix(format, now.Year())
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return entities.Invoice{}, err
		}
		existing, err := u.repo.ListInvoiceNumbers(ctx, tenantID, prefix)
		if err != nil {
			u.log.Error().Err(err).Str("tenant_id", tenantID).Msg("create failed listing numbers")
			return entities.Invoice{}, err
		}
		candidate, err := invoicing.NextInvoiceNumber(format, now.Year(), existing)
		if err != nil {
			return entities.Invoice{}, err
		}

		inv.InvoiceNumber = candidate
		created, err := u.repo.Create(ctx, inv)
		if errors.Is(err, interfaces.ErrInvoiceNumberTaken) {
			u.metrics.NumberConflicts.Inc()
			u.log.Debug().Str("tenant_id", tenantID).Str("invoice_number", candidate).Int("attempt", attempt).Msg("create number conflict, retrying")
			continue
		}
		if err != nil {
			u.log.Error().Err(err).Str("tenant_id", tenantID).Msg("create failed")
			return entities.Invoice{}, err
		}
		u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", created.ID).Str("invoice_number", created.InvoiceNumber).Int("attempt", attempt).Msg("create success")
		return created, nil
	}

	u.metrics.NumberRetryExhausted.Inc()
	u.log.Error().Str("tenant_id", tenantID).Int("attempts", u.maxAttempts).Msg("create gave up allocating invoice number")
	return entities.Invoice{}, fmt.Errorf("%w: no free invoice number after %d attempts", ErrRetryExhausted, u.maxAttempts)
}

func (u *InvoiceUseCase) GetInvoice(ctx context.Context, tenantID, id string) (entities.Invoice, error) {
	return u.load(ctx, tenantID, id)
}

func (u *InvoiceUseCase) UpdateInvoice(ctx context.Context, tenantID, id string, in UpdateInvoiceInput) (entities.Invoice, error) {
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Msg("update start")
	updated, err := u.mutate(ctx, tenantID, id, "update", func(inv entities.Invoice) (entities.Invoice, bool, error) {
		if err := invoicing.EnsureMutable(inv); err != nil {
			return inv, false, err
		}
		if in.InvoiceNumber != nil && strings.TrimSpace(*in.InvoiceNumber) != inv.InvoiceNumber {
			return inv, false, invoicing.NewValidationError("invoice_number", "cannot be changed")
		}

		if in.ClientID != nil {
			inv.ClientID = strings.TrimSpace(*in.ClientID)
		}
		if in.SiteID != nil {
			inv.SiteID = strings.TrimSpace(*in.SiteID)
		}
		if in.ClientID != nil || in.SiteID != nil {
			if err := u.checkReferences(ctx, inv.TenantID, inv.ClientID, inv.SiteID); err != nil {
				return inv, false, err
			}
		}

		if in.LineItems != nil {
			var err error
			inv, err = invoicing.ApplyLineItems(inv, in.LineItems)
			if err != nil {
				return inv, false, err
			}
			if invoicing.TotalPaid(inv).GreaterThan(inv.Total.Add(invoicing.Epsilon)) {
				return inv, false, invoicing.NewValidationError("line_items", "total would fall below the amount already paid")
			}
		}
		if in.DueDate != nil {
			inv.DueDate = in.DueDate
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		return inv, true, nil
	})
	if err != nil {
		u.log.Warn().Err(err).Str("tenant_id", tenantID).Str("invoice_id", id).Msg("update failed")
		return entities.Invoice{}, err
	}
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Str("total", updated.Total.StringFixed(2)).Msg("update success")
	return updated, nil
}

func (u *InvoiceUseCase) RecordPayment(ctx context.Context, tenantID, id string, in PaymentInput) (entities.Invoice, error) {
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Str("amount", in.Amount.String()).Msg("payment start")

	now := u.now()
	method := in.Method
	if method == "" {
		method = entities.PaymentMethodManual
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	p := entities.Payment{
		ID:                u.newID(),
		Amount:            in.Amount,
		Date:              date,
		Method:            method,
		Note:              in.Note,
		ProviderPaymentID: in.ProviderPaymentID,
		CreatedBy:         in.CreatedBy,
		CreatedAt:         now,
	}

	updated, err := u.mutate(ctx, tenantID, id, "payment", func(inv entities.Invoice) (entities.Invoice, bool, error) {
		if err := invoicing.EnsureMutable(inv); err != nil {
			return inv, false, err
		}
		next, err := invoicing.AppendPayment(inv, p)
		if err != nil {
			return inv, false, err
		}
		return next, true, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPaymentAmount):
			u.metrics.PaymentsRejected.WithLabelValues("invalid_amount").Inc()
		case errors.Is(err, ErrOverpaymentRejected):
			u.metrics.PaymentsRejected.WithLabelValues("overpayment").Inc()
		case errors.Is(err, ErrInvoiceLocked):
			u.metrics.PaymentsRejected.WithLabelValues("locked").Inc()
		}
		u.log.Warn().Err(err).Str("tenant_id", tenantID).Str("invoice_id", id).Msg("payment rejected")
		return entities.Invoice{}, err
	}

	u.metrics.PaymentsRecorded.Inc()
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Str("payment_id", p.ID).
		Str("total_paid", invoicing.TotalPaid(updated).StringFixed(2)).Msg("payment success")
	return updated, nil
}

func (u *InvoiceUseCase) DestroyInvoice(ctx context.Context, tenantID, id string) error {
	return u.DestroyInvoices(ctx, tenantID, []string{id})
}

// DestroyInvoices deletes every listed invoice or none of them.
func (u *InvoiceUseCase) DestroyInvoices(ctx context.Context, tenantID string, ids []string) error {
	tenantID = strings.TrimSpace(tenantID)
	u.log.Info().Str("tenant_id", tenantID).Int("count", len(ids)).Msg("destroy start")
	if tenantID == "" {
		return invoicing.NewValidationError("tenant_id", "is required")
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return invoicing.NewValidationError("ids", "at least one invoice id is required")
	}
	if len(ids) > MaxBatchDelete {
		return invoicing.NewValidationError("ids", fmt.Sprintf("at most %d invoice ids per batch", MaxBatchDelete))
	}

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		batch := make([]entities.Invoice, 0, len(ids))
		for _, id := range ids {
			inv, err := u.load(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if err := invoicing.EnsureMutable(inv); err != nil {
				u.log.Warn().Str("tenant_id", tenantID).Str("invoice_id", id).Msg("destroy rejected locked invoice")
				return err
			}
			batch = append(batch, inv)
		}

		err := u.repo.DeleteBatch(ctx, tenantID, batch)
		if errors.Is(err, interfaces.ErrVersionConflict) {
			u.metrics.VersionConflicts.Inc()
			u.log.Debug().Str("tenant_id", tenantID).Int("attempt", attempt).Msg("destroy version conflict, retrying")
			continue
		}
		if err != nil {
			u.log.Error().Err(err).Str("tenant_id", tenantID).Msg("destroy failed")
			return err
		}
		u.log.Info().Str("tenant_id", tenantID).Strs("invoice_ids", ids).Msg("destroy success")
		return nil
	}
	return fmt.Errorf("%w: destroy kept conflicting after %d attempts", ErrRetryExhausted, u.maxAttempts)
}

// SendInvoice moves the invoice to sent and, after the write is committed,
// publishes an InvoiceSent event. Publishing never fails the call.
//
// Concurrent sends of the same invoice share one execution.
func (u *InvoiceUseCase) SendInvoice(ctx context.Context, tenantID, id string) (SendResult, error) {
	key := strings.TrimSpace(tenantID) + "/" + strings.TrimSpace(id)
	// The shared call outlives any single caller; each caller waits on its own ctx.
	flight := context.WithoutCancel(ctx)
	ch := u.sends.DoChan(key, func() (any, error) {
		return u.send(flight, tenantID, id)
	})

	select {
	case <-ctx.Done():
		return SendResult{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			u.log.Debug().Str("tenant_id", tenantID).Str("invoice_id", id).Msg("send shared with concurrent call")
		}
		if res.Err != nil {
			return SendResult{}, res.Err
		}
		return res.Val.(SendResult), nil
	}
}

func (u *InvoiceUseCase) send(ctx context.Context, tenantID, id string) (SendResult, error) {
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Msg("send start")

	var transitioned bool
	sent, err := u.mutate(ctx, tenantID, id, "send", func(inv entities.Invoice) (entities.Invoice, bool, error) {
		next, changed, err := invoicing.Send(inv, u.now())
		transitioned = changed
		return next, changed, err
	})
	if err != nil {
		u.log.Warn().Err(err).Str("tenant_id", tenantID).Str("invoice_id", id).Msg("send rejected")
		return SendResult{}, err
	}
	if transitioned {
		u.metrics.InvoicesSent.Inc()
	}

	res := SendResult{Invoice: sent}
	res.NotificationAttempted, res.NotifiedAddress = u.announceSent(ctx, sent, !transitioned)
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Bool("resend", !transitioned).
		Bool("notification_attempted", res.NotificationAttempted).Msg("send success")
	return res, nil
}

// announceSent publishes the post-commit event. Failures are logged only.
func (u *InvoiceUseCase) announceSent(ctx context.Context, inv entities.Invoice, resend bool) (bool, string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyPublishBudget)
	defer cancel()

	address := ""
	if inv.ClientID != "" && u.refs != nil {
		client, err := u.refs.ResolveClient(ctx, inv.TenantID, inv.ClientID)
		if err != nil {
			u.metrics.NotificationFailures.WithLabelValues("recipient").Inc()
			u.log.Warn().Err(err).Str("tenant_id", inv.TenantID).Str("invoice_id", inv.ID).Msg("send could not resolve recipient")
		} else {
			address = strings.TrimSpace(client.Email)
		}
	}

	if u.publisher == nil {
		u.log.Warn().Str("invoice_id", inv.ID).Msg("send event publisher not configured")
		return false, ""
	}

	var sentAt time.Time
	if inv.SentAt != nil {
		sentAt = *inv.SentAt
	}
	evt := entities.InvoiceSentEvent{
		EventID:        u.newID(),
		Type:           entities.EventTypeInvoiceSent,
		TenantID:       inv.TenantID,
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		Total:          inv.Total,
		SentAt:         sentAt,
		RecipientEmail: address,
		Resend:         resend,
		OccurredAt:     u.now(),
	}
	if err := u.publisher.PublishInvoiceSent(ctx, evt); err != nil {
		u.metrics.NotificationFailures.WithLabelValues("publish").Inc()
		u.log.Error().Err(err).Str("tenant_id", inv.TenantID).Str("invoice_id", inv.ID).Msg("send event publish failed")
		return false, ""
	}
	if address == "" {
		return false, ""
	}
	return true, address
}

// mutate loads the invoice, applies fn and writes the result conditioned on the
// loaded version. fn returning changed=false skips the write.
func (u *InvoiceUseCase) mutate(ctx context.Context, tenantID, id, op string, fn func(entities.Invoice) (entities.Invoice, bool, error)) (entities.Invoice, error) {
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		inv, err := u.load(ctx, tenantID, id)
		if err != nil {
			return entities.Invoice{}, err
		}
		next, changed, err := fn(inv)
		if err != nil {
			return entities.Invoice{}, err
		}
		if !changed {
			return next, nil
		}

		next.UpdatedAt = u.now()
		saved, err := u.repo.Save(ctx, next)
		if errors.Is(err, interfaces.ErrVersionConflict) {
			u.metrics.VersionConflicts.Inc()
			u.log.Debug().Str("op", op).Str("tenant_id", tenantID).Str("invoice_id", id).Int("attempt", attempt).Msg("version conflict, reloading")
			continue
		}
		if err != nil {
			u.log.Error().Err(err).Str("op", op).Str("tenant_id", tenantID).Str("invoice_id", id).Msg("save failed")
			return entities.Invoice{}, err
		}
		return saved, nil
	}
	return entities.Invoice{}, fmt.Errorf("%w: %s kept conflicting after %d attempts", ErrRetryExhausted, op, u.maxAttempts)
}

func (u *InvoiceUseCase) load(ctx context.Context, tenantID, id string) (entities.Invoice, error) {
	tenantID = strings.TrimSpace(tenantID)
	id = strings.TrimSpace(id)
	if tenantID == "" {
		return entities.Invoice{}, invoicing.NewValidationError("tenant_id", "is required")
	}
	if id == "" {
		return entities.Invoice{}, invoicing.NewValidationError("id", "is required")
	}

	inv, err := u.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" || inv.IsDeleted() {
		return entities.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return inv, nil
}

func (u *InvoiceUseCase) checkReferences(ctx context.Context, tenantID, clientID, siteID string) error {
	if clientID == "" && siteID == "" {
		return nil
	}
	if u.refs == nil {
		return errors.New("reference resolver not configured")
	}

	if clientID != "" {
		if _, err := u.refs.ResolveClient(ctx, tenantID, clientID); err != nil {
			if errors.Is(err, interfaces.ErrReferenceNotInTenant) {
				return invoicing.NewValidationError("client_id", "unknown client")
			}
			return err
		}
	}
	if siteID != "" {
		site, err := u.refs.ResolveSite(ctx, tenantID, siteID)
		if err != nil {
			if errors.Is(err, interfaces.ErrReferenceNotInTenant) {
				return invoicing.NewValidationError("site_id", "unknown site")
			}
			return err
		}
		if clientID != "" && site.ClientID != "" && site.ClientID != clientID {
			return invoicing.NewValidationError("site_id", "site belongs to another client")
		}
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
