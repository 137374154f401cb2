package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the invoice counters. Use NewRecorder with a dedicated
// registry in tests; Default is registered on the global registry.
type Recorder struct {
	NumberConflicts      prometheus.Counter
	NumberRetryExhausted prometheus.Counter
	VersionConflicts     prometheus.Counter
	PaymentsRecorded     prometheus.Counter
	PaymentsRejected     *prometheus.CounterVec
	InvoicesSent         prometheus.Counter
	NotificationFailures *prometheus.CounterVec
}

var Default = NewRecorder(prometheus.DefaultRegisterer)

func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		NumberConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "invoice_number_conflicts_total",
			Help: "Invoice inserts that lost the race for an invoice number.",
		}),
		NumberRetryExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "invoice_number_retry_exhausted_total",
			Help: "Invoice creations that gave up after the maximum number of numbering attempts.",
		}),
		VersionConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "invoice_version_conflicts_total",
			Help: "Invoice writes rejected because another writer committed first.",
		}),
		PaymentsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "invoice_payments_recorded_total",
			Help: "Payments appended to invoice ledgers.",
		}),
		PaymentsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_payments_rejected_total",
			Help: "Payments rejected by the ledger, by reason.",
		}, []string{"reason"}),
		InvoicesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "invoices_sent_total",
			Help: "Invoices moved from draft to sent.",
		}),
		NotificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_notification_failures_total",
			Help: "Best-effort post-send steps that failed, by stage.",
		}, []string{"stage"}),
	}
}
