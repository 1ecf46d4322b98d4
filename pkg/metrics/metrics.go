// Package metrics exposes Prometheus collectors for statement conversion.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statement_processor"

// BankUnknown labels statements whose selector is missing or unsupported
const BankUnknown = "unknown"

// Outcome labels
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported_bank"
	OutcomeMismatch    = "bank_mismatch"
	OutcomeInvalid     = "invalid_input"
	OutcomeError       = "error"
)

var (
	statementsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "statements_total",
		Help:      "Statements processed by bank and outcome.",
	}, []string{"bank", "outcome"})

	rowsKept = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_kept_total",
		Help:      "Transaction rows kept after validation.",
	}, []string{"bank"})

	rowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_dropped_total",
		Help:      "Rows below the header dropped by reason.",
	}, []string{"bank", "reason"})

	processingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "processing_duration_seconds",
		Help:      "Time spent fetching, decoding and normalizing a statement.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"bank"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unsupported_bank_notifications_total",
		Help:      "Unsupported bank notifications by delivery result.",
	}, []string{"result"})
)

// ObserveStatement records the outcome and duration of one statement
func ObserveStatement(bank, outcome string, elapsed time.Duration) {
	statementsProcessed.WithLabelValues(bank, outcome).Inc()
	processingDuration.WithLabelValues(bank).Observe(elapsed.Seconds())
}

// ObserveRows records kept and dropped row counts
func ObserveRows(bank string, kept int, dropped map[string]int) {
	rowsKept.WithLabelValues(bank).Add(float64(kept))
	for reason, n := range dropped {
		rowsDropped.WithLabelValues(bank, reason).Add(float64(n))
	}
}

// ObserveNotification records a notifier delivery
func ObserveNotification(err error) {
	if err != nil {
		notificationsSent.WithLabelValues("failed").Inc()
		return
	}
	notificationsSent.WithLabelValues("sent").Inc()
}
