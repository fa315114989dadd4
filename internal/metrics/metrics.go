package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// automationRuns counts reminder automation runs.
	// Labels:
	// - trigger: "manual" or "schedule"
	// - status:  "success" or "failure"
	automationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luxerent",
			Subsystem: "automation",
			Name:      "runs_total",
			Help:      "Number of reminder automation runs",
		},
		[]string{"trigger", "status"},
	)

	automationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "luxerent",
			Subsystem: "automation",
			Name:      "run_duration_seconds",
			Help:      "Duration of reminder automation runs",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// remindersEmitted counts log entries produced by the engine.
	// Labels:
	// - type:   "PRE_DUE" or "OVERDUE"
	// - method: "EMAIL" or "SMS"
	remindersEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luxerent",
			Subsystem: "reminders",
			Name:      "emitted_total",
			Help:      "Number of reminders recorded in the log",
		},
		[]string{"type", "method"},
	)

	notifyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luxerent",
			Subsystem: "reminders",
			Name:      "notify_failures_total",
			Help:      "Number of reminders whose dispatch failed",
		},
		[]string{"method"},
	)

	// payments counts payment confirmations by outcome.
	// Labels:
	// - status: "started", "confirmed" or "failed"
	payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luxerent",
			Subsystem: "payments",
			Name:      "total",
			Help:      "Number of payment confirmation attempts by outcome",
		},
		[]string{"status"},
	)
)

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// ObserveAutomationRun records the outcome and duration of one automation run.
func ObserveAutomationRun(trigger string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	automationRuns.WithLabelValues(orUnknown(trigger), status).Inc()
	automationDuration.Observe(d.Seconds())
}

func IncReminderEmitted(reminderType, method string) {
	remindersEmitted.WithLabelValues(orUnknown(reminderType), orUnknown(method)).Inc()
}

func IncNotifyFailure(method string) {
	notifyFailures.WithLabelValues(orUnknown(method)).Inc()
}

func IncPayment(status string) {
	payments.WithLabelValues(orUnknown(status)).Inc()
}
