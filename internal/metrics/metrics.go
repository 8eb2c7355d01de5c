// Package metrics exposes Prometheus collectors for the reminder scheduler,
// the deadline detector and the stores they depend on.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scheduler metrics
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_notifications_sent_total",
			Help: "Total number of reminder notifications shown by kind and stage",
		},
		[]string{"kind", "stage"},
	)

	NotificationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_notification_errors_total",
			Help: "Total number of failed notification deliveries by sink",
		},
		[]string{"sink"},
	)

	ActiveItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wingman_active_items",
			Help: "Number of items in the scheduler working set",
		},
	)

	// Detector metrics
	TasksFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_tasks_failed_total",
			Help: "Total number of tasks marked failed by source",
		},
		[]string{"source"},
	)

	DetectionPasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wingman_detection_passes_total",
			Help: "Total number of deadline detection passes",
		},
	)

	DetectionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wingman_detection_duration_seconds",
			Help:    "Deadline detection pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Store metrics
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_store_errors_total",
			Help: "Total number of item store errors by operation",
		},
		[]string{"op"},
	)

	// Bus metrics
	BusEventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_bus_events_dropped_total",
			Help: "Total number of bus events dropped because the buffer was full",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(NotificationsSent)
	prometheus.MustRegister(NotificationErrors)
	prometheus.MustRegister(ActiveItems)
	prometheus.MustRegister(TasksFailed)
	prometheus.MustRegister(DetectionPasses)
	prometheus.MustRegister(DetectionDuration)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(BusEventsDropped)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time in seconds on h.
func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
