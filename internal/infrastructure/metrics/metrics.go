package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business-level Prometheus metrics. HTTP metrics
// live in the middleware package.
type Metrics struct {
	// Movement metrics
	MovementsCompleted *prometheus.CounterVec
	MovementsRejected  *prometheus.CounterVec
	MovementDuration   *prometheus.HistogramVec
	MovementAmount     *prometheus.HistogramVec

	// Account metrics
	AccountsCreated prometheus.Counter
	UsersCreated    prometheus.Counter

	// Notification metrics
	NotificationsSent    *prometheus.CounterVec
	NotificationsFailed  *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
}

// New creates all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Movement metrics
		MovementsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_movements_completed_total",
				Help: "Total number of completed money movements by type",
			},
			[]string{"type"},
		),
		MovementsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_movements_rejected_total",
				Help: "Total number of rejected money movements by reason",
			},
			[]string{"type", "reason"},
		),
		MovementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_movement_duration_seconds",
				Help:    "Duration of money movement operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		MovementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_movement_amount",
				Help:    "Money movement amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_users_created_total",
			Help: "Total number of users created",
		}),

		// Notification metrics
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_notifications_sent_total",
				Help: "Total notifications delivered by channel",
			},
			[]string{"channel"},
		),
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_notifications_failed_total",
				Help: "Total notification delivery failures by channel",
			},
			[]string{"channel"},
		),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_notifications_dropped_total",
			Help: "Total notifications dropped due to a full queue",
		}),
	}
}
