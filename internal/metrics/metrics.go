package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Session Metrics
var (
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWSConnections,
			Help: HelpTextWSConnections,
		},
	)

	MessagesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMessagesDispatched,
			Help: HelpTextMessagesDispatched,
		},
		[]string{LabelType},
	)

	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDispatchErrors,
			Help: HelpTextDispatchErrors,
		},
		[]string{LabelReason},
	)

	BroadcastSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBroadcastFailures,
			Help: HelpTextBroadcastFailures,
		},
	)
)

// Business Metrics
var (
	LootBagsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootBagsGenerated,
			Help: HelpTextLootBagsGenerated,
		},
		[]string{LabelSource},
	)

	RoomsRehydrated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoomsRehydrated,
			Help: HelpTextRoomsRehydrated,
		},
	)

	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceErrors,
			Help: HelpTextPersistenceErrors,
		},
		[]string{LabelOperation},
	)
)
