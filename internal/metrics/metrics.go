package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dues_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dues_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dues_payments_recorded_total",
		Help: "Payments committed by method",
	}, []string{"method"})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dues_reminders_delivered_total",
		Help: "Reminder delivery attempts by result",
	}, []string{"result"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dues_realtime_clients",
		Help: "Connected websocket clients",
	})

	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dues_realtime_events_total",
		Help: "Realtime events fanned out by event name",
	}, []string{"event"})

	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dues_realtime_dropped_clients_total",
		Help: "Websocket clients dropped for falling behind",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
