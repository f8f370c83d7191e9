// Package metrics exposes Prometheus collectors for HTTP traffic and checkout events.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	checkoutIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_intents_total",
			Help: "Payment intents requested at checkout, by outcome.",
		},
		[]string{"outcome"},
	)

	ordersRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_recorded_total",
			Help: "Orders persisted after payment, by status.",
		},
		[]string{"status"},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_webhook_events_total",
			Help: "Stripe webhook events received, by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	notificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notification_failures_total",
			Help: "Order emails that could not be delivered, by recipient.",
		},
		[]string{"recipient"},
	)
)

func CheckoutIntent(outcome string) {
	checkoutIntentsTotal.WithLabelValues(outcome).Inc()
}

func OrderRecorded(status string) {
	ordersRecordedTotal.WithLabelValues(status).Inc()
}

func WebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func NotificationFailed(recipient string) {
	notificationFailuresTotal.WithLabelValues(recipient).Inc()
}

// Middleware records request metrics under the route pattern, so path
// parameters never become label values.
func Middleware(route string, next http.Handler) http.Handler {
	labels := prometheus.Labels{"path": route}

	return promhttp.InstrumentHandlerInFlight(httpRequestsInFlight,
		promhttp.InstrumentHandlerDuration(httpRequestsDuration.MustCurryWith(labels),
			promhttp.InstrumentHandlerCounter(httpRequestsTotal.MustCurryWith(labels), next),
		),
	)
}

// Handler serves the default registry, which already carries the Go and process collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}
