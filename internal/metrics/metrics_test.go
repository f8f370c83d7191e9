package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/malaura/storefront/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	handler := metrics.Middleware("/api/v1/orders/{id}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	metrics.CheckoutIntent("created")
	metrics.OrderRecorded("paid")
	metrics.WebhookEvent("payment_intent.succeeded", "processed")
	metrics.NotificationFailed("owner")

	h := metrics.Middleware("/api/v1/orders/{id}", http.NotFoundHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/7", nil))

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `storefront_checkout_intents_total{outcome="created"}`)
	assert.Contains(t, body, `storefront_orders_recorded_total{status="paid"}`)
	assert.Contains(t, body, `storefront_webhook_events_total{outcome="processed",type="payment_intent.succeeded"}`)
	assert.Contains(t, body, `storefront_notification_failures_total{recipient="owner"}`)
	assert.Contains(t, body, `path="/api/v1/orders/{id}"`)
	assert.NotContains(t, body, `path="/api/v1/orders/7"`)
	assert.Contains(t, body, `http_requests_total{code="404",method="get",path="/api/v1/orders/{id}"}`)
}
