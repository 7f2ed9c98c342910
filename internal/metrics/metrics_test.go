package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			var sum float64
			for _, m := range mf.GetMetric() {
				sum += m.GetCounter().GetValue()
			}
			return sum
		}
	}
	return 0
}

func TestCollector_OrderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderCreated()
	c.RecordOrderCreated()
	c.RecordStatusChange("accepted")

	assert.Equal(t, 2.0, counterValue(t, reg, "webshop_orders_created_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "webshop_order_status_changes_total"))
}

func TestCollector_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	router := chi.NewRouter()
	router.Use(c.Middleware)
	router.Get("/articles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/articles/42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0, counterValue(t, reg, "webshop_http_requests_total"))
}
