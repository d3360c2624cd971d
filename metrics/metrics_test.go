package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/user/products/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/user/products/:id", "200"))
	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/products/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/user/products/:id", "200"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(ordersPlaced.WithLabelValues("cod"))
	RecordOrderPlaced("cod", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(ordersPlaced.WithLabelValues("cod"))-before)

	before = testutil.ToFloat64(paymentsVerified.WithLabelValues("invalid"))
	RecordPaymentVerification("invalid")
	assert.Equal(t, 1.0, testutil.ToFloat64(paymentsVerified.WithLabelValues("invalid"))-before)
}
