package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newRouter(buf *bytes.Buffer, reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tracing(), Logging(slog.New(slog.NewJSONHandler(buf, nil))), Metrics(reg))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	g := r.Group("/", HeaderAuth(), RequireRider())
	g.GET("/me", func(c *gin.Context) {
		id, _ := GetRiderID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestRequireRider(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf, prometheus.NewRegistry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RiderIDHeader, "auth0|abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auth0|abc", w.Body.String())
	assert.Contains(t, buf.String(), `"rider_id":"auth0|abc"`)
}

func TestMetricsUseRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	r := newRouter(&buf, reg)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	expected := `
# HELP http_requests_total Total number of HTTP requests (Rate)
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/open",status="204"} 2
http_requests_total{method="GET",path="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))
}

func TestGetLoggerDefault(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, slog.Default(), GetLogger(c))
}
