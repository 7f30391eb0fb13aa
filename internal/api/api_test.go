package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/api/middleware"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.FromViper(viper.New())
	return NewRouter(&Services{
		ForecastService:  service.NewForecastService(cfg.Forecast, nil),
		InventoryService: service.NewInventoryService(cfg.Replenishment),
	}, []string{"*"})
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

const salesBody = `{"sales_data":[
	{"date":"2024-01-01","sales":100},
	{"date":"2024-02-01","sales":112},
	{"date":"2024-03-01","sales":108},
	{"date":"2024-04-01","sales":121},
	{"date":"2024-05-01","sales":130},
	{"date":"2024-06-01","sales":127}
],"periods":4}`

func TestForecastRoute(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{"/api/forecast", "/api/v1/forecast"} {
		rec := do(t, router, http.MethodPost, path, salesBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode(t, rec)
		dates := body["dates"].([]interface{})
		values := body["values"].([]interface{})
		assert.Len(t, dates, 4)
		assert.Len(t, values, 4)
		assert.Equal(t, "2024-07-01", dates[0])
	}
}

func TestForecastErrors(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/forecast", `{"sales_data":[{"date":"2024-01-01","sales":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InsufficientDataError", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/api/forecast", `{"sales_data":[{"date":"2024-01-01"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "InvalidRequest", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/api/forecast", `{"sales_data":[{"date":"2024-13-01","sales":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidParameterError", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/api/forecast", `{"sales_data":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastChartRoute(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/forecast/chart", salesBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestForecastBatchRoute(t *testing.T) {
	body := `{"series":[
		{"id":"sku-1","sales_data":[{"date":"2024-01-01","sales":10},{"date":"2024-02-01","sales":13},{"date":"2024-03-01","sales":12},{"date":"2024-04-01","sales":16}],"periods":2},
		{"id":"sku-2","sales_data":[{"date":"2024-01-01","sales":10}]}
	]}`
	rec := do(t, newTestRouter(), http.MethodPost, "/api/forecast/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := decode(t, rec)["results"].([]interface{})
	require.Len(t, results, 2)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "sku-1", first["id"])
	assert.Len(t, first["values"], 2)
	second := results[1].(map[string]interface{})
	assert.Equal(t, "InsufficientDataError", second["error"].(map[string]interface{})["kind"])
}

func TestTrendsRoute(t *testing.T) {
	body := `{"sales_data":[{"date":"2024-01-02","sales":0},{"date":"2024-01-01","sales":50},{"date":"2024-01-03","sales":20}]}`
	rec := do(t, newTestRouter(), http.MethodPost, "/api/trends", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, []interface{}{"2024-01-01", "2024-01-02", "2024-01-03"}, out["dates"])
	assert.Equal(t, []interface{}{nil, nil, nil}, out["ma_7"])
	assert.Equal(t, []interface{}{nil, -100.0, nil}, out["growth"])
}

func TestInventoryAnalysisRoute(t *testing.T) {
	body := `{"inventory_data":[
		{"product":"P1","price":10000,"stock":100,"sales":50},
		{"product":"P2","price":5000,"stock":50,"sales":0},
		{"product":"P3","price":2000,"stock":0,"sales":10},
		{"product":"P4","price":100,"stock":1000,"sales":0}
	]}`
	rec := do(t, newTestRouter(), http.MethodPost, "/api/inventory-analysis", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, []interface{}{"P1", "P2", "P3", "P4"}, out["products"])
	assert.Equal(t, []interface{}{0.5, 0.0, nil, 0.0}, out["turnover"])
	assert.Equal(t, []interface{}{"A", "B", "C", "C"}, out["abc_class"])
	assert.Equal(t, 1_350_000.0, out["total_value"])

	rec = do(t, newTestRouter(), http.MethodPost, "/api/inventory-analysis", `{"inventory_data":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "EmptyInventoryError", decode(t, rec)["error"])
}

func TestCalculateEOQRoute(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/calculate-eoq", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, 10954.0, out["eoq"])
	assert.Equal(t, 1095.4, out["optimal_orders"])

	rec = do(t, router, http.MethodPost, "/api/calculate-eoq", `{"holding_cost":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidParameterError", decode(t, rec)["error"])
}

func TestCalculateROPRoute(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/api/calculate-rop", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, 134289.0, out["rop"])
	assert.Equal(t, 14289.0, out["safety_stock"])
	assert.Equal(t, 120000.0, out["lead_time_demand"])
	assert.Equal(t, 95.0, out["service_level"])
}

func TestReplenishmentOverflowIsInvalidParameter(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/calculate-eoq", `{"annual_demand":1e308,"order_cost":1e308,"holding_cost":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidParameterError", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/api/calculate-rop", `{"daily_demand":1e308,"lead_time_days":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidParameterError", decode(t, rec)["error"])
}

func TestEOQCurveRoute(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/eoq-curve", `{"quantities":[100,200]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	points := decode(t, rec)["eoq_data"].([]interface{})
	require.Len(t, points, 2)
	first := points[0].(map[string]interface{})
	assert.Equal(t, 100.0, first["quantity"])
	assert.Equal(t, 3e9, first["ordering_cost"])
	assert.Equal(t, 250000.0, first["holding_cost"])
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
