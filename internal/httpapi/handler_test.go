package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/logger"
	"github.com/xtding233/enchant-engine/internal/metrics"
	"github.com/xtding233/enchant-engine/internal/service"
)

func newTestRouter(t *testing.T, rules enchant.Rules) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := service.New(enchant.MustNew(rules), service.Options{
		Logger:  logger.Discard(),
		Metrics: metrics.New(reg),
	})
	return NewRouter(svc, logger.Discard(), reg)
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())
	rec := do(t, e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRate(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())

	rec := do(t, e, http.MethodGet, "/api/v1/rate?level=0&item_tier=5&orb_tier=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, 100.0, body["success_rate"])
	assert.Equal(t, "safe", body["risk"])

	rec = do(t, e, http.MethodGet, "/api/v1/rate?level=0&item_tier=5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/rate?level=abc&item_tier=5&orb_tier=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/rate?item_tier=7&orb_tier=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "unknown item_tier 7")
}

func TestCostInfinityEncoding(t *testing.T) {
	r := enchant.DefaultRules()
	r.LevelPenalty = 50
	e := newTestRouter(t, r)

	rec := do(t, e, http.MethodGet, "/api/v1/cost?level=0&item_tier=5&orb_tier=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Infinity", body["expected_orbs"])
	assert.Equal(t, "∞", body["display"])

	rec = do(t, e, http.MethodGet, "/api/v1/cost?level=0&target=1&item_tier=1&orb_tier=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["expected_orbs"])
}

func TestPathAndRecommend(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())

	rec := do(t, e, http.MethodGet, "/api/v1/path?level=1&item_tier=4&orb_tier=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decode(t, rec)["steps"].([]any)
	assert.Len(t, steps, 6)

	rec = do(t, e, http.MethodGet, "/api/v1/recommend?level=0&item_tier=5&min_rate=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 4.0, body["orb_tier"])
	assert.Equal(t, "Major", body["orb_name"])

	rec = do(t, e, http.MethodGet, "/api/v1/recommend?item_tier=5&min_rate=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPractical(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())
	rec := do(t, e, http.MethodGet, "/api/v1/practical?level=0&target=1&item_tier=1&orb_tier=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["practical"])
	assert.Equal(t, 1.0, body["estimated_cost"])
}

func TestSimulate(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())
	rec := do(t, e, http.MethodPost, "/api/v1/simulate",
		`{"item_tier":2,"orb_tier":2,"runs":500,"orb_limit":5,"seed":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.NotEmpty(t, body["run_id"])
	stats := body["stats"].(map[string]any)
	assert.Equal(t, 500.0, stats["runs"])
	assert.Len(t, stats["histogram"], 10)
	assert.Contains(t, body, "chance_within_limit")

	rec = do(t, e, http.MethodPost, "/api/v1/simulate", `{"item_tier":2`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/simulate",
		`{"start_level":1125899906842624,"item_tier":1,"orb_tier":1,"runs":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateImpractical(t *testing.T) {
	r := enchant.DefaultRules()
	r.Limits.SlowAbove = 1
	r.Limits.ImpracticalAbove = 2
	e := newTestRouter(t, r)

	rec := do(t, e, http.MethodPost, "/api/v1/simulate", `{"item_tier":3,"orb_tier":1,"runs":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/simulate", `{"item_tier":3,"orb_tier":1,"runs":10,"force":true,"seed":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompare(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())
	rec := do(t, e, http.MethodPost, "/api/v1/compare", `{"level":1,"item_tier":4,"inventory":{"4":1000}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	policies := body["policies"].([]any)
	require.Len(t, policies, 3)
	safe := policies[0].(map[string]any)
	assert.Equal(t, "Safe Path", safe["policy"])
	assert.Equal(t, true, safe["affordable"])
	assert.NotContains(t, body, "cheapest")
}

func TestTablesAndMetrics(t *testing.T) {
	e := newTestRouter(t, enchant.DefaultRules())
	rec := do(t, e, http.MethodGet, "/api/v1/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["items"], 5)
	assert.Len(t, body["orbs"], 5)

	do(t, e, http.MethodGet, "/api/v1/rate?item_tier=1&orb_tier=1", "")
	rec = do(t, e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `enchant_requests_total{op="rate",result="ok"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, statusFor(service.ErrBusy))
	assert.Equal(t, http.StatusNotFound, statusFor(echo.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
