package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/analysis"
	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/config"
	"etf-dashboard-backend/internal/importer"
	"etf-dashboard-backend/internal/metrics"
	"etf-dashboard-backend/internal/model"
	"etf-dashboard-backend/internal/scheduler"
	"etf-dashboard-backend/internal/store"
)

type stubGetter map[string]string

func (s stubGetter) Fetch(_ context.Context, rawURL string) (string, error) {
	if text, ok := s[rawURL]; ok {
		return text, nil
	}
	return "", fmt.Errorf("HTTP状态异常: %d", 404)
}

const dividendCSV = "ETF代碼,ETF名稱,除息日,配息金額\n" +
	"0056,元大高股息,2026/01/15,2\n"

const priceCSV = "ETF代碼,ETF名稱,日期,收盤價\n" +
	"0056,元大高股息,2026/01/14,100\n" +
	"0056,元大高股息,2026/01/25,100\n"

func newTestRouter(t *testing.T) (*gin.Engine, store.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	repo := store.NewRepository(cache.NewMemoryProvider(), logger, map[model.Entity]string{
		model.EntityDividend: "https://sheet.example/div.csv",
		model.EntityPrice:    "https://sheet.example/price.csv",
	})
	m := metrics.New()
	im := importer.New(repo, stubGetter{
		"https://sheet.example/div.csv":   dividendCSV,
		"https://sheet.example/price.csv": priceCSV,
	}, m, logger)

	cutoff, _ := time.Parse("2006-01-02", "2026-01-01")
	now, _ := time.Parse("2006-01-02", "2026-03-01")
	engine := &analysis.Engine{Cutoff: cutoff, Now: func() time.Time { return now }}

	h := &Handler{
		Repo:      repo,
		Importer:  im,
		Analysis:  analysis.NewService(repo, engine),
		Scheduler: scheduler.New(im, nil, config.AutoRefreshConfig{}, logger),
		Metrics:   m,
		Logger:    logger,
	}
	r := gin.New()
	r.Use(AccessLog(logger))
	h.Register(r)
	return r, repo
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestImportAndGetData(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/import/dividend", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), result["imported"])

	w = do(r, http.MethodGet, "/api/data/dividend", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "UPSERT_BY_KEY", body["policy"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "0056", data[0].(map[string]any)["etfCode"])
}

func TestImportErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/import/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/import/size", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/import/price", `{"urls": "https://gone.example/a.csv"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode(t, w)["error"], "每日价格")

	w = do(r, http.MethodPost, "/api/import/price", `{"urls": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFillAnalysisEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/import/dividend", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/import/price", "").Code)

	w := do(r, http.MethodGet, "/api/fill-analysis?code=0056", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)
	rec := data[0].(map[string]any)
	assert.Equal(t, true, rec["isFilled"])
	assert.Equal(t, float64(10), rec["daysToFill"])
	assert.Equal(t, float64(98), rec["priceReference"])

	w = do(r, http.MethodGet, "/api/summaries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestRefreshAndStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	report := body["data"].(map[string]any)
	assert.Equal(t, false, report["ok"])
	assert.NotEmpty(t, body["error"])

	w = do(r, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "manual", status["trigger"])
	assert.NotEmpty(t, status["runId"])
}

func TestExportCSV(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/import/dividend", "").Code)

	w := do(r, http.MethodGet, "/api/export/dividend", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeff"))
	assert.Contains(t, w.Body.String(), `"=""0056"""`)

	w = do(r, http.MethodGet, "/api/export/fill-analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "填息天數")

	w = do(r, http.MethodGet, "/api/export/dividend?format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = do(r, http.MethodGet, "/api/export/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSourcesSettings(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/settings/sources/price", `{"urls": "https://a.example/p.csv|https://b.example/p.csv"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "https://a.example/p.csv|https://b.example/p.csv", data["price"])

	w = do(r, http.MethodPut, "/api/settings/sources/price", `{"urls": ""}`)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "https://sheet.example/price.csv", data["price"])

	w = do(r, http.MethodGet, "/api/settings/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], len(model.Entities()))
}

func TestClearCache(t *testing.T) {
	r, repo := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/import/dividend", "").Code)

	w := do(r, http.MethodDelete, "/api/cache", "")
	require.Equal(t, http.StatusOK, w.Code)

	got, err := repo.Dividends().Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/import/dividend", "").Code)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "etf_dashboard_import_rows_total")
}
