package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing/mocks"
)

func testResult() *analyzing.Result {
	change := 7.69

	return &analyzing.Result{
		Run: &domain.AnalysisRun{
			ID:   "11111111-2222-3333-4444-555555555555",
			Code: "AB12CD",
			Summary: domain.AnalysisSummary{
				FilesProcessed:   2,
				ProductsRetained: 2,
			},
		},
		Table: &domain.PriceHistoryTable{
			Dates: []domain.DateKey{"2025-11-03", "2026-01-15"},
			Rows: map[string]domain.PriceSeries{
				"ПРЯСНО МЛЯКО": {"2025-11-03": 0.99693, "2026-01-15": 1.07361},
				"БАНАНИ":       {"2025-11-03": 1.22966},
			},
		},
		Trends: &domain.TrendSummary{
			Trends: []*domain.ProductTrend{
				{
					Product:       "ПРЯСНО МЛЯКО",
					FirstDate:     "2025-11-03",
					FirstPrice:    0.99693,
					LastDate:      "2026-01-15",
					LastPrice:     1.07361,
					ChangePercent: &change,
				},
			},
		},
	}
}

func paramsContext(r *http.Request, params httprouter.Params) *http.Request {
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, params)
	return r.WithContext(ctx)
}

func TestRunAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	var captured analyzing.RunRequest

	mockService.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req analyzing.RunRequest) (*analyzing.Result, error) {
			captured = req
			return testResult(), nil
		})

	body := strings.NewReader(`{"start_date": "2025-11-01", "end_date": "2026-01-31"}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/analysis/run", body)
	w := httptest.NewRecorder()

	RunAnalysis(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "AB12CD")

	require.NotNil(t, captured.StartDate)
	require.NotNil(t, captured.EndDate)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), *captured.StartDate)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), *captured.EndDate)
}

func TestRunAnalysisInvalidDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	body := strings.NewReader(`{"start_date": "01.11.2025"}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/analysis/run", body)
	w := httptest.NewRecorder()

	RunAnalysis(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_003")
}

func TestRunAnalysisEndBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	body := strings.NewReader(`{"start_date": "2026-01-31", "end_date": "2025-11-01"}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/analysis/run", body)
	w := httptest.NewRecorder()

	RunAnalysis(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestRunAnalysisNoCorpusFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(nil, analyzing.ErrNoCorpusFiles)

	r := httptest.NewRequest(http.MethodPost, "/v1/analysis/run", nil)
	w := httptest.NewRecorder()

	RunAnalysis(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ANL_002")
}

func TestGetAnalysisRunNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().
		GetRun("missing-id").
		Return(nil, analyzing.ErrRunNotFound)

	r := httptest.NewRequest(http.MethodGet, "/v1/analysis/runs/missing-id", nil)
	r = paramsContext(r, httprouter.Params{{Key: "id", Value: "missing-id"}})
	w := httptest.NewRecorder()

	GetAnalysisRun(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ANL_003")
}

func TestGetPriceTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().Current().Return(testResult(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/table", nil)
	w := httptest.NewRecorder()

	GetPriceTable(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ПРЯСНО МЛЯКО")
	assert.Contains(t, w.Body.String(), "AB12CD")
}

func TestGetPriceTableNoAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().Current().Return(nil, analyzing.ErrNoAnalysis)

	r := httptest.NewRequest(http.MethodGet, "/v1/table", nil)
	w := httptest.NewRecorder()

	GetPriceTable(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ANL_001")
}

func TestExportPriceTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().Current().Return(testResult(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/table/export", nil)
	w := httptest.NewRecorder()

	ExportPriceTable(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "price-history-AB12CD.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Продукт,2025-11-03,2026-01-15", lines[0])

	// Продуктите са по азбучен ред, липсващите наблюдения са празни клетки
	assert.Equal(t, "БАНАНИ,1.23,", lines[1])
	assert.Equal(t, "ПРЯСНО МЛЯКО,1.00,1.07", lines[2])
}

func TestListProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().
		ListProducts().
		Return([]string{"БАНАНИ", "ПРЯСНО МЛЯКО"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	w := httptest.NewRecorder()

	ListProducts(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestGetProductHistoryNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().
		ProductHistory("КАФЕ").
		Return(nil, analyzing.ErrProductNotFound)

	r := httptest.NewRequest(http.MethodGet, "/v1/products/КАФЕ/history", nil)
	r = paramsContext(r, httprouter.Params{{Key: "name", Value: "КАФЕ"}})
	w := httptest.NewRecorder()

	GetProductHistory(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ANL_004")
}

func TestGetTopMovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	change := -12.5

	mockService.EXPECT().
		Trends(3).
		Return(&domain.TrendSummary{
			TopMovers: []*domain.ProductTrend{
				{Product: "БАНАНИ", ChangePercent: &change},
			},
		}, nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/trends/movers?limit=3", nil)
	w := httptest.NewRecorder()

	GetTopMovers(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "top_movers")
	assert.Contains(t, w.Body.String(), "БАНАНИ")
}

func TestGetTopMoversInvalidLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	r := httptest.NewRequest(http.MethodGet, "/v1/trends/movers?limit=abc", nil)
	w := httptest.NewRecorder()

	GetTopMovers(mockService).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_003")
}

func TestGetTopDecreasesDefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)

	mockService.EXPECT().
		Trends(0).
		Return(&domain.TrendSummary{TopDecreases: []*domain.ProductTrend{}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/trends/decreases", nil)
	w := httptest.NewRecorder()

	GetTopDecreases(mockService).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "top_decreases")
}
