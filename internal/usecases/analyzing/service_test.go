package analyzing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ivpetrov/price-history-api/infrastructure/repository/mocks"
	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/domain"
)

func testConfig(receiptsDir string) *config.Config {
	return &config.Config{
		Analysis: config.Analysis{
			ReceiptsDir:        receiptsDir,
			TopMoversLimit:     10,
			MaxConcurrentFiles: 2,
			YearPolicyCurrent:  2026,
			YearPolicyDecember: 2025,
		},
		Currency: config.Currency{
			EURCutoverDate: "2026-01-01",
			BGNPerEUR:      1.95583,
		},
	}
}

func writeCorpus(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestServiceRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	dir := t.TempDir()

	writeCorpus(t, dir, "january.txt",
		"БЕЛЕЖКА #1\n"+
			"15.12.2025 08:30:22\n"+
			"ПРЯСНО МЛЯКО  1,95 лв\n")
	writeCorpus(t, dir, "february.txt",
		"БЕЛЕЖКА #1\n"+
			"10.01.2026 09:15:33\n"+
			"ПРЯСНО МЛЯКО  2,10 B\n"+
			"ОБЩА СУМА  2,10 BGN\n")

	var savedRun *domain.AnalysisRun

	mockRuns.EXPECT().
		SaveRun(gomock.Any()).
		DoAndReturn(func(run *domain.AnalysisRun) error {
			savedRun = run
			return nil
		})

	mockObservations.EXPECT().
		SaveForRun(gomock.Any(), gomock.Len(2)).
		Return(nil)

	service, err := NewService(testConfig(dir), mockRuns, mockObservations)
	require.NoError(t, err)

	result, err := service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)

	require.NotNil(t, savedRun)
	assert.NotEmpty(t, savedRun.ID)
	assert.NotEmpty(t, savedRun.Code)
	assert.Equal(t, 2, savedRun.Summary.FilesProcessed)
	assert.Equal(t, 0, savedRun.Summary.FilesFailed)
	assert.Equal(t, 2, savedRun.Summary.BlocksParsed)
	assert.Equal(t, 1, savedRun.Summary.ProductsTotal)
	assert.Equal(t, 1, savedRun.Summary.ProductsRetained)

	series, ok := result.Table.Rows["ПРЯСНО МЛЯКО"]
	require.True(t, ok)
	assert.InDelta(t, 1.95/1.95583, series["2025-12-15"], 1e-9)
	assert.InDelta(t, 2.10/1.95583, series["2026-01-10"], 1e-9)

	require.Len(t, result.Trends.Trends, 1)
	require.NotNil(t, result.Trends.Trends[0].ChangePercent)
	assert.InDelta(t, 7.69, *result.Trends.Trends[0].ChangePercent, 1e-9)
}

func TestServiceRunProductNameWithPercent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	dir := t.TempDir()

	writeCorpus(t, dir, "spring.txt",
		"БЕЛЕЖКА #1\n"+
			"15.03.2025 20:00:00\n"+
			"МЛЯКО 3.2%    1,95 лв\n"+
			"БЕЛЕЖКА #2\n"+
			"20.04.2025 20:00:00\n"+
			"МЛЯКО 3.2%    2,10 лв\n")

	mockRuns.EXPECT().SaveRun(gomock.Any()).Return(nil)
	mockObservations.EXPECT().SaveForRun(gomock.Any(), gomock.Len(2)).Return(nil)

	service, err := NewService(testConfig(dir), mockRuns, mockObservations)
	require.NoError(t, err)

	result, err := service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)

	// Продуктът с процент в името се задържа с двете си дати
	series, ok := result.Table.Rows["МЛЯКО 3.2%"]
	require.True(t, ok)
	assert.InDelta(t, 1.95/1.95583, series["2025-03-15"], 1e-9)
	assert.InDelta(t, 2.10/1.95583, series["2025-04-20"], 1e-9)

	require.Len(t, result.Trends.Trends, 1)
	require.NotNil(t, result.Trends.Trends[0].ChangePercent)
	assert.InDelta(t, 7.69, *result.Trends.Trends[0].ChangePercent, 1e-9)
}

func TestServiceRunRecordsFileErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	dir := t.TempDir()

	readable := writeCorpus(t, dir, "ok.txt",
		"БЕЛЕЖКА #1\n"+
			"10.01.2026 09:15:33\n"+
			"МЛЯКО  1,05\n")
	missing := filepath.Join(dir, "missing.txt")

	mockRuns.EXPECT().SaveRun(gomock.Any()).Return(nil)
	mockObservations.EXPECT().SaveForRun(gomock.Any(), gomock.Any()).Return(nil)

	service, err := NewService(testConfig(dir), mockRuns, mockObservations)
	require.NoError(t, err)

	result, err := service.Run(context.Background(), RunRequest{
		Files: []string{readable, missing},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Run.Summary.FilesProcessed)
	assert.Equal(t, 1, result.Run.Summary.FilesFailed)

	require.Len(t, result.Run.FileErrors, 1)
	assert.Equal(t, missing, result.Run.FileErrors[0].File)
}

func TestServiceRunNoFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	service, err := NewService(testConfig(t.TempDir()), mockRuns, mockObservations)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), RunRequest{})
	assert.ErrorIs(t, err, ErrNoCorpusFiles)
}

func TestServiceRunAllFilesFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	dir := t.TempDir()

	service, err := NewService(testConfig(dir), mockRuns, mockObservations)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), RunRequest{
		Files: []string{filepath.Join(dir, "missing.txt")},
	})
	assert.ErrorIs(t, err, ErrAllFilesFailed)
}

func TestServiceCurrentRebuildsFromRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	run := &domain.AnalysisRun{ID: "run-1", Code: "abc123"}

	mockRuns.EXPECT().GetLatestRun().Return(run, nil)
	mockObservations.EXPECT().ListByRun("run-1").Return([]domain.PriceObservation{
		{Product: "КАФЕ", Date: "2026-01-10", Price: 1.50, Source: "a.txt"},
		{Product: "КАФЕ", Date: "2026-01-10", Price: 1.70, Source: "b.txt"},
		{Product: "КАФЕ", Date: "2026-02-10", Price: 1.80, Source: "b.txt"},
	}, nil)

	service, err := NewService(testConfig(t.TempDir()), mockRuns, mockObservations)
	require.NoError(t, err)

	result, err := service.Current()
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.Run.ID)

	series, ok := result.Table.Rows["КАФЕ"]
	require.True(t, ok)
	assert.InDelta(t, 1.60, series["2026-01-10"], 1e-9)
	assert.InDelta(t, 1.80, series["2026-02-10"], 1e-9)

	// повторното викане ползва кеша, без нови заявки към базата
	_, err = service.Current()
	require.NoError(t, err)
}

func TestServiceCurrentNoAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	mockRuns.EXPECT().GetLatestRun().Return(nil, nil)

	service, err := NewService(testConfig(t.TempDir()), mockRuns, mockObservations)
	require.NoError(t, err)

	_, err = service.Current()
	assert.ErrorIs(t, err, ErrNoAnalysis)
}

func TestServiceProductHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRuns := mocks.NewMockAnalysisRunRepository(ctrl)
	mockObservations := mocks.NewMockObservationRepository(ctrl)

	observations := []domain.PriceObservation{
		{Product: "КАФЕ", Date: "2026-01-10", Price: 1.50, Source: "a.txt"},
		{Product: "КАФЕ", Date: "2026-01-10", Price: 1.70, Source: "b.txt"},
		{Product: "КАФЕ", Date: "2026-02-10", Price: 1.80, Source: "b.txt"},
	}

	mockRuns.EXPECT().GetLatestRun().Return(&domain.AnalysisRun{ID: "run-1"}, nil)
	mockObservations.EXPECT().ListByRun("run-1").Return(observations, nil)
	mockObservations.EXPECT().ListByProduct("run-1", "КАФЕ").Return(observations, nil)

	service, err := NewService(testConfig(t.TempDir()), mockRuns, mockObservations)
	require.NoError(t, err)

	history, err := service.ProductHistory("КАФЕ")
	require.NoError(t, err)

	assert.Equal(t, "КАФЕ", history.Product)
	assert.Len(t, history.Observations, 3)
	require.NotNil(t, history.Trend)
	assert.InDelta(t, 12.5, *history.Trend.ChangePercent, 1e-9)

	_, err = service.ProductHistory("НЯМА ТАКЪВ")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
