package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing/mocks"
)

func syncConfig(enabled bool) *config.Config {
	return &config.Config{
		CorpusSync: config.CorpusSync{
			CronSchedule: "0 6 * * *",
			Enabled:      enabled,
		},
	}
}

func TestCorpusSyncServiceSyncCorpus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockService(ctrl)

	mockAnalyzer.EXPECT().
		Run(gomock.Any(), analyzing.RunRequest{}).
		Return(&analyzing.Result{
			Run: &domain.AnalysisRun{
				ID: "run-1",
				Summary: domain.AnalysisSummary{
					FilesProcessed:   2,
					ProductsRetained: 5,
				},
			},
		}, nil)

	service := NewCorpusSyncService(mockAnalyzer, syncConfig(true))

	err := service.SyncCorpus()
	require.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.NotZero(t, status["last_sync_started_at"])
	assert.NotZero(t, status["last_sync_completed_at"])
}

func TestCorpusSyncServiceSyncCorpusError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockService(ctrl)

	mockAnalyzer.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("директорията не е достъпна"))

	service := NewCorpusSyncService(mockAnalyzer, syncConfig(true))

	err := service.SyncCorpus()
	assert.Error(t, err)
}

func TestCorpusSyncServiceSkipsWhenAlreadyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockService(ctrl)

	service := NewCorpusSyncService(mockAnalyzer, syncConfig(true))
	service.syncRunning = true

	// без очакване към mock-а: при течащ анализ нищо не се пуска
	err := service.SyncCorpus()
	require.NoError(t, err)

	service.TriggerManualSync()
}

func TestCorpusSyncServiceStartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockService(ctrl)

	service := NewCorpusSyncService(mockAnalyzer, syncConfig(false))

	err := service.Start(context.Background())
	require.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_enabled"])
}
