// Package scheduler съдържа планираните задачи на услугата
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
)

type CorpusSyncConfig struct {
	CronSchedule string
	Enabled      bool
}

// CorpusSyncService обхожда директорията с корпуси по разписание и пуска
// пълен анализ, така че нови файлове да влизат в таблицата без ръчна намеса
type CorpusSyncService struct {
	scheduler           *gocron.Scheduler
	analyzer            analyzing.Service
	config              CorpusSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewCorpusSyncService(analyzer analyzing.Service, cfg *config.Config) *CorpusSyncService {
	syncConfig := CorpusSyncConfig{
		CronSchedule: cfg.CorpusSync.CronSchedule,
		Enabled:      cfg.CorpusSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
	}).Info("Конфигурацията на планирания анализ на корпусите е заредена")

	return &CorpusSyncService{
		scheduler: scheduler,
		analyzer:  analyzer,
		config:    syncConfig,
	}
}

func (s *CorpusSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Планираният анализ на корпусите е изключен от конфигурацията")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Стартиране на планирания анализ на корпусите")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncCorpus(); err != nil {
			logrus.WithError(err).Error("Грешка при планирания анализ на корпусите")
		}
	})
	if err != nil {
		return fmt.Errorf("грешка при планиране на анализа на корпусите: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Спиране на планирания анализ на корпусите")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncCorpus пуска пълен анализ върху всички корпус файлове. Едновременно
// може да тече само един анализ от тази задача
func (s *CorpusSyncService) SyncCorpus() error {
	s.syncMutex.Lock()

	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Анализ на корпусите вече е в ход")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.Info("Начало на планирания анализ на корпусите")

	result, err := s.analyzer.Run(context.Background(), analyzing.RunRequest{})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"run_id":            result.Run.ID,
		"files":             result.Run.Summary.FilesProcessed,
		"products_retained": result.Run.Summary.ProductsRetained,
	}).Info("Планираният анализ на корпусите завърши")

	return nil
}

// TriggerManualSync пуска анализа на корпусите извън разписанието
func (s *CorpusSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Анализ на корпусите вече тече, ръчната заявка се пропуска")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Начало на ръчно пуснат анализ на корпусите")
	go func() {
		if err := s.SyncCorpus(); err != nil {
			logrus.WithError(err).Error("Грешка при ръчния анализ на корпусите")
		}
	}()
}

// GetStatus връща текущото състояние на задачата
func (s *CorpusSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
