package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/infrastructure/database/postgres"
	"github.com/ivpetrov/price-history-api/infrastructure/repository"
	"github.com/ivpetrov/price-history-api/internal/api"
	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/scheduler"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/internal/usecases/authenticating"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Ниво на логване според конфигурацията
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Невалидно ниво на логване: %s, използва се 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Нивото на логване е: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	runRepo := repository.NewAnalysisRunRepository(pgConn)
	observationRepo := repository.NewObservationRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	analyzerService, err := analyzing.NewService(cfg, runRepo, observationRepo)
	if err != nil {
		logrus.WithError(err).Fatal("Грешка при инициализиране на анализа")
	}

	// Планиран анализ на корпуса в background
	corpusSyncService := scheduler.NewCorpusSyncService(analyzerService, cfg)

	if err := corpusSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Грешка при стартиране на планирания анализ на корпуса")
	} else {
		logrus.Info("Планираният анализ на корпуса е стартиран успешно")
	}

	server, err := api.New(
		cfg,
		analyzerService,
		authenticator,
		corpusSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger настройва формата на логовете
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn отваря връзка към базата данни
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Грешка при свързване с PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Грешка при проверка на връзката с PostgreSQL")
	}

	logrus.Info("Връзката с PostgreSQL е установена успешно")
	return conn
}
