package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/api/handler"
	"github.com/ivpetrov/price-history-api/internal/api/handler/router"
	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/scheduler"
	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/internal/usecases/authenticating"
	"github.com/ivpetrov/price-history-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	analyzerService analyzing.Service,
	authenticator authenticating.Authenticator,
	corpusSyncService *scheduler.CorpusSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		CorpusSyncService: corpusSyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Analysis(analyzerService)...),
		router.WithRoutes(handler.PriceTable(analyzerService)...),
		router.WithRoutes(handler.Products(analyzerService)...),
		router.WithRoutes(handler.Trends(analyzerService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Сървърът стартира")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Грешка при работата на сървъра")
		}
	}()

	// Канал за сигналите за спиране
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Получен сигнал за прекъсване")
	case <-ctx.Done():
		logrus.Info("Контекстът на приложението е прекратен")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Започва плавно спиране на сървъра")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Грешка при спиране на сървъра")
		return err
	}

	logrus.Info("Сървърът спря успешно")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Изпълняват се финалните операции преди спиране")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("HTTP сървърът спря успешно")
	return nil
}
