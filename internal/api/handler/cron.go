package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/scheduler"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
	"github.com/ivpetrov/price-history-api/pkg/middleware"
)

// Типове cron задачи, които могат да се пускат ръчно
const (
	CronJobTypeCorpus = "corpus"
	CronJobTypeAll    = "all"
)

// CronJobServices съдържа планираните услуги, достъпни за ръчно пускане
type CronJobServices struct {
	CorpusSyncService *scheduler.CorpusSyncService
}

// RunCronJob пуска ръчно конкретна cron задача
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Само администратори могат да пускат cron задачи
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Само администратори могат да пускат cron задачи", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Липсва тип на cron задачата", nil)
			return
		}

		switch cronType {
		case CronJobTypeCorpus, CronJobTypeAll:
			if services.CorpusSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Услугата за анализ на корпуса не е налична", nil)
				return
			}
			services.CorpusSyncService.TriggerManualSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Невалиден тип cron задача. Позволени стойности: corpus, all", nil)
			return
		}

		response := map[string]any{
			"message": "Cron задачата е стартирана успешно",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus връща статуса на cron задачите
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Само администратори могат да виждат статуса на cron задачите", nil)
			return
		}

		status := map[string]any{
			"corpus": services.CorpusSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
