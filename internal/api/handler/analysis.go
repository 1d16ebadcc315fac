package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
	"github.com/ivpetrov/price-history-api/pkg/utils"
)

// RunAnalysisRequest е тялото на заявката за нов анализ. Празен списък с
// файлове означава целия корпус от наблюдаваната директория
type RunAnalysisRequest struct {
	Files     []string `json:"files,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

// RunAnalysis стартира нов анализ на корпуса и връща резултата
func RunAnalysis(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunAnalysis")

		var req RunAnalysisRequest

		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Невалиден формат на заявката", nil)
				return
			}
		}

		startDate, err := utils.ParseDate(req.StartDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Невалидна начална дата, очакван формат YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Невалидна крайна дата, очакван формат YYYY-MM-DD", nil)
			return
		}

		if startDate != nil && endDate != nil && endDate.Before(*startDate) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Крайната дата е преди началната", nil)
			return
		}

		result, err := service.Run(r.Context(), analyzing.RunRequest{
			Files:     req.Files,
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(result.Run)
	}
}

// GetAnalysisRun връща записан анализ по неговото ID
func GetAnalysisRun(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Липсва ID на анализа", nil)
			return
		}

		run, err := service.GetRun(id)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(run)
	}
}

// handleAnalysisError превежда грешките от анализа в стандартизиран API отговор
func handleAnalysisError(w http.ResponseWriter, err error) {
	logrus.Error(err)

	switch {
	case errors.Is(err, analyzing.ErrNoCorpusFiles):
		apiErrors.WriteError(w, apiErrors.ErrNoCorpusFiles, "Няма корпус файлове за анализ", nil)

	case errors.Is(err, analyzing.ErrAllFilesFailed):
		apiErrors.WriteError(w, apiErrors.ErrNoCorpusFiles, "Нито един корпус файл не можа да бъде прочетен", nil)

	case errors.Is(err, analyzing.ErrNoAnalysis):
		apiErrors.WriteError(w, apiErrors.ErrNoAnalysis, "Все още няма завършен анализ", nil)

	case errors.Is(err, analyzing.ErrRunNotFound):
		apiErrors.WriteError(w, apiErrors.ErrRunNotFound, "Анализът не е намерен", nil)

	case errors.Is(err, analyzing.ErrProductNotFound):
		apiErrors.WriteError(w, apiErrors.ErrProductNotFound, "Продуктът не е намерен", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Вътрешна грешка при анализа", nil)
	}
}
