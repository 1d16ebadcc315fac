package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
)

// parseLimit чете незадължителния параметър limit от заявката.
// Нула означава стойността по подразбиране на услугата
func parseLimit(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, err
	}

	return limit, nil
}

// GetTrends връща тенденциите на всички продукти от последния анализ
func GetTrends(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trends, err := service.Trends(0)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trends)
	}
}

// GetTopMovers връща продуктите с най-голяма абсолютна промяна на цената
func GetTopMovers(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Невалидна стойност за limit", nil)
			return
		}

		trends, err := service.Trends(limit)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"top_movers": trends.TopMovers,
		})
	}
}

// GetTopDecreases връща продуктите с най-голямо поевтиняване
func GetTopDecreases(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Невалидна стойност за limit", nil)
			return
		}

		trends, err := service.Trends(limit)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"top_decreases": trends.TopDecreases,
		})
	}
}
