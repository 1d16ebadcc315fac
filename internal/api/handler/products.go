package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
)

// ListProducts връща имената на продуктите от последния анализ
func ListProducts(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.ListProducts()
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"products": products,
			"count":    len(products),
		})
	}
}

// GetProductHistory връща историята на цените на един продукт: осреднената
// серия, суровите наблюдения и тенденцията
func GetProductHistory(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product := httprouter.ParamsFromContext(r.Context()).ByName("name")
		if product == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Липсва име на продукта", nil)
			return
		}

		history, err := service.ProductHistory(product)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(history)
	}
}
