package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/usecases/analyzing"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
)

// GetPriceTable връща матрицата продукт × дата от последния анализ
func GetPriceTable(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Current()
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		response := map[string]any{
			"run_id":   result.Run.ID,
			"run_code": result.Run.Code,
			"table":    result.Table,
			"summary":  result.Run.Summary,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// ExportPriceTable връща таблицата с цените като CSV файл. Името на файла
// включва кода на анализа
func ExportPriceTable(service analyzing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ExportPriceTable")

		result, err := service.Current()
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		filename := fmt.Sprintf("price-history-%s.csv", result.Run.Code)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		writer := csv.NewWriter(w)

		header := make([]string, 0, len(result.Table.Dates)+1)
		header = append(header, "Продукт")
		header = append(header, result.Table.Dates...)

		if err := writer.Write(header); err != nil {
			logrus.WithError(err).Error("Грешка при запис на CSV заглавния ред")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Грешка при експортиране", nil)
			return
		}

		for _, product := range result.Table.Products() {
			row := make([]string, 0, len(result.Table.Dates)+1)
			row = append(row, product)

			for _, date := range result.Table.Dates {
				price, ok := result.Table.PriceAt(product, date)
				if !ok {
					// Продуктът няма наблюдение за тази дата
					row = append(row, "")
					continue
				}

				row = append(row, fmt.Sprintf("%.2f", price))
			}

			if err := writer.Write(row); err != nil {
				logrus.WithError(err).WithField("product", product).Error("Грешка при запис на CSV ред")
				return
			}
		}

		writer.Flush()

		if err := writer.Error(); err != nil {
			logrus.WithError(err).Error("Грешка при завършване на CSV експорта")
		}
	}
}
