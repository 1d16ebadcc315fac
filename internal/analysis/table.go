package analysis

import (
	"sort"

	"github.com/ivpetrov/price-history-api/internal/domain"
)

// MinDistinctDates е прагът за задържане на продукт в таблицата. Под две
// различни дати няма история, само единично наблюдение
const MinDistinctDates = 2

// BuildTable строи матрицата продукт × дата от осреднените серии. Оста от
// дати е сортирана хронологично и съдържа само дати на задържани продукти
func BuildTable(prices map[string]domain.PriceSeries) *domain.PriceHistoryTable {
	table := &domain.PriceHistoryTable{
		Rows: make(map[string]domain.PriceSeries),
	}

	dateSet := make(map[domain.DateKey]struct{})

	for product, series := range prices {
		if len(series) < MinDistinctDates {
			continue
		}

		table.Rows[product] = series

		for date := range series {
			dateSet[date] = struct{}{}
		}
	}

	table.Dates = make([]domain.DateKey, 0, len(dateSet))
	for date := range dateSet {
		table.Dates = append(table.Dates, date)
	}

	sort.Strings(table.Dates)

	return table
}
