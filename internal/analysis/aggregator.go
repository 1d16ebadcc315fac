// Package analysis строи таблицата с ценови истории и трендовия отчет върху
// резултатите от обработените корпус файлове
package analysis

import (
	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/parsing"
)

// AggregateResult е обединението на наблюденията от няколко файла. Prices
// носи осреднените стойности, Observations пази суровите наблюдения по
// източник, за да е проследимо всяко осредняване
type AggregateResult struct {
	Prices       map[string]domain.PriceSeries
	Observations map[string]map[domain.DateKey][]domain.PriceObservation
	Stats        domain.ParseStats
}

// Aggregate сгъва резултатите от файловете в едно. Когато два файла носят
// цена за един и същи продукт на една и съща дата, в таблицата влиза
// средното аритметично на всички наблюдавани стойности
func Aggregate(results []*parsing.FileResult) *AggregateResult {
	aggregate := &AggregateResult{
		Prices:       make(map[string]domain.PriceSeries),
		Observations: make(map[string]map[domain.DateKey][]domain.PriceObservation),
		Stats:        domain.NewParseStats(),
	}

	collected := make(map[string]map[domain.DateKey][]float64)

	for _, result := range results {
		if result == nil {
			continue
		}

		aggregate.Stats.Merge(result.Stats)

		for product, series := range result.Products {
			if collected[product] == nil {
				collected[product] = make(map[domain.DateKey][]float64)
			}

			for date, price := range series {
				collected[product][date] = append(collected[product][date], price)
			}
		}

		for _, observation := range result.Observations {
			if aggregate.Observations[observation.Product] == nil {
				aggregate.Observations[observation.Product] = make(map[domain.DateKey][]domain.PriceObservation)
			}

			byDate := aggregate.Observations[observation.Product]
			byDate[observation.Date] = append(byDate[observation.Date], observation)
		}
	}

	for product, byDate := range collected {
		series := make(domain.PriceSeries, len(byDate))

		for date, prices := range byDate {
			series[date] = mean(prices)
		}

		aggregate.Prices[product] = series
	}

	return aggregate
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
