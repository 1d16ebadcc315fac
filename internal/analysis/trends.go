package analysis

import (
	"math"
	"sort"

	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/pkg/utils"
)

// DefaultRankingLimit е броят продукти в класациите по подразбиране
const DefaultRankingLimit = 10

// AnalyzeTrends смята движението на цената за всеки ред от таблицата и
// строи двете класации. Продукт с първа цена нула няма дефинирана промяна
// в проценти и не участва в класациите
func AnalyzeTrends(table *domain.PriceHistoryTable, limit int) *domain.TrendSummary {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	summary := &domain.TrendSummary{
		Trends: make([]*domain.ProductTrend, 0, len(table.Rows)),
	}

	for _, product := range table.Products() {
		summary.Trends = append(summary.Trends, productTrend(product, table.Rows[product]))
	}

	summary.TopMovers = topMovers(summary.Trends, limit)
	summary.TopDecreases = topDecreases(summary.Trends, limit)

	return summary
}

func productTrend(product string, series domain.PriceSeries) *domain.ProductTrend {
	dates := series.Dates()

	trend := &domain.ProductTrend{
		Product:    product,
		FirstDate:  dates[0],
		FirstPrice: series[dates[0]],
		LastDate:   dates[len(dates)-1],
		LastPrice:  series[dates[len(dates)-1]],
		MinDate:    dates[0],
		MinPrice:   series[dates[0]],
		MaxDate:    dates[0],
		MaxPrice:   series[dates[0]],
	}

	for _, date := range dates[1:] {
		price := series[date]

		if price < trend.MinPrice {
			trend.MinPrice = price
			trend.MinDate = date
		}

		if price > trend.MaxPrice {
			trend.MaxPrice = price
			trend.MaxDate = date
		}
	}

	if trend.FirstPrice != 0 {
		change := utils.RoundWithTwoDecimalPlace((trend.LastPrice - trend.FirstPrice) / trend.FirstPrice * 100)
		trend.ChangePercent = &change
	}

	return trend
}

func topMovers(trends []*domain.ProductTrend, limit int) []*domain.ProductTrend {
	ranked := withDefinedChange(trends)

	// при равна абсолютна промяна редът е азбучен, за да е стабилна класацията
	sort.SliceStable(ranked, func(i, j int) bool {
		left, right := math.Abs(*ranked[i].ChangePercent), math.Abs(*ranked[j].ChangePercent)
		if left != right {
			return left > right
		}

		return ranked[i].Product < ranked[j].Product
	})

	return truncate(ranked, limit)
}

func topDecreases(trends []*domain.ProductTrend, limit int) []*domain.ProductTrend {
	var decreases []*domain.ProductTrend

	for _, trend := range withDefinedChange(trends) {
		if *trend.ChangePercent < 0 {
			decreases = append(decreases, trend)
		}
	}

	sort.SliceStable(decreases, func(i, j int) bool {
		if *decreases[i].ChangePercent != *decreases[j].ChangePercent {
			return *decreases[i].ChangePercent < *decreases[j].ChangePercent
		}

		return decreases[i].Product < decreases[j].Product
	})

	return truncate(decreases, limit)
}

func withDefinedChange(trends []*domain.ProductTrend) []*domain.ProductTrend {
	filtered := make([]*domain.ProductTrend, 0, len(trends))

	for _, trend := range trends {
		if trend.ChangePercent != nil {
			filtered = append(filtered, trend)
		}
	}

	return filtered
}

func truncate(trends []*domain.ProductTrend, limit int) []*domain.ProductTrend {
	if len(trends) > limit {
		return trends[:limit]
	}

	return trends
}
