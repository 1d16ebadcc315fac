package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/parsing"
)

func fileResult(source string, products map[string]domain.PriceSeries) *parsing.FileResult {
	result := &parsing.FileResult{
		Source:   source,
		Products: products,
		Stats:    domain.NewParseStats(),
	}

	for product, series := range products {
		for date, price := range series {
			result.Observations = append(result.Observations, domain.PriceObservation{
				Product: product,
				Date:    date,
				Price:   price,
				Source:  source,
			})
		}
	}

	result.Stats.ObservationCount = len(result.Observations)

	return result
}

func TestAggregateMergesDisjointFiles(t *testing.T) {
	first := fileResult("january.txt", map[string]domain.PriceSeries{
		"МЛЯКО": {"2026-01-10": 1.05},
	})
	second := fileResult("february.txt", map[string]domain.PriceSeries{
		"МЛЯКО":  {"2026-02-10": 1.10},
		"БАНАНИ": {"2026-02-10": 1.99},
	})

	aggregate := Aggregate([]*parsing.FileResult{first, second})

	require.Len(t, aggregate.Prices, 2)
	assert.InDelta(t, 1.05, aggregate.Prices["МЛЯКО"]["2026-01-10"], 1e-9)
	assert.InDelta(t, 1.10, aggregate.Prices["МЛЯКО"]["2026-02-10"], 1e-9)
	assert.InDelta(t, 1.99, aggregate.Prices["БАНАНИ"]["2026-02-10"], 1e-9)
}

func TestAggregateAveragesCollisions(t *testing.T) {
	// един и същи продукт на една и съща дата в два файла: в таблицата
	// влиза средното, а суровите стойности остават видими по източник
	first := fileResult("a.txt", map[string]domain.PriceSeries{
		"КАФЕ": {"2026-01-10": 1.50},
	})
	second := fileResult("b.txt", map[string]domain.PriceSeries{
		"КАФЕ": {"2026-01-10": 1.70},
	})

	aggregate := Aggregate([]*parsing.FileResult{first, second})

	assert.InDelta(t, 1.60, aggregate.Prices["КАФЕ"]["2026-01-10"], 1e-9)

	observations := aggregate.Observations["КАФЕ"]["2026-01-10"]
	require.Len(t, observations, 2)

	sources := []string{observations[0].Source, observations[1].Source}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, sources)
}

func TestAggregateMergesStats(t *testing.T) {
	first := fileResult("a.txt", map[string]domain.PriceSeries{
		"КАФЕ": {"2026-01-10": 1.50},
	})
	first.Stats.BlocksFound = 3
	first.Stats.BlocksParsed = 2
	first.Stats.BlocksSkipped[domain.SkipReasonNoDate] = 1

	second := fileResult("b.txt", map[string]domain.PriceSeries{})
	second.Stats.BlocksFound = 1
	second.Stats.BlocksSkipped[domain.SkipReasonNoDate] = 1

	aggregate := Aggregate([]*parsing.FileResult{first, second})

	assert.Equal(t, 4, aggregate.Stats.BlocksFound)
	assert.Equal(t, 2, aggregate.Stats.BlocksParsed)
	assert.Equal(t, 2, aggregate.Stats.BlocksSkipped[domain.SkipReasonNoDate])
}

func TestAggregateEmptyInput(t *testing.T) {
	aggregate := Aggregate(nil)

	assert.Empty(t, aggregate.Prices)
	assert.Empty(t, aggregate.Observations)
	assert.Equal(t, 0, aggregate.Stats.BlocksFound)
}
