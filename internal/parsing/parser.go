package parsing

import (
	"strings"
	"time"

	"github.com/ivpetrov/price-history-api/internal/domain"
)

// FileResult е резултатът от обработката на един корпус файл. След
// създаването му не се променя, затова може да се подава между горутини
// без заключване
type FileResult struct {
	Source       string
	Products     map[string]domain.PriceSeries
	Observations []domain.PriceObservation
	Stats        domain.ParseStats
}

// Parser обработва корпус файл до ценови наблюдения в евро
type Parser struct {
	dates    *DateResolver
	currency *CurrencyNormalizer
}

func NewParser(dates *DateResolver, currency *CurrencyNormalizer) *Parser {
	if dates == nil {
		dates = NewDateResolver(nil)
	}

	if currency == nil {
		currency = NewCurrencyNormalizer(DefaultEURCutover, DefaultBGNPerEUR)
	}

	return &Parser{dates: dates, currency: currency}
}

// ParseFile разделя корпуса на бележки и извлича цените от всяка от тях.
// Бележка без разпозната дата или извън зададения период се пропуска и се
// брои по причина, без да спира обработката. Цените се пазят незакръглени
func (p *Parser) ParseFile(source, content string, filters domain.AnalysisFilters) *FileResult {
	result := &FileResult{
		Source:   source,
		Products: make(map[string]domain.PriceSeries),
		Stats:    domain.NewParseStats(),
	}

	blocks := SplitReceipts(content)
	result.Stats.BlocksFound = len(blocks)

	for _, block := range blocks {
		date := p.dates.Resolve(block.RawText)
		if date == nil {
			result.Stats.BlocksSkipped[domain.SkipReasonNoDate]++
			continue
		}

		if !inDateRange(*date, filters) {
			result.Stats.BlocksSkipped[domain.SkipReasonOutOfRange]++
			continue
		}

		result.Stats.BlocksParsed++

		block.Date = date
		block.ConversionRate = p.currency.Rate(block.RawText, date)

		p.parseBlock(result, block)
	}

	result.Stats.ObservationCount = len(result.Observations)

	return result
}

func (p *Parser) parseBlock(result *FileResult, block domain.ReceiptBlock) {
	dateKey := block.Date.Format(time.DateOnly)
	lines := strings.Split(block.RawText, "\n")

	for i, line := range lines {
		// Шаблонът за продукт е закотвен, затова редът се подрязва преди него
		line = strings.TrimSpace(line)

		if isNoiseLine(line) {
			continue
		}

		match, ok := matchProductLine(line)
		if !ok {
			continue
		}

		result.Stats.LinesMatched++

		// Ред "количество x цена" над продукта носи единичната цена.
		// Тя измества общата сума от продуктовия ред
		price := match.Price
		if i > 0 {
			if unitPrice, ok := unitPriceOverride(lines[i-1]); ok {
				price = unitPrice
			}
		}

		price /= block.ConversionRate

		if result.Products[match.Name] == nil {
			result.Products[match.Name] = make(domain.PriceSeries)
		}

		result.Products[match.Name][dateKey] = price

		result.Observations = append(result.Observations, domain.PriceObservation{
			Product: match.Name,
			Date:    dateKey,
			Price:   price,
			Source:  result.Source,
		})
	}
}

func inDateRange(date time.Time, filters domain.AnalysisFilters) bool {
	if filters.StartDate != nil && date.Before(*filters.StartDate) {
		return false
	}

	if filters.EndDate != nil && date.After(*filters.EndDate) {
		return false
	}

	return true
}
