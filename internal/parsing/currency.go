package parsing

import (
	"strings"
	"time"
)

// DefaultBGNPerEUR е фиксираният курс на лева към еврото
const DefaultBGNPerEUR = 1.95583

// DefaultEURCutover е датата, от която бележките се печатат в евро
var DefaultEURCutover = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

var bgnMarkers = []string{"BGN", "# лв", "лв  #"}

var eurMarkers = []string{"Евро", "EUR"}

// CurrencyNormalizer определя делителя, с който цените от една бележка се
// привеждат към евро
type CurrencyNormalizer struct {
	cutover time.Time
	rate    float64
}

func NewCurrencyNormalizer(cutover time.Time, rate float64) *CurrencyNormalizer {
	if rate <= 0 {
		rate = DefaultBGNPerEUR
	}

	if cutover.IsZero() {
		cutover = DefaultEURCutover
	}

	return &CurrencyNormalizer{cutover: cutover, rate: rate}
}

// Rate връща курса за бележката. Преди въвеждането на еврото всички цени са
// в лева. След него, както и при бележка без разпозната дата, конвертираме
// само при изричен маркер за лева в текста
func (n *CurrencyNormalizer) Rate(blockText string, date *time.Time) float64 {
	if date != nil && date.Before(n.cutover) {
		return n.rate
	}

	if containsAny(blockText, bgnMarkers) {
		return n.rate
	}

	return 1.0
}

// HasEURMarkers проверява за изрично отбелязана евро валута в бележката
func HasEURMarkers(blockText string) bool {
	return containsAny(blockText, eurMarkers)
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}

	return false
}
