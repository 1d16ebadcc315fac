package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Години по подразбиране за бележки само с ден и име на месец. Бележките от
// декември са от предходната година, всичко останало е от текущата
const (
	DefaultCurrentYear  = 2026
	DefaultDecemberYear = 2025
)

// YearPolicy определя годината на бележка, чиято дата съдържа само ден и
// месец. Подменяема е, за да не остане евристиката зашита в кода
type YearPolicy func(month time.Month) int

// FixedWindowYearPolicy връща политика върху двугодишен прозорец
func FixedWindowYearPolicy(currentYear, decemberYear int) YearPolicy {
	return func(month time.Month) int {
		if month == time.December {
			return decemberYear
		}

		return currentYear
	}
}

var (
	fullDatePattern    = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})\s+\d{2}:\d{2}:\d{2}`)
	isoLikeDatePattern = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})\s+\d{2}:\d{2}`)
	monthNamePattern   = regexp.MustCompile(`(\d{1,2})\.(януари|февруари|март|април|май|юни|юли|август|септември|октомври|ноември|декември)`)
)

var bulgarianMonths = map[string]time.Month{
	"януари":    time.January,
	"февруари":  time.February,
	"март":      time.March,
	"април":     time.April,
	"май":       time.May,
	"юни":       time.June,
	"юли":       time.July,
	"август":    time.August,
	"септември": time.September,
	"октомври":  time.October,
	"ноември":   time.November,
	"декември":  time.December,
}

// DateResolver намира датата на бележка през подредена верига от стратегии.
// Първата стратегия с валиден резултат печели, невалидно съвпадение (напр.
// ден 32) подава реда на следващата
type DateResolver struct {
	yearPolicy YearPolicy
}

func NewDateResolver(yearPolicy YearPolicy) *DateResolver {
	if yearPolicy == nil {
		yearPolicy = FixedWindowYearPolicy(DefaultCurrentYear, DefaultDecemberYear)
	}

	return &DateResolver{yearPolicy: yearPolicy}
}

// Resolve опитва последователно: DD.MM.YYYY с час и секунди, YYYY.MM.DD с
// час, и накрая ден с българско име на месец. Връща nil, когато нито една
// стратегия не намери дата
func (r *DateResolver) Resolve(text string) *time.Time {
	if date := resolveFullDate(text); date != nil {
		return date
	}

	if date := resolveISOLikeDate(text); date != nil {
		return date
	}

	return r.resolveMonthNameDate(text)
}

func resolveFullDate(text string) *time.Time {
	match := fullDatePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	return buildDate(match[3], match[2], match[1])
}

func resolveISOLikeDate(text string) *time.Time {
	match := isoLikeDatePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	return buildDate(match[1], match[2], match[3])
}

func (r *DateResolver) resolveMonthNameDate(text string) *time.Time {
	match := monthNamePattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return nil
	}

	day, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	month := bulgarianMonths[match[2]]

	date := time.Date(r.yearPolicy(month), month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return nil
	}

	return &date
}

func buildDate(year, month, day string) *time.Time {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}

	m, err := strconv.Atoi(month)
	if err != nil {
		return nil
	}

	d, err := strconv.Atoi(day)
	if err != nil {
		return nil
	}

	if m < 1 || m > 12 {
		return nil
	}

	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if date.Day() != d || int(date.Month()) != m {
		return nil
	}

	return &date
}
