// Package domain съдържа структурите от домейна на приложението
package domain

import "time"

// SkipReason обяснява защо една касова бележка не е участвала в анализа
type SkipReason string

const (
	SkipReasonNoDate     SkipReason = "no_date"
	SkipReasonOutOfRange SkipReason = "out_of_range"
)

// ReceiptBlock е текстът на една касова бележка, отделена от общия корпус.
// Създава се от сегментатора и не се променя след това.
type ReceiptBlock struct {
	Index          int
	RawText        string
	Date           *time.Time
	ConversionRate float64
}

// ParseStats са броячите от обработката на един корпус файл.
// Пропуските се броят по причина, вместо да се вдигат грешки (една лоша
// бележка не трябва да прекъсва целия анализ).
type ParseStats struct {
	BlocksFound      int                `json:"blocks_found"`
	BlocksParsed     int                `json:"blocks_parsed"`
	BlocksSkipped    map[SkipReason]int `json:"blocks_skipped"`
	LinesMatched     int                `json:"lines_matched"`
	ObservationCount int                `json:"observation_count"`
}

func NewParseStats() ParseStats {
	return ParseStats{
		BlocksSkipped: make(map[SkipReason]int),
	}
}

// Merge добавя броячите от друг файл към текущите
func (s *ParseStats) Merge(other ParseStats) {
	s.BlocksFound += other.BlocksFound
	s.BlocksParsed += other.BlocksParsed
	s.LinesMatched += other.LinesMatched
	s.ObservationCount += other.ObservationCount

	if s.BlocksSkipped == nil {
		s.BlocksSkipped = make(map[SkipReason]int)
	}

	for reason, count := range other.BlocksSkipped {
		s.BlocksSkipped[reason] += count
	}
}
