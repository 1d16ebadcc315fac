package utils

import "time"

// ParseDate чете дата във формат YYYY-MM-DD. Празният низ означава
// липсваща граница и връща nil
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
