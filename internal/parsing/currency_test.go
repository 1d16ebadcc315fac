package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyNormalizerRate(t *testing.T) {
	normalizer := NewCurrencyNormalizer(DefaultEURCutover, DefaultBGNPerEUR)

	tests := []struct {
		name     string
		text     string
		date     *time.Time
		expected float64
	}{
		{
			name:     "преди еврото цените винаги са в лева",
			text:     "МЛЯКО  1,95",
			date:     datePtr(2025, time.December, 15),
			expected: DefaultBGNPerEUR,
		},
		{
			name:     "след еврото без маркери цената е в евро",
			text:     "МЛЯКО  1,05",
			date:     datePtr(2026, time.January, 10),
			expected: 1.0,
		},
		{
			name:     "след еврото маркер BGN налага конвертиране",
			text:     "ОБЩА СУМА  2,10 BGN",
			date:     datePtr(2026, time.January, 10),
			expected: DefaultBGNPerEUR,
		},
		{
			name:     "маркер # лв след еврото",
			text:     "2,10 # лв",
			date:     datePtr(2026, time.February, 1),
			expected: DefaultBGNPerEUR,
		},
		{
			name:     "без дата и с маркер за лева",
			text:     "сума 2,10 лв  #",
			date:     nil,
			expected: DefaultBGNPerEUR,
		},
		{
			name:     "без дата и без маркери",
			text:     "сума 2,10",
			date:     nil,
			expected: 1.0,
		},
		{
			name:     "точно на граничната дата важат маркерите",
			text:     "сума 2,10",
			date:     datePtr(2026, time.January, 1),
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.Rate(tt.text, tt.date))
		})
	}
}

func TestHasEURMarkers(t *testing.T) {
	assert.True(t, HasEURMarkers("ОБЩА СУМА  1,05 EUR"))
	assert.True(t, HasEURMarkers("платено в Евро"))
	assert.False(t, HasEURMarkers("ОБЩА СУМА  2,10 BGN"))
}
