package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoiseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{name: "купон от Lidl Plus", line: "#Lidl Plus купон 25%", expected: true},
		{name: "разделителна линия", line: "------------------------", expected: true},
		{name: "междинна сума", line: "МЕЖДИННА СУМА  12,40", expected: true},
		{name: "спестена сума", line: "Ти спести 1,20", expected: true},
		{name: "служебен номер на каса", line: "#Каса: 3", expected: true},
		{name: "обикновен продуктов ред", line: "ПРЯСНО МЛЯКО  1,95", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isNoiseLine(tt.line))
		})
	}
}

func TestMatchProductLine(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		expectedName  string
		expectedPrice float64
		expectedOK    bool
	}{
		{
			name:          "име и цена с десетична запетая",
			line:          "ПРЯСНО МЛЯКО  1,95",
			expectedName:  "ПРЯСНО МЛЯКО",
			expectedPrice: 1.95,
			expectedOK:    true,
		},
		{
			name:          "цена с десетична точка и валутна опашка",
			line:          "КАШКАВАЛ ВИТОША  10.50 B",
			expectedName:  "КАШКАВАЛ ВИТОША",
			expectedPrice: 10.50,
			expectedOK:    true,
		},
		{
			name:          "опашка лв след цената",
			line:          "БАНАНИ  2,01 лв",
			expectedName:  "БАНАНИ",
			expectedPrice: 2.01,
			expectedOK:    true,
		},
		{
			name:          "процент в името",
			line:          "МЛЯКО 3.2%    1,95 лв",
			expectedName:  "МЛЯКО 3.2%",
			expectedPrice: 1.95,
			expectedOK:    true,
		},
		{
			name:       "един интервал не е продуктов ред",
			line:       "МЛЯКО 1,95",
			expectedOK: false,
		},
		{
			name:       "ред, започващ с малка буква",
			line:       "мляко  1,95",
			expectedOK: false,
		},
		{
			name:       "служебна дума в името",
			line:       "ПЛАТЕНО  10,50",
			expectedOK: false,
		},
		{
			name:       "служебна дума, независимо от регистъра",
			line:       "Копие на бележка  0,00",
			expectedOK: false,
		},
		{
			name:       "име със знак за умножение",
			line:       "MAX ЧИПС  3,00",
			expectedOK: false,
		},
		{
			name:       "име с кирилски знак за умножение",
			line:       "ХЛЯБ СТАРА ЗАГОРА  1,80",
			expectedOK: false,
		},
		{
			name:       "твърде кратко име",
			line:       "АБ  1,00",
			expectedOK: false,
		},
		{
			name:       "ред без цена",
			line:       "ПРЯСНО МЛЯКО",
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := matchProductLine(tt.line)

			assert.Equal(t, tt.expectedOK, ok)

			if tt.expectedOK {
				assert.Equal(t, tt.expectedName, match.Name)
				assert.InDelta(t, tt.expectedPrice, match.Price, 1e-9)
			}
		})
	}
}

func TestUnitPriceOverride(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		expectedPrice float64
		expectedOK    bool
	}{
		{
			name:          "количество по единична цена с латинско x",
			line:          "1,012 x 1,99",
			expectedPrice: 1.99,
			expectedOK:    true,
		},
		{
			name:          "количество с кирилско х",
			line:          "2,000 х 0,85",
			expectedPrice: 0.85,
			expectedOK:    true,
		},
		{
			name:       "продуктов ред не е количествен",
			line:       "БАНАНИ  2,01",
			expectedOK: false,
		},
		{
			name:       "празен ред",
			line:       "",
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := unitPriceOverride(tt.line)

			assert.Equal(t, tt.expectedOK, ok)

			if tt.expectedOK {
				assert.InDelta(t, tt.expectedPrice, price, 1e-9)
			}
		})
	}
}
