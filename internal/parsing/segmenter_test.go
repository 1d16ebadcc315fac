package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitReceipts(t *testing.T) {
	tests := []struct {
		name        string
		corpus      string
		expectedLen int
	}{
		{
			name:        "корпус без разделители не съдържа бележки",
			corpus:      "Lidl Plus история\nнякакъв заглавен текст\n",
			expectedLen: 0,
		},
		{
			name:        "празен корпус",
			corpus:      "",
			expectedLen: 0,
		},
		{
			name:        "една бележка след заглавния блок",
			corpus:      "заглавие\nБЕЛЕЖКА #1\nХЛЯБ ДОБРУДЖА  1,80\n",
			expectedLen: 1,
		},
		{
			name:        "три бележки",
			corpus:      "БЕЛЕЖКА #1\nред\nБЕЛЕЖКА #2\nред\nБЕЛЕЖКА #3\nред\n",
			expectedLen: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := SplitReceipts(tt.corpus)

			assert.Len(t, blocks, tt.expectedLen)

			for i, block := range blocks {
				assert.Equal(t, i+1, block.Index)
				assert.NotContains(t, block.RawText, ReceiptDelimiter)
			}
		})
	}
}

func TestSplitReceiptsDiscardsHeader(t *testing.T) {
	corpus := "история на покупките\nБЕЛЕЖКА #1\nМЛЯКО  1,95\n"

	blocks := SplitReceipts(corpus)

	require.Len(t, blocks, 1)
	assert.NotContains(t, blocks[0].RawText, "история на покупките")
	assert.Contains(t, blocks[0].RawText, "МЛЯКО")
}

func TestSplitReceiptsBlockIsStable(t *testing.T) {
	// повторното сегментиране на вече отделена бележка не произвежда нови блокове
	corpus := "БЕЛЕЖКА #1\nХЛЯБ  1,80\nБЕЛЕЖКА #2\nМЛЯКО  1,95\n"

	blocks := SplitReceipts(corpus)
	require.Len(t, blocks, 2)

	for _, block := range blocks {
		assert.Empty(t, SplitReceipts(block.RawText))
	}
}
