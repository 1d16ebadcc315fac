// Package parsing извлича ценови наблюдения от текстови корпуси с касови
// бележки. Пакетът е чист: не чете файлове и не пише логове, работи само
// върху подадения текст
package parsing

import (
	"strings"

	"github.com/ivpetrov/price-history-api/internal/domain"
)

// ReceiptDelimiter отваря всяка бележка в корпуса
const ReceiptDelimiter = "БЕЛЕЖКА #"

// SplitReceipts разделя корпуса на отделни бележки по разделителя. Текстът
// преди първия разделител е заглавен блок и се отхвърля. Корпус без нито
// един разделител не съдържа бележки
func SplitReceipts(corpus string) []domain.ReceiptBlock {
	parts := strings.Split(corpus, ReceiptDelimiter)
	if len(parts) < 2 {
		return nil
	}

	blocks := make([]domain.ReceiptBlock, 0, len(parts)-1)

	for i, part := range parts[1:] {
		blocks = append(blocks, domain.ReceiptBlock{
			Index:   i + 1,
			RawText: part,
		})
	}

	return blocks
}
