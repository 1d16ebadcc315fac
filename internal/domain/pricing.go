package domain

import "sort"

// DateKey е датата на наблюдение във формат YYYY-MM-DD. Лексикографският
// ред на ключа съвпада с хронологичния, затова се ползва директно за сортиране
type DateKey = string

// PriceObservation е една наблюдавана цена: продукт, дата, цена в EUR и
// файлът, от който идва. Пазим суровите наблюдения, за да е видимо как е
// получена осреднената стойност
type PriceObservation struct {
	Product string  `json:"product"`
	Date    DateKey `json:"date"`
	Price   float64 `json:"price"`
	Source  string  `json:"source"`
}

// PriceSeries е историята на цените на един продукт: дата -> цена в EUR.
// Цените не се закръгляват при съхранение, само при визуализация
type PriceSeries map[DateKey]float64

// Dates връща датите от серията в хронологичен ред
func (s PriceSeries) Dates() []DateKey {
	dates := make([]DateKey, 0, len(s))
	for date := range s {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	return dates
}

// PriceHistoryTable е матрицата продукт × дата. Dates е пълната сортирана
// ос от дати; всеки ред е разредена серия (продуктът може да няма цена за
// някоя от датите)
type PriceHistoryTable struct {
	Dates []DateKey              `json:"dates"`
	Rows  map[string]PriceSeries `json:"rows"`
}

// Products връща имената на продуктите по азбучен ред
func (t *PriceHistoryTable) Products() []string {
	products := make([]string, 0, len(t.Rows))
	for product := range t.Rows {
		products = append(products, product)
	}

	sort.Strings(products)

	return products
}

// PriceAt връща цената на продукта за дадената дата, ако има наблюдение
func (t *PriceHistoryTable) PriceAt(product string, date DateKey) (float64, bool) {
	series, ok := t.Rows[product]
	if !ok {
		return 0, false
	}

	price, ok := series[date]

	return price, ok
}
