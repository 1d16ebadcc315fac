package domain

// ProductTrend обобщава движението на цената на един продукт
type ProductTrend struct {
	Product       string   `json:"product"`
	FirstDate     DateKey  `json:"first_date"`
	FirstPrice    float64  `json:"first_price"`
	LastDate      DateKey  `json:"last_date"`
	LastPrice     float64  `json:"last_price"`
	MinDate       DateKey  `json:"min_date"`
	MinPrice      float64  `json:"min_price"`
	MaxDate       DateKey  `json:"max_date"`
	MaxPrice      float64  `json:"max_price"`
	ChangePercent *float64 `json:"change_percent"`
}

// TrendSummary е пълният трендов отчет върху една таблица с истории.
// TopMovers е по абсолютна промяна, TopDecreases само поевтинелите
type TrendSummary struct {
	Trends       []*ProductTrend `json:"trends"`
	TopMovers    []*ProductTrend `json:"top_movers"`
	TopDecreases []*ProductTrend `json:"top_decreases"`
}
