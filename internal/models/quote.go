package models

import "time"

// QuoteSnapshot holds a per-request price snapshot for one symbol.
// Ephemeral — recomputed per request, never persisted.
type QuoteSnapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        float64   `json:"volume"`
	Sector        string    `json:"sector,omitempty"`
	AsOf          time.Time `json:"as_of"`
}

// StockDetail holds extended single-symbol metadata for the detail endpoint.
type StockDetail struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
	Website          string  `json:"website"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	MarketCap        float64 `json:"marketCap"`
	PERatio          float64 `json:"peRatio"`
	DividendYield    float64 `json:"dividendYield"`
	DayHigh          float64 `json:"dayHigh"`
	DayLow           float64 `json:"dayLow"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
	AverageVolume    float64 `json:"averageVolume"`
	Open             float64 `json:"open"`
	PreviousClose    float64 `json:"previousClose"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
}

// DailyBar is one row of daily price history from the quote provider.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// QuoteInfo holds provider metadata for one symbol, used for name/sector
// resolution and the detail endpoint.
type QuoteInfo struct {
	Symbol        string  `json:"symbol"`
	LongName      string  `json:"long_name"`
	ShortName     string  `json:"short_name"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	Description   string  `json:"description"`
	Website       string  `json:"website"`
	Currency      string  `json:"currency"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	YearHigh      float64 `json:"year_high"`
	YearLow       float64 `json:"year_low"`
	AverageVolume float64 `json:"average_volume"`
	Price         float64 `json:"price"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

// SearchSuggestion is one symbol-search result.
type SearchSuggestion struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}
