package dataset

import "time"

// Article represents a single financial news item
type Article struct {
	Headline  string    `json:"headline" db:"headline"`
	Publisher string    `json:"publisher" db:"publisher"`
	Date      time.Time `json:"date" db:"published_at"`
	Stock     string    `json:"stock" db:"stock"`
	URL       string    `json:"url,omitempty" db:"url"`
}

// PriceBar represents one OHLCV bar of stock price data
type PriceBar struct {
	Date   time.Time `json:"date" db:"bar_date"`
	Open   float64   `json:"open" db:"open"`
	High   float64   `json:"high" db:"high"`
	Low    float64   `json:"low" db:"low"`
	Close  float64   `json:"close" db:"close"`
	Volume float64   `json:"volume" db:"volume"`
}

// LoadReport summarizes the outcome of a dataset load
type LoadReport struct {
	Rows        int `json:"rows"`
	SkippedRows int `json:"skipped_rows"`
}

// Closes extracts the close series from a slice of bars
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high series from a slice of bars
func Highs(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low series from a slice of bars
func Lows(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume series from a slice of bars
func Volumes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
