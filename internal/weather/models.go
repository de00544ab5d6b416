package weather

import (
	"time"
)

// ForecastEntry is one time slice of a forecast. Temperature is in °C.
// Main is the provider's condition keyword (e.g. "Clouds"), Description the
// human-readable detail (e.g. "overcast clouds").
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperatureC"`
	Main        string    `json:"main"`
	Description string    `json:"description"`
}

// Forecast is an ordered list of entries, oldest first, as the provider
// returned them. City is the provider's own name for the forecast point,
// empty when it reports none.
type Forecast struct {
	City    string          `json:"city,omitempty"`
	Entries []ForecastEntry `json:"entries"`
}
