package weather

import (
	"context"
	"errors"

	"github.com/i474232898/weather-glance/internal/location"
)

var (
	// ErrNotConfigured is returned when a provider is missing credentials.
	ErrNotConfigured = errors.New("forecast provider not configured")
	// ErrMalformedForecast is returned when a response cannot be parsed into entries.
	ErrMalformedForecast = errors.New("malformed forecast response")
	// ErrNoEntries is returned when a well-formed response holds no entries.
	ErrNoEntries = errors.New("forecast has no entries")
)

// Forecaster abstracts a forecast source (e.g. OpenWeatherMap, Open-Meteo).
type Forecaster interface {
	Name() string
	Forecast(ctx context.Context, coords location.Coordinates) (Forecast, error)
}
