package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/metrics"
)

// Service fetches forecasts from a single provider and instruments each call.
type Service struct {
	provider Forecaster
	metrics  *metrics.Collector
}

// NewService creates a new Service. collector may be nil.
func NewService(provider Forecaster, collector *metrics.Collector) *Service {
	return &Service{
		provider: provider,
		metrics:  collector,
	}
}

// Name reports the underlying provider.
func (s *Service) Name() string {
	return s.provider.Name()
}

// Forecast fetches the forecast for coords. It issues exactly one logical
// request; retries happen below it in the provider's HTTP layer.
func (s *Service) Forecast(ctx context.Context, coords location.Coordinates) (Forecast, error) {
	if s.provider == nil {
		return Forecast{}, fmt.Errorf("%w: no provider", ErrNotConfigured)
	}

	start := time.Now()
	fc, err := s.provider.Forecast(ctx, coords)
	s.metrics.ObserveUpstream(s.provider.Name(), start, err)

	if err != nil {
		log.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Float64("lat", coords.Latitude).
			Float64("lon", coords.Longitude).
			Msg("forecast fetch failed")
		return Forecast{}, err
	}

	log.Debug().
		Str("provider", s.provider.Name()).
		Int("entries", len(fc.Entries)).
		Str("city", fc.City).
		Dur("duration", time.Since(start)).
		Msg("forecast fetched")

	return fc, nil
}
