package screen

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-glance/internal/geocode"
	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/metrics"
	"github.com/i474232898/weather-glance/internal/weather"
)

// LocationResolver yields a position fix once permission is granted.
type LocationResolver interface {
	Resolve(ctx context.Context, accuracy location.Accuracy) (location.Coordinates, error)
}

// Loader runs the screen's initialization task: position fix, reverse
// geocode, forecast fetch, strictly in that order.
type Loader struct {
	resolver   LocationResolver
	geocoder   geocode.Geocoder
	forecaster weather.Forecaster
	accuracy   location.Accuracy
	metrics    *metrics.Collector

	now   func() time.Time
	newID func() string
}

// NewLoader creates a Loader. collector may be nil.
func NewLoader(
	resolver LocationResolver,
	geocoder geocode.Geocoder,
	forecaster weather.Forecaster,
	accuracy location.Accuracy,
	collector *metrics.Collector,
) *Loader {
	return &Loader{
		resolver:   resolver,
		geocoder:   geocoder,
		forecaster: forecaster,
		accuracy:   accuracy,
		metrics:    collector,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Load runs the task once and returns the resulting state. It never
// returns PhaseLoading; every failure is mapped to PhaseDenied or PhaseError.
func (l *Loader) Load(ctx context.Context) State {
	runID := l.newID()
	logger := log.With().Str("run_id", runID).Logger()

	state := l.load(ctx, runID, logger)
	l.metrics.RecordLoad(string(state.Phase), string(state.Error), len(state.Entries))

	event := logger.Info()
	if state.Phase != PhaseLoaded {
		event = logger.Warn()
	}
	event.
		Str("phase", string(state.Phase)).
		Str("error", string(state.Error)).
		Str("region", state.Region).
		Int("entries", len(state.Entries)).
		Msg("screen load finished")

	return state
}

func (l *Loader) load(ctx context.Context, runID string, logger zerolog.Logger) State {
	start := time.Now()
	coords, err := l.resolver.Resolve(ctx, l.accuracy)
	l.metrics.ObserveUpstream("location", start, err)
	if err != nil {
		if errors.Is(err, location.ErrPermissionDenied) {
			return denied(runID, l.now())
		}
		return failed(runID, KindLocationUnavailable, err, l.now())
	}
	logger.Debug().
		Float64("lat", coords.Latitude).
		Float64("lon", coords.Longitude).
		Str("accuracy", l.accuracy.String()).
		Msg("position fix obtained")

	start = time.Now()
	candidates, err := l.geocoder.Reverse(ctx, coords)
	l.metrics.ObserveUpstream(l.geocoder.Name(), start, err)
	if err != nil {
		// The label has fallbacks, so a failed lookup does not end the load.
		logger.Warn().Err(err).Str("geocoder", l.geocoder.Name()).Msg("reverse geocoding failed")
	}
	region, found := geocode.RegionName(candidates)

	fc, err := l.forecaster.Forecast(ctx, coords)
	if err != nil {
		return failed(runID, classify(err), err, l.now())
	}
	if len(fc.Entries) == 0 {
		return failed(runID, KindEmptyForecast, weather.ErrNoEntries, l.now())
	}

	source := RegionFromGeocoder
	if !found {
		region, source = strings.TrimSpace(fc.City), RegionFromForecast
		if region == "" {
			region, source = UnknownRegion, RegionFallback
		}
		logger.Debug().Str("region_source", string(source)).Int("candidates", len(candidates)).Msg("geocoder gave no region")
	}

	entries := make([]weather.ForecastEntry, len(fc.Entries))
	copy(entries, fc.Entries)

	return State{
		RunID:        runID,
		Phase:        PhaseLoaded,
		Region:       strings.ToUpper(region),
		RegionSource: source,
		Entries:      entries,
		UpdatedAt:    l.now(),
	}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, weather.ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, weather.ErrMalformedForecast):
		return KindMalformedForecast
	case errors.Is(err, weather.ErrNoEntries):
		return KindEmptyForecast
	default:
		return KindNetwork
	}
}
