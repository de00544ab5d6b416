package screen

import (
	"time"

	"github.com/i474232898/weather-glance/internal/weather"
)

// LoadingLabel is shown in place of the region until a load completes.
const LoadingLabel = "...Loading"

// UnknownRegion is the label of last resort when no source names the place.
const UnknownRegion = "UNKNOWN"

// Phase is the lifecycle stage of the screen.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseDenied  Phase = "denied"
	PhaseError   Phase = "error"
	PhaseLoaded  Phase = "loaded"
)

// ErrorKind classifies why a load ended in PhaseError.
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindLocationUnavailable ErrorKind = "location_unavailable"
	KindNetwork             ErrorKind = "network"
	KindMalformedForecast   ErrorKind = "malformed_forecast"
	KindEmptyForecast       ErrorKind = "empty_forecast"
	KindNotConfigured       ErrorKind = "not_configured"
)

// RegionSource records where the region label came from.
type RegionSource string

const (
	RegionFromGeocoder RegionSource = "geocoder"
	RegionFromForecast RegionSource = "forecast"
	RegionFallback     RegionSource = "fallback"
)

// State is one snapshot of the screen. Only the fields relevant to Phase
// are set: Region and Entries for loaded, Error and Message for error.
type State struct {
	RunID        string                  `json:"runId,omitempty"`
	Phase        Phase                   `json:"phase"`
	Error        ErrorKind               `json:"error,omitempty"`
	Message      string                  `json:"message,omitempty"`
	Region       string                  `json:"region,omitempty"`
	RegionSource RegionSource            `json:"regionSource,omitempty"`
	Entries      []weather.ForecastEntry `json:"entries,omitempty"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

// Loading is the state before any load has finished.
func Loading(now time.Time) State {
	return State{Phase: PhaseLoading, UpdatedAt: now}
}

func denied(runID string, now time.Time) State {
	return State{
		RunID:     runID,
		Phase:     PhaseDenied,
		Message:   "location permission was denied",
		UpdatedAt: now,
	}
}

func failed(runID string, kind ErrorKind, err error, now time.Time) State {
	return State{
		RunID:     runID,
		Phase:     PhaseError,
		Error:     kind,
		Message:   err.Error(),
		UpdatedAt: now,
	}
}

// Label is the region line of the screen.
func (s State) Label() string {
	switch s.Phase {
	case PhaseLoaded:
		return s.Region
	case PhaseLoading:
		return LoadingLabel
	default:
		return ""
	}
}
