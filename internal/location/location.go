package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrPermissionDenied is returned when the user refuses location access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrPositionUnavailable is returned when no position fix could be obtained.
	ErrPositionUnavailable = errors.New("position unavailable")
)

var validate = validator.New()

// Coordinates is a single WGS84 position fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Validate checks that both axes are in range.
func (c Coordinates) Validate() error {
	return validate.Struct(c)
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Accuracy is the precision tier requested for a position fix. Coarser
// tiers trade precision for acquisition latency.
type Accuracy int

const (
	AccuracyLowest Accuracy = iota + 1
	AccuracyLow
	AccuracyBalanced
	AccuracyHigh
	AccuracyHighest
	AccuracyNavigation
)

var accuracyNames = map[Accuracy]string{
	AccuracyLowest:     "lowest",
	AccuracyLow:        "low",
	AccuracyBalanced:   "balanced",
	AccuracyHigh:       "high",
	AccuracyHighest:    "highest",
	AccuracyNavigation: "navigation",
}

// ParseAccuracy accepts a tier name or its numeric level (1-6).
func ParseAccuracy(s string) (Accuracy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range accuracyNames {
		if s == name || s == fmt.Sprint(int(a)) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown accuracy tier %q", s)
}

func (a Accuracy) String() string {
	if name, ok := accuracyNames[a]; ok {
		return name
	}
	return fmt.Sprintf("accuracy(%d)", int(a))
}

// decimals is the number of fractional digits a fix keeps at this tier.
func (a Accuracy) decimals() int {
	switch a {
	case AccuracyLowest, AccuracyLow:
		return 2
	case AccuracyBalanced:
		return 3
	case AccuracyHigh:
		return 4
	default:
		return 6
	}
}

// Apply rounds a fix to the precision of the tier.
func (a Accuracy) Apply(c Coordinates) Coordinates {
	p := math.Pow(10, float64(a.decimals()))
	return Coordinates{
		Latitude:  math.Round(c.Latitude*p) / p,
		Longitude: math.Round(c.Longitude*p) / p,
	}
}

// Permission asks for foreground location access.
type Permission interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// Positioner obtains the current position.
type Positioner interface {
	CurrentPosition(ctx context.Context, accuracy Accuracy) (Coordinates, error)
}

// Resolver gates position queries behind the permission check.
type Resolver struct {
	permission Permission
	positioner Positioner
}

// NewResolver creates a Resolver.
func NewResolver(permission Permission, positioner Positioner) *Resolver {
	return &Resolver{
		permission: permission,
		positioner: positioner,
	}
}

// Resolve requests permission and, only once granted, a single position fix.
func (r *Resolver) Resolve(ctx context.Context, accuracy Accuracy) (Coordinates, error) {
	granted, err := r.permission.RequestPermission(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("request permission: %w", err)
	}
	if !granted {
		return Coordinates{}, ErrPermissionDenied
	}

	coords, err := r.positioner.CurrentPosition(ctx, accuracy)
	if err != nil {
		if errors.Is(err, ErrPositionUnavailable) {
			return Coordinates{}, err
		}
		return Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	if err := coords.Validate(); err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}

	return accuracy.Apply(coords), nil
}
