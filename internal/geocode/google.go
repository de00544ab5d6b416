package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-glance/internal/location"
)

// ErrMissingAPIKey is returned when the Google provider has no key.
var ErrMissingAPIKey = errors.New("google geocoding api key is not configured")

// reverseLookup is swapped in tests; the library talks to Google directly.
var reverseLookup = geocoder.GeocodingReverseIntl

// GoogleClient reverse-geocodes through the Google Maps Geocoding API.
type GoogleClient struct {
	apiKey   string
	language string
}

// NewGoogleClient creates a client. The underlying library keeps its key in
// a package variable, so one process should use one key. language is sent
// with each lookup when set.
func NewGoogleClient(apiKey, language string) *GoogleClient {
	geocoder.ApiKey = apiKey
	return &GoogleClient{apiKey: apiKey, language: language}
}

func (c *GoogleClient) Name() string {
	return "google"
}

func (c *GoogleClient) Reverse(ctx context.Context, coords location.Coordinates) ([]Address, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	type result struct {
		addresses []geocoder.Address
		err       error
	}
	done := make(chan result, 1)

	go func() {
		addrs, err := reverseLookup(geocoder.Location{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		}, c.language)
		done <- result{addresses: addrs, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("google reverse geocoding: %w", r.err)
		}
		out := make([]Address, 0, len(r.addresses))
		for _, a := range r.addresses {
			out = append(out, Address{
				Region:      a.State,
				City:        a.City,
				Country:     a.Country,
				DisplayName: a.FormattedAddress,
			})
		}
		return out, nil
	}
}
