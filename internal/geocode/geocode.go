package geocode

import (
	"context"
	"strings"

	"github.com/i474232898/weather-glance/internal/location"
)

// Address is one candidate record returned by a reverse lookup.
type Address struct {
	Region      string `json:"region"`
	City        string `json:"city"`
	Country     string `json:"country"`
	DisplayName string `json:"displayName"`
}

// Geocoder converts coordinates into candidate addresses, best match first.
// An empty result is not an error.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coords location.Coordinates) ([]Address, error)
}

// RegionName returns the region of the first candidate and whether there
// was one to take.
func RegionName(candidates []Address) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	region := strings.TrimSpace(candidates[0].Region)
	return region, region != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
