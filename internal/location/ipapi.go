package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-glance/internal/common"
)

// Sample request: http://ip-api.com/json/?fields=status,message,lat,lon
const defaultIPAPIURL = "http://ip-api.com/json/"

// IPPositioner estimates the device position from its public IP address.
// The estimate is city-level at best, whatever tier is requested.
type IPPositioner struct {
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewIPPositioner creates a positioner backed by ip-api.com. An empty
// baseURL selects the public endpoint.
func NewIPPositioner(client *http.Client, baseURL string, retries int) *IPPositioner {
	if baseURL == "" {
		baseURL = defaultIPAPIURL
	}
	return &IPPositioner{
		baseURL: baseURL,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff(retries),
		},
		circuit: common.NewBreaker("ipapi"),
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p *IPPositioner) CurrentPosition(ctx context.Context, accuracy Accuracy) (Coordinates, error) {
	if accuracy > AccuracyBalanced {
		log.Debug().Str("accuracy", accuracy.String()).Msg("ip geolocation cannot honour requested accuracy")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u, err := url.Parse(p.baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}
		q := u.Query()
		q.Set("fields", "status,message,lat,lon")
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinates{}, fmt.Errorf("%w: failed to decode response: %v", ErrPositionUnavailable, err)
	}
	if payload.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: ip lookup failed: %s", ErrPositionUnavailable, payload.Message)
	}

	return Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
