package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-glance/internal/common"
	"github.com/i474232898/weather-glance/internal/location"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=37.56&lon=126.97&format=jsonv2
const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"
	userAgent           = "weather-glance/1.0 (+https://github.com/i474232898/weather-glance)"
)

// NominatimClient reverse-geocodes against OpenStreetMap Nominatim.
type NominatimClient struct {
	baseURL  string
	language string
	httpCfg  common.HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewNominatimClient creates a client. An empty baseURL selects the public
// instance; language is sent as accept-language when set.
func NewNominatimClient(client *http.Client, baseURL, language string, retries int) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &NominatimClient{
		baseURL:  baseURL,
		language: language,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff(retries),
		},
		circuit: common.NewBreaker("nominatim"),
	}
}

func (c *NominatimClient) Name() string {
	return "nominatim"
}

type reverseAPIResponse struct {
	Error       string `json:"error"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Province string `json:"province"`
		Region   string `json:"region"`
		Country  string `json:"country"`
	} `json:"address"`
}

func (c *NominatimClient) Reverse(ctx context.Context, coords location.Coordinates) ([]Address, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}

		q := u.Query()
		q.Set("lat", fmt.Sprintf("%f", coords.Latitude))
		q.Set("lon", fmt.Sprintf("%f", coords.Longitude))
		q.Set("format", "jsonv2")
		if c.language != "" {
			q.Set("accept-language", c.language)
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		// Nominatim's usage policy rejects anonymous clients.
		req.Header.Set("User-Agent", userAgent)
		return req, nil
	}

	resp, err := common.DoRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	var apiResp reverseAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// "Unable to geocode" comes back as 200 with an error field.
	if apiResp.Error != "" {
		return []Address{}, nil
	}

	return []Address{{
		Region:      firstNonEmpty(apiResp.Address.State, apiResp.Address.Province, apiResp.Address.Region),
		City:        firstNonEmpty(apiResp.Address.City, apiResp.Address.Town, apiResp.Address.Village),
		Country:     apiResp.Address.Country,
		DisplayName: firstNonEmpty(apiResp.Name, apiResp.DisplayName),
	}}, nil
}
