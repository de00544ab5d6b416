package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-glance/internal/common"
	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/weather"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/forecast"

// OpenWeatherProvider implements weather.Forecaster for the OpenWeatherMap
// 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates the provider. An empty baseURL selects the
// public endpoint.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, retries int) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweather",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff(retries),
		},
		circuit: common.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherForecast struct {
	// Pointer so a body without "list" is told apart from an empty one.
	List *[]struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, coords location.Coordinates) (weather.Forecast, error) {
	if p.apiKey == "" {
		return weather.Forecast{}, fmt.Errorf("%w: openweather api key is not set", weather.ErrNotConfigured)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", coords.Latitude))
		values.Set("lon", fmt.Sprintf("%f", coords.Longitude))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("openweather request: %w", err)
	}
	defer resp.Body.Close()

	var payload openWeatherForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("%w: %v", weather.ErrMalformedForecast, err)
	}
	if payload.List == nil {
		return weather.Forecast{}, fmt.Errorf("%w: missing list field", weather.ErrMalformedForecast)
	}
	if len(*payload.List) == 0 {
		return weather.Forecast{}, weather.ErrNoEntries
	}

	entries := make([]weather.ForecastEntry, 0, len(*payload.List))
	for i, item := range *payload.List {
		if item.Main.Temp == nil {
			return weather.Forecast{}, fmt.Errorf("%w: entry %d has no main.temp", weather.ErrMalformedForecast, i)
		}

		entry := weather.ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: *item.Main.Temp,
		}
		// An entry without conditions still renders, with the fallback icon.
		if len(item.Weather) > 0 {
			entry.Main = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
		}
		entries = append(entries, entry)
	}

	return weather.Forecast{
		City:    payload.City.Name,
		Entries: entries,
	}, nil
}
