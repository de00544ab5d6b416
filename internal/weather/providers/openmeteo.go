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

const (
	defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"
	// Matches the OpenWeatherMap 3 hour cadence.
	openMeteoStepHours = 3
	openMeteoDays      = 5
)

// OpenMeteoProvider implements weather.Forecaster for Open-Meteo. It needs
// no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string, retries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff(retries),
		},
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoForecast struct {
	Hourly *struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, coords location.Coordinates) (weather.Forecast, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
		values.Set("hourly", "temperature_2m,weather_code")
		values.Set("forecast_days", fmt.Sprint(openMeteoDays))
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("openmeteo request: %w", err)
	}
	defer resp.Body.Close()

	var payload openMeteoForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("%w: %v", weather.ErrMalformedForecast, err)
	}
	if payload.Hourly == nil {
		return weather.Forecast{}, fmt.Errorf("%w: missing hourly field", weather.ErrMalformedForecast)
	}

	h := payload.Hourly
	if len(h.Temperature) != len(h.Time) || len(h.WeatherCode) != len(h.Time) {
		return weather.Forecast{}, fmt.Errorf("%w: hourly series lengths differ", weather.ErrMalformedForecast)
	}
	if len(h.Time) == 0 {
		return weather.Forecast{}, weather.ErrNoEntries
	}

	entries := make([]weather.ForecastEntry, 0, len(h.Time)/openMeteoStepHours+1)
	for i := 0; i < len(h.Time); i += openMeteoStepHours {
		ts, err := time.Parse("2006-01-02T15:04", h.Time[i])
		if err != nil {
			return weather.Forecast{}, fmt.Errorf("%w: bad time %q", weather.ErrMalformedForecast, h.Time[i])
		}
		main, description := mapOpenMeteoCondition(h.WeatherCode[i])
		entries = append(entries, weather.ForecastEntry{
			Time:        ts.UTC(),
			Temperature: h.Temperature[i],
			Main:        main,
			Description: description,
		})
	}

	return weather.Forecast{Entries: entries}, nil
}

// mapOpenMeteoCondition translates a WMO weather code into the
// OpenWeatherMap condition keyword and a description.
func mapOpenMeteoCondition(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear", "clear sky"
	case code == 1:
		return "Clouds", "mainly clear"
	case code == 2:
		return "Clouds", "partly cloudy"
	case code == 3:
		return "Clouds", "overcast clouds"
	case code == 45 || code == 48:
		return "Fog", "fog"
	case code >= 51 && code <= 57:
		return "Drizzle", "drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain", "rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow", "snow"
	case code >= 95 && code <= 99:
		return "Thunderstorm", "thunderstorm"
	default:
		return "", ""
	}
}
