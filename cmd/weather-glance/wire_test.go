package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/i474232898/weather-glance/internal/config"
	"github.com/i474232898/weather-glance/internal/geocode"
	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/screen"
	"github.com/i474232898/weather-glance/internal/weather/providers"
)

func testOptions() *config.Options {
	opts := &config.Options{}
	opts.Weather.Provider = "openmeteo"
	opts.Location.Source = "static"
	opts.Location.Latitude = 37.5665
	opts.Location.Longitude = 126.978
	opts.Location.Permission = "granted"
	opts.Location.Accuracy = "balanced"
	opts.Geocoder.Provider = "nominatim"
	opts.HTTP.Retries = 1
	return opts
}

func TestComponentSelection(t *testing.T) {
	opts := testOptions()
	client := &http.Client{}

	if _, ok := newPositioner(opts, client).(location.StaticPositioner); !ok {
		t.Error("static source should select StaticPositioner")
	}
	if _, ok := newGeocoder(opts, client).(*geocode.NominatimClient); !ok {
		t.Error("nominatim should be the default geocoder")
	}
	if _, ok := newForecaster(opts, client).(*providers.OpenMeteoProvider); !ok {
		t.Error("openmeteo provider not selected")
	}

	opts.Location.Source = "ip"
	opts.Geocoder.Provider = "google"
	opts.Geocoder.GoogleKey = "key"
	opts.Weather.Provider = "openweather"
	if _, ok := newPositioner(opts, client).(*location.IPPositioner); !ok {
		t.Error("ip source should select IPPositioner")
	}
	if _, ok := newGeocoder(opts, client).(*geocode.GoogleClient); !ok {
		t.Error("google geocoder not selected")
	}
	if _, ok := newForecaster(opts, client).(*providers.OpenWeatherProvider); !ok {
		t.Error("openweather provider not selected")
	}
}

func TestPermissionSelection(t *testing.T) {
	opts := testOptions()

	tests := []struct {
		answer string
		want   bool
	}{
		{"granted", true},
		{"denied", false},
	}
	for _, tt := range tests {
		opts.Location.Permission = tt.answer
		got, err := newPermission(opts).RequestPermission(context.Background())
		if err != nil || got != tt.want {
			t.Errorf("%s: RequestPermission() = %v, %v", tt.answer, got, err)
		}
	}

	opts.Location.Permission = "prompt"
	if _, ok := newPermission(opts).(location.PromptPermission); !ok {
		t.Error("prompt should select PromptPermission")
	}
}

func TestDeniedLoadMakesNoCalls(t *testing.T) {
	opts := testOptions()
	opts.Location.Permission = "denied"
	// Unroutable endpoints: any outbound call would fail the load as a
	// network error instead of a denial.
	opts.Weather.OpenMeteoURL = "http://127.0.0.1:1/v1/forecast"
	opts.Geocoder.NominatimURL = "http://127.0.0.1:1/reverse"

	loader, err := newLoader(opts, nil)
	if err != nil {
		t.Fatalf("newLoader() unexpected error = %v", err)
	}

	state := loader.Load(context.Background())
	if state.Phase != screen.PhaseDenied {
		t.Errorf("phase = %q, want denied", state.Phase)
	}
}
