package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/i474232898/weather-glance/internal/config"
	"github.com/i474232898/weather-glance/internal/geocode"
	"github.com/i474232898/weather-glance/internal/icons"
	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/metrics"
	"github.com/i474232898/weather-glance/internal/screen"
	"github.com/i474232898/weather-glance/internal/weather"
	"github.com/i474232898/weather-glance/internal/weather/providers"
)

const appName = "weather-glance"

func newPermission(opts *config.Options) location.Permission {
	switch opts.Location.Permission {
	case "granted":
		return location.FixedPermission(true)
	case "denied":
		return location.FixedPermission(false)
	default:
		// The prompt goes to stderr so stdout carries only the screen.
		return location.PromptPermission{In: os.Stdin, Out: os.Stderr, App: appName}
	}
}

func newPositioner(opts *config.Options, client *http.Client) location.Positioner {
	if opts.Location.Source == "static" {
		return location.StaticPositioner{Coords: opts.StaticCoordinates()}
	}
	return location.NewIPPositioner(client, opts.Location.IPAPIURL, opts.HTTP.Retries)
}

func newGeocoder(opts *config.Options, client *http.Client) geocode.Geocoder {
	if opts.Geocoder.Provider == "google" {
		return geocode.NewGoogleClient(opts.Geocoder.GoogleKey, opts.Geocoder.Language)
	}
	return geocode.NewNominatimClient(client, opts.Geocoder.NominatimURL, opts.Geocoder.Language, opts.HTTP.Retries)
}

func newForecaster(opts *config.Options, client *http.Client) weather.Forecaster {
	if opts.Weather.Provider == "openmeteo" {
		return providers.NewOpenMeteoProvider(client, opts.Weather.OpenMeteoURL, opts.HTTP.Retries)
	}
	return providers.NewOpenWeatherProvider(client, opts.Weather.OpenWeatherKey, opts.Weather.OpenWeatherURL, opts.HTTP.Retries)
}

func loadIcons(opts *config.Options) (*icons.Table, error) {
	if opts.Display.IconsFile == "" {
		return icons.Default(), nil
	}
	table, err := icons.LoadFile(opts.Display.IconsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load icon table %s: %w", opts.Display.IconsFile, err)
	}
	return table, nil
}

// newLoader assembles the screen loader from the configured sources.
func newLoader(opts *config.Options, collector *metrics.Collector) (*screen.Loader, error) {
	accuracy, err := opts.Accuracy()
	if err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: opts.HTTP.Timeout,
	}

	resolver := location.NewResolver(newPermission(opts), newPositioner(opts, httpClient))
	service := weather.NewService(newForecaster(opts, httpClient), collector)

	return screen.NewLoader(resolver, newGeocoder(opts, httpClient), service, accuracy, collector), nil
}
