package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-glance/internal/location"
	"github.com/i474232898/weather-glance/internal/logger"
)

var (
	ErrMissingAPIKey      = errors.New("OPENWEATHER_API_KEY is required for the openweather provider")
	ErrMissingGoogleKey   = errors.New("GOOGLE_GEOCODING_API_KEY is required for the google geocoder")
	ErrMissingCoordinates = errors.New("LOCATION_LAT and LOCATION_LON are required for the static location source")
	ErrPromptInServe      = errors.New("the prompt permission needs a terminal and cannot be used in serve mode")
)

var validate = validator.New()

// WeatherOptions selects and configures the forecast provider.
type WeatherOptions struct {
	Provider       string `long:"provider"        env:"WEATHER_PROVIDER"    description:"Forecast provider" choice:"openweather" choice:"openmeteo" default:"openweather"`
	OpenWeatherKey string `long:"openweather-key" env:"OPENWEATHER_API_KEY" description:"OpenWeatherMap API key"`
	OpenWeatherURL string `long:"openweather-url" env:"OPENWEATHER_URL"     description:"OpenWeatherMap forecast endpoint" validate:"omitempty,url"`
	OpenMeteoURL   string `long:"openmeteo-url"   env:"OPENMETEO_URL"       description:"Open-Meteo forecast endpoint" validate:"omitempty,url"`
}

// LocationOptions configures the permission gate and the position source.
type LocationOptions struct {
	Source     string  `long:"location-source" env:"LOCATION_SOURCE"     description:"Where the position fix comes from" choice:"static" choice:"ip" default:"ip"`
	Latitude   float64 `long:"lat"             env:"LOCATION_LAT"        description:"Latitude for the static source" validate:"gte=-90,lte=90"`
	Longitude  float64 `long:"lon"             env:"LOCATION_LON"        description:"Longitude for the static source" validate:"gte=-180,lte=180"`
	IPAPIURL   string  `long:"ipapi-url"       env:"IPAPI_URL"           description:"IP geolocation endpoint" validate:"omitempty,url"`
	Permission string  `long:"permission"      env:"LOCATION_PERMISSION" description:"Location permission answer" choice:"prompt" choice:"granted" choice:"denied" default:"prompt"`
	Accuracy   string  `long:"accuracy"        env:"LOCATION_ACCURACY"   description:"Accuracy tier of the position fix (lowest, low, balanced, high, highest, navigation or 1-6)" default:"highest"`
}

// GeocoderOptions configures reverse geocoding.
type GeocoderOptions struct {
	Provider     string `long:"geocoder"          env:"GEOCODER"                 description:"Reverse geocoding provider" choice:"nominatim" choice:"google" default:"nominatim"`
	NominatimURL string `long:"nominatim-url"     env:"NOMINATIM_URL"            description:"Nominatim reverse endpoint" validate:"omitempty,url"`
	Language     string `long:"geocoder-language" env:"GEOCODER_LANGUAGE"        description:"Preferred language of place names"`
	GoogleKey    string `long:"google-key"        env:"GOOGLE_GEOCODING_API_KEY" description:"Google geocoding API key"`
}

// HTTPOptions configures outbound calls.
type HTTPOptions struct {
	Timeout time.Duration `long:"http-timeout" env:"HTTP_TIMEOUT" description:"Timeout of one outbound request" default:"10s" validate:"gt=0"`
	Retries int           `long:"http-retries" env:"HTTP_RETRIES" description:"Retries for failed outbound requests" default:"3" validate:"gte=0,lte=10"`
}

// DisplayOptions configures terminal output.
type DisplayOptions struct {
	IconsFile string `long:"icons"    env:"ICONS_FILE" description:"YAML file replacing the condition icon table"`
	Page      int    `long:"page"     env:"PAGE"       description:"Render only this page (1-based); 0 renders all" default:"0" validate:"gte=0"`
	NoColor   bool   `long:"no-color" env:"NO_COLOR"   description:"Disable colored output"`
}

// ServerOptions configures serve mode.
type ServerOptions struct {
	Serve           bool          `long:"serve"             env:"SERVE"             description:"Serve the screen over HTTP instead of rendering it once"`
	Port            int           `long:"port"              env:"PORT"              description:"Port to listen on" default:"8080" validate:"gte=1,lte=65535"`
	RefreshInterval time.Duration `long:"refresh-interval"  env:"REFRESH_INTERVAL"  description:"Reload the screen this often in serve mode; 0 loads once" default:"0s" validate:"gte=0"`
	StoreMaxHistory int           `long:"store-max-history" env:"STORE_MAX_HISTORY" description:"Screen states kept in history (0 = unlimited)" default:"96" validate:"gte=0"`
	StoreMaxAge     time.Duration `long:"store-max-age"     env:"STORE_MAX_AGE"     description:"Maximum age of kept screen states (0 = unlimited)" default:"24h" validate:"gte=0"`
}

// Options is the full configuration.
type Options struct {
	Logger   logger.Logger   `group:"Logger options"`
	Weather  WeatherOptions  `group:"Weather options"`
	Location LocationOptions `group:"Location options"`
	Geocoder GeocoderOptions `group:"Geocoder options"`
	HTTP     HTTPOptions     `group:"HTTP options"`
	Display  DisplayOptions  `group:"Display options"`
	Server   ServerOptions   `group:"Server options"`
}

// Load reads a .env file when present, then parses args and the
// environment. A *flags.Error with type flags.ErrHelp is returned as is.
func Load(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "weather-glance"
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks field ranges and the rules spanning several options.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := o.Accuracy(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if o.Weather.Provider == "openweather" && o.Weather.OpenWeatherKey == "" {
		return ErrMissingAPIKey
	}
	if o.Geocoder.Provider == "google" && o.Geocoder.GoogleKey == "" {
		return ErrMissingGoogleKey
	}
	if o.Location.Source == "static" && o.Location.Latitude == 0 && o.Location.Longitude == 0 {
		return ErrMissingCoordinates
	}
	if o.Server.Serve && o.Location.Permission == "prompt" {
		return ErrPromptInServe
	}
	return nil
}

// Accuracy returns the configured accuracy tier.
func (o *Options) Accuracy() (location.Accuracy, error) {
	return location.ParseAccuracy(o.Location.Accuracy)
}

// StaticCoordinates returns the configured fixed position.
func (o *Options) StaticCoordinates() location.Coordinates {
	return location.Coordinates{
		Latitude:  o.Location.Latitude,
		Longitude: o.Location.Longitude,
	}
}
