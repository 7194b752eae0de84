package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"static"`
	DatabaseURL   string `env:"DATABASE_URL"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	LINE     LINE     `envPrefix:"LINE_"`
	Weather  Weather  `envPrefix:"WEATHER_"`
	AQI      AQI      `envPrefix:"AQI_"`
	Flight   Flight   `envPrefix:"FLIGHT_"`
	Places   Places   `envPrefix:"GMAPS_"`
	RouteMap RouteMap `envPrefix:"ROUTE_MAP_"`
	Bot      Bot
}

type LINE struct {
	ChannelSecret      string `env:"CHANNEL_SECRET,required"`
	ChannelAccessToken string `env:"CHANNEL_ACCESS_TOKEN,required"`
	APIHost            string `env:"API_HOST" envDefault:"https://api.line.me"`
}

type Weather struct {
	APIHost     string `env:"API_HOST" envDefault:"https://api.openweathermap.org"`
	APIKey      string `env:"API_KEY"`
	HourlyLimit int    `env:"HOURLY_LIMIT" envDefault:"8"`
}

type AQI struct {
	APIHost     string `env:"API_HOST"`
	APIKey      string `env:"API_KEY"`
	StationID   string `env:"STATION_ID"`
	Timezone    string `env:"TIMEZONE" envDefault:"Asia/Bangkok"`
	HourlyLimit int    `env:"HOURLY_LIMIT" envDefault:"12"`
	DailyLimit  int    `env:"DAILY_LIMIT" envDefault:"7"`
}

type Flight struct {
	APIHost    string `env:"API_HOST"`
	BoardLimit int    `env:"BOARD_LIMIT" envDefault:"15"`
}

type Places struct {
	APIHost       string `env:"API_HOST" envDefault:"https://maps.googleapis.com"`
	APIKey        string `env:"API_KEY"`
	Language      string `env:"LANGUAGE" envDefault:"en"`
	Radius        int    `env:"RADIUS" envDefault:"100"`
	PhotoMaxWidth int    `env:"PHOTO_MAX_WIDTH" envDefault:"640"`
}

type RouteMap struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	APIHost string `env:"API_HOST" envDefault:"http://www.gcmap.com"`
}

// Bot toggles reproduce reply quirks of the first version of the bot.
type Bot struct {
	// AlwaysSendFallback sends the flight / route "not found" text even
	// after a card was already produced for the same message.
	AlwaysSendFallback bool `env:"ALWAYS_SEND_FALLBACK" envDefault:"true"`
	// DropLastBoardRow makes the airport board show min(n, limit)-1 rows.
	DropLastBoardRow bool `env:"DROP_LAST_BOARD_ROW" envDefault:"true"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg, nil
}

// Validate checks limits that would otherwise produce empty cards.
func Validate(cfg Config) error {
	if cfg.Weather.HourlyLimit < 1 {
		return fmt.Errorf("WEATHER_HOURLY_LIMIT must be >= 1, got %d", cfg.Weather.HourlyLimit)
	}
	if cfg.AQI.HourlyLimit < 1 || cfg.AQI.DailyLimit < 1 {
		return fmt.Errorf("AQI_HOURLY_LIMIT and AQI_DAILY_LIMIT must be >= 1")
	}
	if cfg.Flight.BoardLimit < 1 {
		return fmt.Errorf("FLIGHT_BOARD_LIMIT must be >= 1, got %d", cfg.Flight.BoardLimit)
	}
	if cfg.Places.Radius <= 0 {
		return fmt.Errorf("GMAPS_RADIUS must be positive, got %d", cfg.Places.Radius)
	}
	return nil
}
