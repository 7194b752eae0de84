package aqi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

const statusSuccess = "success"

type Measurement struct {
	AQIUS int `json:"aqius"`
}

// Weather holds the station weather values. Temperature and humidity are
// kept as the provider wrote them so cards print them verbatim.
type Weather struct {
	TP json.Number `json:"tp"`
	HU json.Number `json:"hu"`
	WS float64     `json:"ws"`
	IC string      `json:"ic"`
}

type Forecast struct {
	TS    time.Time `json:"ts"`
	AQIUS int       `json:"aqius"`
	TP    float64   `json:"tp"`
	TPMin float64   `json:"tp_min"`
	IC    string    `json:"ic"`
}

type Station struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	City               string      `json:"city"`
	Country            string      `json:"country"`
	CurrentMeasurement Measurement `json:"current_measurement"`
	CurrentWeather     Weather     `json:"current_weather"`
	ForecastsHourly    []Forecast  `json:"forecasts_hourly"`
	ForecastsDaily     []Forecast  `json:"forecasts_daily"`
}

type stationResponse struct {
	Status string   `json:"status"`
	Data   *Station `json:"data"`
}

type nearestResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

type Client struct {
	cfg    config.AQI
	client *resty.Client
	logger *slog.Logger
}

func NewClient(cfg config.AQI, logger *slog.Logger) *Client {
	client := provider.NewClient(cfg.APIHost).SetHeaders(map[string]string{
		"user-agent":      "okhttp/3.12.0",
		"x-api-token":     cfg.APIKey,
		"x-user-lang":     "en_US",
		"Content-Type":    "application/json",
		"x-login-token":   "",
		"x-user-timezone": cfg.Timezone,
		"x-aqi-index":     "us",
	})
	return &Client{cfg: cfg, client: client, logger: logger}
}

// Current returns the configured default station.
func (c *Client) Current(requestID string) (*Station, error) {
	if c.cfg.StationID == "" {
		return nil, fmt.Errorf("AQI_STATION_ID is not set")
	}
	return c.Station(requestID, c.cfg.StationID)
}

// Station fetches measurements and forecasts for one station.
func (c *Client) Station(requestID, stationID string) (*Station, error) {
	var body stationResponse
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParam("id", stationID).
		SetResult(&body).
		Get("/api/v3/station/id")
	if err != nil {
		return nil, fmt.Errorf("aqi station request failed: %w", err)
	}
	if err := provider.CheckStatus("aqi", resp); err != nil {
		return nil, err
	}
	if body.Status != statusSuccess || body.Data == nil {
		return nil, provider.NotFound("aqi station %s", stationID)
	}
	if body.Data.ID == "" {
		body.Data.ID = stationID
	}
	return body.Data, nil
}

// NearestStation returns the id of the station closest to a location.
func (c *Client) NearestStation(requestID string, lat, lng float64) (string, error) {
	var body nearestResponse
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetBody(map[string]float64{"lat": lat, "lon": lng}).
		SetResult(&body).
		Post("/api/v4/nearest")
	if err != nil {
		return "", fmt.Errorf("aqi nearest request failed: %w", err)
	}
	if err := provider.CheckStatus("aqi", resp); err != nil {
		return "", err
	}
	if body.Status != statusSuccess || body.Data.ID == "" {
		return "", provider.NotFound("aqi station near %v,%v", lat, lng)
	}
	c.logger.Debug("nearest aqi station", "request_id", requestID, "station_id", body.Data.ID)
	return body.Data.ID, nil
}
