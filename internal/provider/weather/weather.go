package weather

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

const dailyCount = 6

// Condition is one entry of the provider's "weather" array.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current is the current-conditions response.
type Current struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Coord    Coord       `json:"coord"`
	Dt       int64       `json:"dt"`
	Timezone int         `json:"timezone"`
	Weather  []Condition `json:"weather"`
	Main     struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type DailyEntry struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Weather []Condition `json:"weather"`
}

type HourlyEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
}

type City struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone int    `json:"timezone"`
	Coord    Coord  `json:"coord"`
}

// Report is what the weather card is built from.
type Report struct {
	Current Current
	Daily   []DailyEntry
}

type Hourly struct {
	City City          `json:"city"`
	List []HourlyEntry `json:"list"`
}

type dailyResponse struct {
	City City         `json:"city"`
	List []DailyEntry `json:"list"`
}

type Client struct {
	cfg    config.Weather
	client *resty.Client
	logger *slog.Logger
}

func NewClient(cfg config.Weather, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: provider.NewClient(cfg.APIHost),
		logger: logger,
	}
}

func (c *Client) request(requestID string) *resty.Request {
	return c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParam("appid", c.cfg.APIKey).
		SetQueryParam("units", "metric")
}

func coordParams(lat, lng float64) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(lng, 'f', -1, 64),
	}
}

// ByCoord fetches current conditions and the daily forecast for a location.
func (c *Client) ByCoord(requestID string, lat, lng float64) (*Report, error) {
	current, err := c.current(requestID, coordParams(lat, lng), fmt.Sprintf("%v,%v", lat, lng))
	if err != nil {
		return nil, err
	}
	return c.withDaily(requestID, current)
}

// ByPlace resolves a place name through the current-conditions lookup and
// then fetches the daily forecast for the resolved coordinates.
func (c *Client) ByPlace(requestID, place string) (*Report, error) {
	current, err := c.current(requestID, map[string]string{"q": place}, place)
	if err != nil {
		return nil, err
	}
	return c.withDaily(requestID, current)
}

func (c *Client) current(requestID string, params map[string]string, label string) (*Current, error) {
	var current Current
	resp, err := c.request(requestID).
		SetQueryParams(params).
		SetResult(&current).
		Get("/data/2.5/weather")
	if err != nil {
		return nil, fmt.Errorf("weather request for %s failed: %w", label, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, provider.NotFound("weather for %s", label)
	}
	if err := provider.CheckStatus("weather", resp); err != nil {
		return nil, err
	}
	if current.Name == "" && len(current.Weather) == 0 {
		return nil, provider.NotFound("weather for %s", label)
	}
	return &current, nil
}

func (c *Client) withDaily(requestID string, current *Current) (*Report, error) {
	var daily dailyResponse
	resp, err := c.request(requestID).
		SetQueryParams(coordParams(current.Coord.Lat, current.Coord.Lon)).
		SetQueryParam("cnt", strconv.Itoa(dailyCount)).
		SetResult(&daily).
		Get("/data/2.5/forecast/daily")
	if err != nil {
		return nil, fmt.Errorf("daily forecast request failed: %w", err)
	}
	if err := provider.CheckStatus("daily forecast", resp); err != nil {
		return nil, err
	}
	c.logger.Debug("weather report fetched", "request_id", requestID, "city", current.Name, "days", len(daily.List))
	return &Report{Current: *current, Daily: daily.List}, nil
}

// Hourly fetches the hourly forecast for a location.
func (c *Client) Hourly(requestID string, lat, lng float64) (*Hourly, error) {
	var hourly Hourly
	resp, err := c.request(requestID).
		SetQueryParams(coordParams(lat, lng)).
		SetQueryParam("cnt", strconv.Itoa(c.cfg.HourlyLimit)).
		SetResult(&hourly).
		Get("/data/2.5/forecast/hourly")
	if err != nil {
		return nil, fmt.Errorf("hourly forecast request failed: %w", err)
	}
	if err := provider.CheckStatus("hourly forecast", resp); err != nil {
		return nil, err
	}
	if len(hourly.List) == 0 {
		return nil, provider.NotFound("hourly forecast for %v,%v", lat, lng)
	}
	return &hourly, nil
}
