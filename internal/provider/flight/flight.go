package flight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

const apiPath = "/api/api.php"

// LatestFlight is the most recent tracked leg of a flight number.
type LatestFlight struct {
	FlightNumber string `json:"flight_number"`
	Adshex       string `json:"adshex"`
}

type FlightData struct {
	DepartureApt      string   `json:"departureApt"`
	ArrivalApt        string   `json:"arrivalApt"`
	ArrivalDay        string   `json:"arrivalDay"`
	Seats             any      `json:"seats"`
	DepartureTerminal *string  `json:"departureTerminal"`
	DepartureGate     *string  `json:"departureGate"`
	JourneyTime       string   `json:"journeyTime"`
	Codeshares        []string `json:"codeshares"`
}

type AircraftData struct {
	// the provider spells this key without the "r"
	Operator          string `json:"aicraftOperator"`
	AirlineICAO       string `json:"airlineICAO"`
	TypeCode          string `json:"typeCode"`
	AircraftFullType  string `json:"aircraftFullType"`
	AircraftAgeString string `json:"aircraftAgeString"`
}

type AirportDetail struct {
	AirportCity string `json:"airportCity"`
}

type Photo struct {
	ThumbnailPath string `json:"thumbnailPath"`
}

// StatusData holds schedule times as local-clock epochs and UTC offsets in seconds.
type StatusData struct {
	DepSchdLOC *int64 `json:"depSchdLOC"`
	ArrSchdLOC *int64 `json:"arrSchdLOC"`
	DepOffset  int64  `json:"depOffset"`
	ArrOffset  int64  `json:"arrOffset"`
}

type Metadata struct {
	FlightData    FlightData               `json:"flightData"`
	AircraftData  AircraftData             `json:"aircraftData"`
	AirportDetail map[string]AirportDetail `json:"airportDetail"`
	Photos        []Photo                  `json:"photos"`
	StatusData    StatusData               `json:"statusData"`
}

// RouteFlight is one scheduled flight between two airports.
type RouteFlight struct {
	FlightNo     string `json:"flightNo"`
	Airline      string `json:"airline"`
	AircraftType string `json:"aircraftType"`
	DepSchdLOC   int64  `json:"depSchdLOC"`
	ArrSchdLOC   int64  `json:"arrSchdLOC"`
}

// AirportResult is an airport search hit; the IATA code is the last
// segment of URL.
type AirportResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type BoardFlight struct {
	FlightNo        string `json:"flightNo"`
	Airline         string `json:"airline"`
	Destination     string `json:"destination"`
	DestinationCity string `json:"destinationCity"`
	DepSchdLOC      int64  `json:"depSchdLOC"`
	Status          string `json:"status"`
}

type Board struct {
	Code       string        `json:"code"`
	Name       string        `json:"name"`
	Departures []BoardFlight `json:"departures"`
	Arrivals   []BoardFlight `json:"arrivals"`
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Payload T    `json:"payload"`
}

type Client struct {
	client *resty.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewClient(cfg config.Flight, logger *slog.Logger) *Client {
	return &Client{
		client: provider.NewClient(cfg.APIHost),
		logger: logger,
		now:    time.Now,
	}
}

// LatestFlight looks up the most recent leg flown under flightNo.
func (c *Client) LatestFlight(requestID, flightNo string) (*LatestFlight, error) {
	var body struct {
		Flights json.RawMessage `json:"flights"`
	}
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParam("fn", flightNo).
		SetQueryParam("_", strconv.FormatInt(c.now().UnixMilli(), 10)).
		SetResult(&body).
		Get("/endpoints/playback/previousFlights.php")
	if err != nil {
		return nil, fmt.Errorf("previous flights request failed: %w", err)
	}
	if err := provider.CheckStatus("flight", resp); err != nil {
		return nil, err
	}
	// the provider answers "flights": false when it knows nothing
	raw := bytes.TrimSpace(body.Flights)
	if len(raw) == 0 || bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte("null")) {
		return nil, provider.NotFound("flight %s", flightNo)
	}
	var flights []LatestFlight
	if err := json.Unmarshal(raw, &flights); err != nil {
		return nil, fmt.Errorf("decode previous flights: %w", err)
	}
	if len(flights) == 0 {
		return nil, provider.NotFound("flight %s", flightNo)
	}
	return &flights[0], nil
}

// Metadata fetches aircraft, schedule and airport details for a tracked flight.
func (c *Client) Metadata(requestID, flightNo, adshex string) (*Metadata, error) {
	var body envelope[*Metadata]
	err := c.call(requestID, map[string]string{
		"r":          "aircraftMetadata",
		"adshex":     adshex,
		"flightno":   flightNo,
		"type":       "0",
		"isPlayback": "0",
		"isPoll":     "0",
	}, &body)
	if err != nil {
		return nil, err
	}
	if !body.Success || body.Payload == nil {
		return nil, provider.NotFound("metadata for flight %s", flightNo)
	}
	return body.Payload, nil
}

// ByRoute lists scheduled flights from origin to destination.
func (c *Client) ByRoute(requestID, origin, destination string) ([]RouteFlight, error) {
	var body envelope[[]RouteFlight]
	err := c.call(requestID, map[string]string{
		"r":           "routeSearch",
		"origin":      origin,
		"destination": destination,
	}, &body)
	if err != nil {
		return nil, err
	}
	if !body.Success || len(body.Payload) == 0 {
		return nil, provider.NotFound("route %s-%s", origin, destination)
	}
	return body.Payload, nil
}

// SearchAirports finds airports matching a free text query.
func (c *Client) SearchAirports(requestID, query string) ([]AirportResult, error) {
	var body envelope[[]AirportResult]
	if err := c.call(requestID, map[string]string{"r": "search", "q": query}, &body); err != nil {
		return nil, err
	}
	if !body.Success || len(body.Payload) == 0 {
		return nil, provider.NotFound("airport %q", query)
	}
	return body.Payload, nil
}

// AirportName resolves an IATA code to the airport name.
func (c *Client) AirportName(requestID, code string) (string, error) {
	var body envelope[struct {
		Name string `json:"name"`
	}]
	if err := c.call(requestID, map[string]string{"r": "airportName", "code": code}, &body); err != nil {
		return "", err
	}
	if !body.Success || body.Payload.Name == "" {
		return "", provider.NotFound("airport %s", code)
	}
	return body.Payload.Name, nil
}

// AirportBoard fetches the departures and arrivals board of an airport.
func (c *Client) AirportBoard(requestID, code string) (*Board, error) {
	var body envelope[*Board]
	if err := c.call(requestID, map[string]string{"r": "airportBoard", "code": code}, &body); err != nil {
		return nil, err
	}
	if !body.Success || body.Payload == nil || (len(body.Payload.Departures) == 0 && len(body.Payload.Arrivals) == 0) {
		return nil, provider.NotFound("board for airport %s", code)
	}
	if body.Payload.Code == "" {
		body.Payload.Code = code
	}
	return body.Payload, nil
}

func (c *Client) call(requestID string, params map[string]string, result any) error {
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(params).
		SetResult(result).
		Get(apiPath)
	if err != nil {
		return fmt.Errorf("flight api %s request failed: %w", params["r"], err)
	}
	if err := provider.CheckStatus("flight api", resp); err != nil {
		return err
	}
	c.logger.Debug("flight api call", "request_id", requestID, "r", params["r"])
	return nil
}
