package skybot

import (
	"github.com/naseer2426/skybot/internal/line"
	"github.com/naseer2426/skybot/internal/provider/aqi"
	"github.com/naseer2426/skybot/internal/provider/flight"
	"github.com/naseer2426/skybot/internal/provider/places"
	"github.com/naseer2426/skybot/internal/provider/weather"
)

type Kind int

const (
	KindText Kind = iota
	KindLocation
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLocation:
		return "location"
	case KindCallback:
		return "callback"
	}
	return "unknown"
}

// Event is one inbound user action: free text, a shared location or a
// tapped postback.
type Event struct {
	Kind Kind
	Text string
	Lat  float64
	Lng  float64
	Data string
}

func TextEvent(text string) Event {
	return Event{Kind: KindText, Text: text}
}

func LocationEvent(lat, lng float64) Event {
	return Event{Kind: KindLocation, Lat: lat, Lng: lng}
}

func CallbackEvent(data string) Event {
	return Event{Kind: KindCallback, Data: data}
}

// Reply is a batch of messages delivered in one platform call.
type Reply []line.OutboundMessage

type WeatherProvider interface {
	ByCoord(requestID string, lat, lng float64) (*weather.Report, error)
	ByPlace(requestID, place string) (*weather.Report, error)
	Hourly(requestID string, lat, lng float64) (*weather.Hourly, error)
}

type AQIProvider interface {
	Current(requestID string) (*aqi.Station, error)
	Station(requestID, stationID string) (*aqi.Station, error)
	NearestStation(requestID string, lat, lng float64) (string, error)
}

type FlightProvider interface {
	LatestFlight(requestID, flightNo string) (*flight.LatestFlight, error)
	Metadata(requestID, flightNo, adshex string) (*flight.Metadata, error)
	ByRoute(requestID, origin, destination string) ([]flight.RouteFlight, error)
	SearchAirports(requestID, query string) ([]flight.AirportResult, error)
	AirportName(requestID, code string) (string, error)
	AirportBoard(requestID, code string) (*flight.Board, error)
}

type PlacesProvider interface {
	Nearby(requestID string, lat, lng float64, placeType string) ([]places.Place, error)
}

type RouteMapper interface {
	Generate(requestID, origin, destination, resolution string) (string, error)
}
