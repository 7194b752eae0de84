// Package callback encodes and decodes postback payloads attached to
// tappable card elements. Two wire forms exist:
//
//	<route>=<value>               e.g. weather=tokyo
//	<route>?<k1>=<v1>&<k2>=<v2>   e.g. place_search?lat=1.23&lng=4.56&type=cafe
//
// Values are percent-escaped on the way out and decoded on the way in, so
// plain values travel unchanged.
package callback

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	RoutePlaceSearch      = "place_search"
	RouteWeather          = "weather"
	RouteWeatherHourly    = "weather_hourly"
	RouteFlightInfo       = "flight_info"
	RouteAirport          = "airport"
	RouteAQITodayForecast = "aqi_today_forecast"
	RouteAQIDailyForecast = "aqi_daily_forecast"
	RouteAQIDaily         = "aqi_daily"
	RouteAQIStatement     = "aqi_statement"
)

// Callback is a decoded postback payload.
type Callback struct {
	Route  string
	Params url.Values
}

// Parse decodes a postback payload. Whichever of '=' or '?' comes first
// selects the form. Pieces that are not valid escapes are kept as sent.
func Parse(data string) (Callback, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return Callback{}, fmt.Errorf("empty callback payload")
	}
	params := url.Values{}
	i := strings.IndexAny(data, "=?")
	if i < 0 {
		return Callback{Route: unescape(data), Params: params}, nil
	}
	route := unescape(data[:i])
	if data[i] == '=' {
		params.Set(route, unescape(data[i+1:]))
		return Callback{Route: route, Params: params}, nil
	}
	for _, pair := range strings.Split(data[i+1:], "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		params.Add(unescape(k), unescape(v))
	}
	return Callback{Route: route, Params: params}, nil
}

// unescape decodes percent escapes and leaves '+' alone.
func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

// Value returns the value of the <route>=<value> form.
func (c Callback) Value() string {
	return c.Params.Get(c.Route)
}

// Param returns a named parameter, falling back to the route value so that
// both aqi_daily=abc and aqi_daily?station_id=abc resolve the same way.
func (c Callback) Param(key string) string {
	if v := c.Params.Get(key); v != "" {
		return v
	}
	return c.Value()
}

// Value encodes the <route>=<value> form.
func Value(route, value string) string {
	return route + "=" + escape(value)
}

// escape percent-escapes reserved characters, spaces included, so that
// unescape restores the exact text.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Query encodes the <route>?k=v&... form keeping the parameter order given.
// kv holds alternating keys and values.
func Query(route string, kv ...string) string {
	var sb strings.Builder
	sb.WriteString(route)
	for i := 0; i+1 < len(kv); i += 2 {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(kv[i]))
		sb.WriteByte('=')
		sb.WriteString(escape(kv[i+1]))
	}
	return sb.String()
}
