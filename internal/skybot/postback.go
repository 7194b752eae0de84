package skybot

import (
	"fmt"
	"strconv"

	"github.com/naseer2426/skybot/internal/callback"
	"github.com/naseer2426/skybot/internal/format"
)

func (b *Bot) handleCallback(requestID, data string) []Reply {
	cb, err := callback.Parse(data)
	if err != nil {
		b.logger.Warn("malformed callback", "request_id", requestID, "data", data, "error", err)
		return nil
	}

	var reply Reply
	switch cb.Route {
	case callback.RoutePlaceSearch:
		reply = b.placeSearch(requestID, cb)
	case callback.RouteWeather:
		reply = b.weatherByPlace(requestID, cb.Value())
	case callback.RouteWeatherHourly:
		reply = b.weatherHourly(requestID, cb)
	case callback.RouteFlightInfo:
		flightNo := cb.Value()
		reply = b.flightInfo(requestID, flightNo)
		if reply == nil {
			reply = text(fmt.Sprintf("Sorry, I can't find your flight: %s. Please try another flight number", flightNo))
		}
	case callback.RouteAirport:
		reply = b.airportBoard(requestID, cb.Value())
	case callback.RouteAQITodayForecast:
		reply = b.aqiForecast(requestID, cb.Param("station_id"), false)
	case callback.RouteAQIDailyForecast:
		reply = b.aqiForecast(requestID, cb.Param("station_id"), true)
	case callback.RouteAQIDaily:
		reply = b.aqiStation(requestID, cb)
	case callback.RouteAQIStatement:
		reply = b.aqiStatement(requestID, cb.Param("level"))
	default:
		b.logger.Warn("unknown callback route", "request_id", requestID, "route", cb.Route)
		return nil
	}
	if reply == nil {
		return nil
	}
	return []Reply{reply}
}

func coords(cb callback.Callback) (float64, float64, error) {
	lat, err := strconv.ParseFloat(cb.Params.Get("lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("callback %s: bad lat: %w", cb.Route, err)
	}
	lng, err := strconv.ParseFloat(cb.Params.Get("lng"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("callback %s: bad lng: %w", cb.Route, err)
	}
	return lat, lng, nil
}

func (b *Bot) placeSearch(requestID string, cb callback.Callback) Reply {
	lat, lng, err := coords(cb)
	if err != nil {
		b.logger.Warn("malformed callback", "request_id", requestID, "error", err)
		return nil
	}
	list, err := b.Places.Nearby(requestID, lat, lng, cb.Params.Get("type"))
	if err != nil {
		b.logFailure(requestID, "nearby search failed", err, "lat", lat, "lng", lng)
	}
	if len(list) == 0 {
		return text("I Couldn't Find Any Places From Your Search. So Sorry..")
	}
	return flex("Places", format.PlacesCarousel(list, b.now()))
}

func (b *Bot) weatherHourly(requestID string, cb callback.Callback) Reply {
	lat, lng, err := coords(cb)
	if err != nil {
		b.logger.Warn("malformed callback", "request_id", requestID, "error", err)
		return nil
	}
	hourly, err := b.Weather.Hourly(requestID, lat, lng)
	if err != nil {
		b.logFailure(requestID, "hourly forecast failed", err, "lat", lat, "lng", lng)
		return text("Sorry, I couldn't find the hourly forecast for this location")
	}
	return flex("Weather Forecast Hourly", format.HourlyCard(hourly, b.Options.WeatherHourlyLimit))
}

func (b *Bot) airportBoard(requestID, code string) Reply {
	name, err := b.Flight.AirportName(requestID, code)
	if err != nil {
		b.logFailure(requestID, "airport name lookup failed", err, "code", code)
		return text(fmt.Sprintf("Sorry, I could't find airport information for %s", code))
	}
	board, err := b.Flight.AirportBoard(requestID, code)
	if err != nil {
		b.logFailure(requestID, "airport board lookup failed", err, "code", code)
		return text(fmt.Sprintf("Sorry, there is no airport information for %q", name))
	}
	if board.Name == "" {
		board.Name = name
	}
	return flex("Airport Information", format.AirportBoardCard(board, b.Options.BoardLimit, b.Options.DropLastBoardRow))
}

func (b *Bot) aqiForecast(requestID, stationID string, daily bool) Reply {
	if stationID == "" {
		b.logger.Warn("aqi forecast without station", "request_id", requestID)
		return nil
	}
	st, err := b.AQI.Station(requestID, stationID)
	if err != nil {
		b.logFailure(requestID, "aqi station lookup failed", err, "station_id", stationID)
		return text("Sorry, I couldn't get the air quality forecast right now")
	}
	if daily {
		return flex("AQI Forecast", format.AQIDailyForecastCard(st, b.Options.AQILocation, b.Options.AQIDailyLimit))
	}
	return flex("AQI Today", format.AQITodayCard(st, b.Options.AQILocation, b.Options.AQIHourlyLimit))
}

// aqiStation shows a station given by id, or the one nearest to lat / lng.
func (b *Bot) aqiStation(requestID string, cb callback.Callback) Reply {
	stationID := cb.Param("station_id")
	if stationID == "" {
		lat, lng, err := coords(cb)
		if err != nil {
			b.logger.Warn("malformed callback", "request_id", requestID, "error", err)
			return nil
		}
		stationID, err = b.AQI.NearestStation(requestID, lat, lng)
		if err != nil {
			b.logFailure(requestID, "nearest aqi station lookup failed", err, "lat", lat, "lng", lng)
			return text("Sorry, I couldn't find an air quality station near this location")
		}
	}
	st, err := b.AQI.Station(requestID, stationID)
	if err != nil {
		b.logFailure(requestID, "aqi station lookup failed", err, "station_id", stationID)
		return text("Sorry, I couldn't get the air quality right now")
	}
	return flex("AQI", format.AQICard(st))
}

func (b *Bot) aqiStatement(requestID, level string) Reply {
	n, err := strconv.Atoi(level)
	if err != nil {
		b.logger.Warn("malformed aqi level", "request_id", requestID, "level", level)
		return nil
	}
	return text(format.AQIStatement(n))
}
