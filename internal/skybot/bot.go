package skybot

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/naseer2426/skybot/internal/callback"
	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/format"
	"github.com/naseer2426/skybot/internal/line"
	"github.com/naseer2426/skybot/internal/provider"
	"github.com/naseer2426/skybot/internal/provider/aqi"
	"github.com/naseer2426/skybot/internal/provider/flight"
	"github.com/naseer2426/skybot/internal/provider/places"
	"github.com/naseer2426/skybot/internal/provider/routemap"
	"github.com/naseer2426/skybot/internal/provider/weather"
)

// MaxQuickReplies is the most quick reply buttons LINE shows under a message.
const MaxQuickReplies = 13

const (
	reactionKeyword = "มองบน"
	weatherKeyword  = "อากาศ"
)

var (
	weatherInPattern = regexp.MustCompile(`^weather in (.*)`)
	flightPattern    = regexp.MustCompile(`^flight (.*)`)
	routePattern     = regexp.MustCompile(`^[A-Z]{3}-[A-Z]{3}$`)
	airportPattern   = regexp.MustCompile(`^airport (.*)`)
)

type Options struct {
	// AlwaysSendFallback sends the flight and route apology even when a
	// card was produced.
	AlwaysSendFallback bool
	// DropLastBoardRow leaves out the last airport board row within the limit.
	DropLastBoardRow bool

	WeatherHourlyLimit int
	AQIHourlyLimit     int
	AQIDailyLimit      int
	BoardLimit         int
	// AQILocation is the zone AQI forecast times are printed in.
	AQILocation *time.Location
}

type Bot struct {
	Weather  WeatherProvider
	AQI      AQIProvider
	Flight   FlightProvider
	Places   PlacesProvider
	RouteMap RouteMapper // nil disables route map images

	Options Options

	logger *slog.Logger
	now    func() time.Time
}

// NewBot wires the provider clients described by cfg.
func NewBot(cfg config.Config, logger *slog.Logger) (*Bot, error) {
	loc, err := time.LoadLocation(cfg.AQI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load aqi timezone %q: %w", cfg.AQI.Timezone, err)
	}
	bot := &Bot{
		Weather: weather.NewClient(cfg.Weather, logger),
		AQI:     aqi.NewClient(cfg.AQI, logger),
		Flight:  flight.NewClient(cfg.Flight, logger),
		Places:  places.NewClient(cfg.Places, cfg.StaticDir, cfg.PublicBaseURL, logger),
		Options: Options{
			AlwaysSendFallback: cfg.Bot.AlwaysSendFallback,
			DropLastBoardRow:   cfg.Bot.DropLastBoardRow,
			WeatherHourlyLimit: cfg.Weather.HourlyLimit,
			AQIHourlyLimit:     cfg.AQI.HourlyLimit,
			AQIDailyLimit:      cfg.AQI.DailyLimit,
			BoardLimit:         cfg.Flight.BoardLimit,
			AQILocation:        loc,
		},
		logger: logger,
		now:    time.Now,
	}
	if cfg.RouteMap.Enabled {
		bot.RouteMap = routemap.NewGenerator(cfg.RouteMap, cfg.StaticDir, cfg.PublicBaseURL, logger)
	}
	return bot, nil
}

// HandleEvent decides which lookups an event triggers and returns the reply
// batches to send, in order. Provider failures become apology texts; an
// event nothing recognizes yields no replies.
func (b *Bot) HandleEvent(requestID string, ev Event) []Reply {
	switch ev.Kind {
	case KindText:
		return b.handleText(requestID, ev.Text)
	case KindLocation:
		return []Reply{b.weatherByCoord(requestID, ev.Lat, ev.Lng)}
	case KindCallback:
		return b.handleCallback(requestID, ev.Data)
	}
	b.logger.Warn("unknown event kind", "request_id", requestID, "kind", ev.Kind)
	return nil
}

// handleText checks every command independently, so one message may
// trigger several replies.
func (b *Bot) handleText(requestID, input string) []Reply {
	var replies []Reply
	lower := strings.ToLower(input)

	if lower == "aqi" {
		replies = append(replies, b.currentAQI(requestID))
	}
	if strings.Contains(lower, reactionKeyword) {
		replies = append(replies, flex(reactionKeyword, format.ReactionCard()))
	}
	if input == weatherKeyword || lower == "weather" {
		replies = append(replies, weatherMenu())
	}
	if m := weatherInPattern.FindStringSubmatch(lower); m != nil {
		replies = append(replies, b.weatherByPlace(requestID, m[1]))
	}
	if m := flightPattern.FindStringSubmatch(lower); m != nil {
		flightNo := strings.ToUpper(m[1])
		replies = append(replies, b.withFallback(
			b.flightInfo(requestID, flightNo),
			fmt.Sprintf("Sorry, I can't find your flight: %s. Please try another flight number", flightNo),
		)...)
	}
	if upper := strings.ToUpper(input); routePattern.MatchString(upper) {
		replies = append(replies, b.withFallback(
			b.flightRoute(requestID, upper),
			fmt.Sprintf("Sorry, There is no flight for %q route.", upper),
		)...)
	}
	if m := airportPattern.FindStringSubmatch(lower); m != nil {
		replies = append(replies, b.airportSearch(requestID, m[1]))
	}

	if len(replies) == 0 {
		b.logger.Debug("no command matched", "request_id", requestID)
	}
	return replies
}

// withFallback appends the apology text after reply. It is skipped only
// when a card was produced and AlwaysSendFallback is off.
func (b *Bot) withFallback(reply Reply, apology string) []Reply {
	var replies []Reply
	if reply != nil {
		replies = append(replies, reply)
	}
	if reply == nil || b.Options.AlwaysSendFallback {
		replies = append(replies, text(apology))
	}
	return replies
}

// AQIMessages builds the current AQI card of the default station, used by
// the push endpoint.
func (b *Bot) AQIMessages(requestID string) ([]line.OutboundMessage, error) {
	st, err := b.AQI.Current(requestID)
	if err != nil {
		return nil, err
	}
	return []line.OutboundMessage{&line.FlexMessage{AltText: "AQI", Contents: format.AQICard(st)}}, nil
}

func (b *Bot) currentAQI(requestID string) Reply {
	msgs, err := b.AQIMessages(requestID)
	if err != nil {
		b.logFailure(requestID, "aqi lookup failed", err)
		return text("Sorry, I couldn't get the air quality right now")
	}
	return msgs
}

func weatherMenu() Reply {
	items := []line.QuickReplyItem{line.QuickReplyButton(card.LocationAction("Send Location"))}
	for _, city := range []string{"Tokyo", "Seoul", "London"} {
		label := city + " Weather"
		items = append(items, line.QuickReplyButton(&card.Action{
			Type:        "postback",
			Label:       label,
			Data:        callback.Value(callback.RouteWeather, strings.ToLower(city)),
			DisplayText: label,
		}))
	}
	return Reply{&line.TextMessage{
		Text:       "Let me know your location or place",
		QuickReply: &line.QuickReply{Items: items},
	}}
}

func (b *Bot) weatherByCoord(requestID string, lat, lng float64) Reply {
	report, err := b.Weather.ByCoord(requestID, lat, lng)
	if err != nil {
		b.logFailure(requestID, "weather by location failed", err)
		return text("Sorry, I couldn't find weather for your location")
	}
	return flex("Weather Forecast", format.WeatherCard(report))
}

func (b *Bot) weatherByPlace(requestID, place string) Reply {
	report, err := b.Weather.ByPlace(requestID, place)
	if err != nil {
		b.logFailure(requestID, "weather by place failed", err, "place", place)
		return text(fmt.Sprintf("I couldn't find weather from your place: %s", place))
	}
	return flex("Weather Forecast", format.WeatherCard(report))
}

// flightInfo returns nil when the flight or its metadata cannot be found.
func (b *Bot) flightInfo(requestID, flightNo string) Reply {
	latest, err := b.Flight.LatestFlight(requestID, flightNo)
	if err != nil {
		b.logFailure(requestID, "latest flight lookup failed", err, "flight", flightNo)
		return nil
	}
	meta, err := b.Flight.Metadata(requestID, latest.FlightNumber, latest.Adshex)
	if err != nil {
		b.logFailure(requestID, "flight metadata lookup failed", err, "flight", latest.FlightNumber)
		return nil
	}
	reply := flex("Flight Information", format.FlightCard(latest.FlightNumber, latest.Adshex, meta))
	if img := b.routeMap(requestID, meta.FlightData.DepartureApt, meta.FlightData.ArrivalApt); img != nil {
		reply = append(reply, img)
	}
	return reply
}

// routeMap is best effort: without it the flight card goes out alone.
func (b *Bot) routeMap(requestID, origin, destination string) *line.ImageMessage {
	if b.RouteMap == nil || origin == "" || destination == "" {
		return nil
	}
	original, err := b.RouteMap.Generate(requestID, origin, destination, routemap.ResolutionOriginal)
	if err != nil {
		b.logger.Warn("route map failed", "request_id", requestID, "route", origin+"-"+destination, "error", err)
		return nil
	}
	preview, err := b.RouteMap.Generate(requestID, origin, destination, routemap.ResolutionPreview)
	if err != nil {
		b.logger.Warn("route map preview failed", "request_id", requestID, "route", origin+"-"+destination, "error", err)
		return nil
	}
	return &line.ImageMessage{OriginalContentURL: original, PreviewImageURL: preview}
}

// flightRoute returns nil when no flight serves the route.
func (b *Bot) flightRoute(requestID, route string) Reply {
	origin, destination, _ := strings.Cut(route, "-")
	flights, err := b.Flight.ByRoute(requestID, origin, destination)
	if err != nil {
		b.logFailure(requestID, "route lookup failed", err, "route", route)
		return nil
	}
	return flex(fmt.Sprintf("Flight %s Route Info", route), format.RouteCarousel(origin, destination, flights))
}

func (b *Bot) airportSearch(requestID, query string) Reply {
	results, err := b.Flight.SearchAirports(requestID, query)
	if err != nil {
		b.logFailure(requestID, "airport search failed", err, "query", query)
		return text(fmt.Sprintf("Sorry, I couldn't find any airport for %q", query))
	}
	var items []line.QuickReplyItem
	for _, r := range results {
		if len(items) == MaxQuickReplies {
			break
		}
		code := format.AirportCode(r.URL)
		items = append(items, line.QuickReplyButton(
			card.PostbackAction(format.AirportLabel(r.Title, code), callback.Value(callback.RouteAirport, code)),
		))
	}
	return Reply{&line.TextMessage{Text: "Here are possible airports", QuickReply: &line.QuickReply{Items: items}}}
}

func (b *Bot) logFailure(requestID, msg string, err error, args ...any) {
	args = append([]any{"request_id", requestID, "error", err}, args...)
	if errors.Is(err, provider.ErrNotFound) {
		b.logger.Info(msg, args...)
		return
	}
	b.logger.Error(msg, args...)
}

func text(s string) Reply {
	return Reply{&line.TextMessage{Text: s}}
}

func flex(altText string, c card.Container) Reply {
	return Reply{&line.FlexMessage{AltText: altText, Contents: c}}
}
