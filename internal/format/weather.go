package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/naseer2426/skybot/internal/callback"
	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/provider/places"
	"github.com/naseer2426/skybot/internal/provider/weather"
)

const (
	locationIconURL = "https://static.thenounproject.com/png/14236-200.png"
	cityPageURL     = "https://openweathermap.org/city/%d"
	// the first daily entry is today and feeds the low / high line
	forecastDays = 5
)

func describe(conditions []weather.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Description
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WeatherCard renders current conditions followed by a short daily forecast.
func WeatherCard(report *weather.Report) *card.Bubble {
	cur := report.Current
	loc := zone(cur.Timezone)

	low, high := cur.Main.TempMin, cur.Main.TempMax
	if len(report.Daily) > 0 {
		low, high = report.Daily[0].Temp.Min, report.Daily[0].Temp.Max
	}

	location := card.BaselineBox(
		&card.Icon{URL: locationIconURL},
		&card.Text{Text: fmt.Sprintf("%s, %s", cur.Name, cur.Sys.Country), Size: "sm"},
	)
	location.Spacing = "sm"

	now := card.VBox(
		&card.Text{
			Text:   fmt.Sprintf("%.0fºC", cur.Main.Temp),
			Size:   "5xl",
			Align:  "center",
			Action: card.URIAction("", fmt.Sprintf(cityPageURL, cur.ID)),
		},
		&card.Text{Text: describe(cur.Weather), Weight: "bold", Size: "sm", Align: "center"},
		&card.Text{Text: fmt.Sprintf("%.0fºC / %.0fºC", low, high), Size: "sm", Align: "center"},
		&card.Text{Text: fmt.Sprintf("Wind: %.1f km/h", cur.Wind.Speed*msToKmh), Size: "xs", Align: "center"},
		&card.Text{Text: fmt.Sprintf("Humidity: %d%%", cur.Main.Humidity), Size: "xs", Align: "center"},
	)
	now.Margin = "xs"

	forecast := card.VBox()
	forecast.Spacing = "md"
	for i := 1; i < len(report.Daily) && i <= forecastDays; i++ {
		day := report.Daily[i]
		forecast.Add(
			card.HBox(
				&card.Text{Text: time.Unix(day.Dt, 0).In(loc).Format(LayoutDay), Size: "xxs", Flex: card.Flex(3)},
				&card.Text{Text: describe(day.Weather), Size: "xxs", Flex: card.Flex(6)},
				&card.Text{Text: fmt.Sprintf("%.0fº/%.0fº", day.Temp.Min, day.Temp.Max), Size: "xxs", Flex: card.Flex(2)},
			),
			&card.Separator{},
		)
	}

	body := card.VBox(
		card.VBox(location, &card.Text{Text: time.Unix(cur.Dt, 0).In(loc).Format("Mon, 02 Jan 2006 03:04 PM"), Size: "xxs"}),
		now,
		&card.Separator{},
		forecast,
	)
	body.Spacing = "md"

	lat, lng := coord(cur.Coord.Lat), coord(cur.Coord.Lon)
	footer := card.VBox(
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Hourly Forecast",
			callback.Query(callback.RouteWeatherHourly, "lat", lat, "lng", lng))},
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Nearby Places",
			callback.Query(callback.RoutePlaceSearch, "lat", lat, "lng", lng, "type", places.TypeAll))},
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Air Quality",
			callback.Query(callback.RouteAQIDaily, "lat", lat, "lng", lng))},
	)
	footer.Spacing = "sm"

	return &card.Bubble{
		Body:   body,
		Footer: footer,
		Styles: &card.BubbleStyles{Body: &card.BlockStyle{BackgroundColor: "#ffffff"}},
	}
}

// HourlyCard lists at most limit hourly entries in the city's local time.
func HourlyCard(hourly *weather.Hourly, limit int) *card.Bubble {
	loc := zone(hourly.City.Timezone)

	header := card.VBox(
		&card.Text{Text: "Hourly Forecast", Weight: "bold", Size: "sm"},
		&card.Text{Text: fmt.Sprintf("%s, %s", hourly.City.Name, hourly.City.Country), Size: "xs", Color: "#aaaaaa"},
	)

	body := card.VBox()
	body.Spacing = "sm"
	for i := 0; i < minInt(len(hourly.List), limit); i++ {
		entry := hourly.List[i]
		body.Add(card.HBox(
			&card.Text{Text: time.Unix(entry.Dt, 0).In(loc).Format(LayoutClock), Size: "xs", Flex: card.Flex(2)},
			&card.Text{Text: describe(entry.Weather), Size: "xs", Flex: card.Flex(5), Wrap: true},
			&card.Text{Text: fmt.Sprintf("%.0fºC", entry.Main.Temp), Size: "xs", Flex: card.Flex(2), Align: "end"},
		))
	}

	return &card.Bubble{Header: header, Body: body}
}
