package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/naseer2426/skybot/internal/callback"
	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/provider/aqi"
)

const (
	aqiHeaderIconURL  = "https://i.imgur.com/m0st7TA.png"
	aqiHumidityIcon   = "https://i.imgur.com/e8ZIslf.png"
	aqiWindIcon       = "https://i.imgur.com/1qlbadb.png"
	aqiWeatherIconURL = "https://airvisual.com/images/%s.png"
	aqiHeaderColor    = "#033C5A"
	aqiFooterColor    = "#AAAAAA"
)

// AQIBand is the display style and health advice of one US AQI range.
type AQIBand struct {
	Name            string
	BackgroundColor string
	TextColor       string
	TextSize        string
	IconURL         string
	Statement       string
}

// upper bounds are inclusive, lower bounds exclusive
var aqiBands = []struct {
	max  int
	band AQIBand
}{
	{50, AQIBand{"Good", "#a8e05f", "#718B3C", "xxl", "https://i.imgur.com/3uysQp6.png",
		"Air quality is satisfactory, and air pollution poses little or no risk."}},
	{100, AQIBand{"Moderate", "#FDD74B", "#A57F23", "xxl", "https://i.imgur.com/jT8N7QZ.png",
		"Air quality is acceptable. However, there may be a risk for some people, particularly those who are unusually sensitive to air pollution."}},
	{150, AQIBand{"Unhealthy for Sensitive Groups", "#fe9b57", "#b25826", "sm", "https://i.imgur.com/ivh1pqK.png",
		"Members of sensitive groups may experience health effects. The general public is less likely to be affected."}},
	{200, AQIBand{"Unhealthy", "#fe6a69", "#af2c3b", "xxl", "https://i.imgur.com/8tXR9wV.png",
		"Some members of the general public may experience health effects; members of sensitive groups may experience more serious health effects."}},
	{300, AQIBand{"Very Unhealthy", "#A97ABE", "#946AA9", "xxl", "https://i.imgur.com/rEfasQc.png",
		"Health alert: The risk of health effects is increased for everyone."}},
}

var hazardous = AQIBand{"Hazardous", "#7E4D51", "#5D3B39", "xxl", "https://i.imgur.com/DhQWeMe.png",
	"Health warning of emergency conditions: everyone is more likely to be affected."}

// unrated covers readings of zero or below, which no band claims.
var unrated = AQIBand{NotAvailable, "#DDDDDD", "#777777", "xxl", aqiHeaderIconURL,
	"There is no air quality reading for this station right now."}

// BandFor maps a US AQI value to its band.
func BandFor(level int) AQIBand {
	if level <= 0 {
		return unrated
	}
	for _, b := range aqiBands {
		if level <= b.max {
			return b.band
		}
	}
	return hazardous
}

// AQIStatement is the health advice reply for a level.
func AQIStatement(level int) string {
	band := BandFor(level)
	return fmt.Sprintf("US AQI %d (%s): %s", level, band.Name, band.Statement)
}

func aqiHeader(st *aqi.Station, subtitle string) *card.Box {
	title := card.BaselineBox(
		&card.Icon{URL: aqiHeaderIconURL, Size: "xs"},
		&card.Text{Text: fmt.Sprintf("%s, %s", st.Name, st.City), Size: "xs", Align: "start", Color: "#C1C4C5", Wrap: true},
	)
	title.Spacing = "sm"
	header := card.VBox(title)
	if subtitle != "" {
		header.Add(&card.Text{Text: subtitle, Size: "sm", Weight: "bold", Color: "#FFFFFF"})
	}
	return header
}

// AQICard renders the current reading of a station on its band color.
func AQICard(st *aqi.Station) *card.Bubble {
	level := st.CurrentMeasurement.AQIUS
	band := BandFor(level)
	w := st.CurrentWeather

	body := card.VBox(card.HBox(
		&card.Image{URL: band.IconURL, Flex: card.Flex(0)},
		card.VBox(
			&card.Text{Text: strconv.Itoa(level), Size: "xxl", Align: "center", Weight: "bold", Color: band.TextColor},
			&card.Text{Text: "US AQI", Size: "xs", Align: "center", Color: band.TextColor},
			&card.Text{Text: band.Name, Size: band.TextSize, Align: "center", Gravity: "center", Weight: "bold", Color: band.TextColor, Wrap: true},
		),
	))

	temperature := card.HBox(
		&card.Image{URL: fmt.Sprintf(aqiWeatherIconURL, w.IC), Flex: card.Flex(0), Size: "xxs"},
		&card.Text{Text: fmt.Sprintf("%s °", w.TP), Size: "md", Gravity: "center", Color: aqiFooterColor},
	)
	temperature.Spacing = "sm"
	conditions := card.HBox(card.HBox(
		temperature,
		card.HBox(
			&card.Image{URL: aqiHumidityIcon, Flex: card.Flex(0), Size: "xxs"},
			&card.Text{Text: fmt.Sprintf("%s%%", w.HU), Size: "md", Gravity: "center", Color: aqiFooterColor},
		),
		card.HBox(
			&card.Image{URL: aqiWindIcon, Align: "start", Size: "xxs"},
			&card.Text{Text: KmhString(w.WS) + " km/h", Size: "sm", Gravity: "center", Color: aqiFooterColor, Wrap: true},
		),
	))

	buttons := card.HBox(
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Today",
			callback.Query(callback.RouteAQITodayForecast, "station_id", st.ID))},
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Next Days",
			callback.Query(callback.RouteAQIDailyForecast, "station_id", st.ID))},
		&card.Button{Style: "link", Height: "sm", Action: card.PostbackAction("Advice",
			callback.Query(callback.RouteAQIStatement, "level", strconv.Itoa(level)))},
	)

	return &card.Bubble{
		Direction: "ltr",
		Header:    aqiHeader(st, ""),
		Body:      body,
		Footer:    card.VBox(conditions, buttons),
		Styles: &card.BubbleStyles{
			Header: &card.BlockStyle{BackgroundColor: aqiHeaderColor},
			Body:   &card.BlockStyle{BackgroundColor: band.BackgroundColor},
		},
	}
}

func aqiRow(when string, level int, temperature string) *card.Box {
	band := BandFor(level)
	row := card.HBox(
		&card.Text{Text: when, Size: "xs", Flex: card.Flex(3)},
		&card.Text{Text: strconv.Itoa(level), Size: "xs", Weight: "bold", Align: "center", Color: band.TextColor, Flex: card.Flex(2)},
		&card.Text{Text: band.Name, Size: "xxs", Wrap: true, Flex: card.Flex(5)},
		&card.Text{Text: temperature, Size: "xs", Align: "end", Flex: card.Flex(2)},
	)
	row.Spacing = "sm"
	return row
}

func aqiForecastCard(st *aqi.Station, subtitle string, rows []*card.Box) *card.Bubble {
	body := card.VBox()
	body.Spacing = "sm"
	for i, row := range rows {
		if i > 0 {
			body.Add(&card.Separator{})
		}
		body.Add(row)
	}
	return &card.Bubble{
		Direction: "ltr",
		Header:    aqiHeader(st, subtitle),
		Body:      body,
		Styles:    &card.BubbleStyles{Header: &card.BlockStyle{BackgroundColor: aqiHeaderColor}},
	}
}

// AQITodayCard lists at most limit hourly forecasts in loc.
func AQITodayCard(st *aqi.Station, loc *time.Location, limit int) *card.Bubble {
	var rows []*card.Box
	for i := 0; i < minInt(len(st.ForecastsHourly), limit); i++ {
		f := st.ForecastsHourly[i]
		rows = append(rows, aqiRow(f.TS.In(loc).Format(LayoutClock), f.AQIUS, fmt.Sprintf("%.0f°", f.TP)))
	}
	return aqiForecastCard(st, "Today", rows)
}

// AQIDailyForecastCard lists at most limit daily forecasts in loc.
func AQIDailyForecastCard(st *aqi.Station, loc *time.Location, limit int) *card.Bubble {
	var rows []*card.Box
	for i := 0; i < minInt(len(st.ForecastsDaily), limit); i++ {
		f := st.ForecastsDaily[i]
		rows = append(rows, aqiRow(f.TS.In(loc).Format(LayoutDay), f.AQIUS, fmt.Sprintf("%.0f°/%.0f°", f.TPMin, f.TP)))
	}
	return aqiForecastCard(st, "Next Days", rows)
}
