package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/provider/flight"
)

const airportTitleMax = 14

// AirportCode extracts the IATA code from an airport search result URL.
func AirportCode(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}

// AirportLabel is the quick reply label of a search hit: the title cut to
// 14 characters followed by the code in parentheses.
func AirportLabel(title, code string) string {
	if utf8.RuneCountInString(title) > airportTitleMax {
		title = string([]rune(title)[:airportTitleMax])
	}
	return fmt.Sprintf("%s (%s)", title, code)
}

// BoardRowCount is the number of rows an airport board shows for n flights.
// With dropLast set the last row within the limit is left out.
func BoardRowCount(n, limit int, dropLast bool) int {
	rows := minInt(n, limit)
	if dropLast && rows > 0 {
		rows--
	}
	return rows
}

// AirportBoardCard renders the departures board of an airport.
func AirportBoardCard(board *flight.Board, limit int, dropLast bool) *card.Bubble {
	header := card.VBox(
		&card.Text{Text: fmt.Sprintf("%s (%s)", board.Name, board.Code), Weight: "bold", Size: "sm", Wrap: true, Color: flightTextColor},
		&card.Text{Text: "Departures", Size: "xs", Color: "#999999"},
	)

	body := card.VBox()
	body.Spacing = "sm"
	for i := 0; i < BoardRowCount(len(board.Departures), limit, dropLast); i++ {
		f := board.Departures[i]
		destination := f.Destination
		if f.DestinationCity != "" {
			destination = fmt.Sprintf("%s (%s)", f.DestinationCity, f.Destination)
		}
		status := f.Status
		if status == "" {
			status = NotAvailable
		}
		body.Add(card.HBox(
			&card.Text{Text: EpochClock(LayoutClock, f.DepSchdLOC, false), Size: "xxs", Flex: card.Flex(2)},
			&card.Text{Text: f.FlightNo, Size: "xxs", Weight: "bold", Flex: card.Flex(3)},
			&card.Text{Text: destination, Size: "xxs", Wrap: true, Flex: card.Flex(4)},
			&card.Text{Text: status, Size: "xxs", Align: "end", Flex: card.Flex(3)},
		))
	}

	return &card.Bubble{Header: header, Body: body}
}
