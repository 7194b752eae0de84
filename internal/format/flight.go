package format

import (
	"fmt"
	"strings"

	"github.com/naseer2426/skybot/internal/callback"
	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/provider/flight"
)

const (
	planeIconURL      = "https://i.ibb.co/mvg5f11/travel-icon-38032.png"
	aircraftImageURL  = "https://flightstat.planefinder.net/v1/getImage.php?airlineCode=%s&aircraftType=%s"
	airlineLogoURL    = "https://flightstat.planefinder.net/v2/getLogo3x.php?airlineCode=%s&requestThumb=0&hex=%s"
	arrivalDayNext    = "Next day"
	flightTextColor   = "#383838"
	flightDetailColor = "#545454"

	// RoutePageSize is the number of flights listed per carousel page.
	RoutePageSize = 5
)

func flightHero(meta *flight.Metadata) *card.Image {
	if len(meta.Photos) > 0 {
		return &card.Image{URL: meta.Photos[0].ThumbnailPath, Size: "full", AspectRatio: "1.51:1", AspectMode: "cover"}
	}
	return &card.Image{
		URL:             fmt.Sprintf(aircraftImageURL, meta.AircraftData.AirlineICAO, meta.AircraftData.TypeCode),
		Size:            "full",
		AspectRatio:     "1.91:1",
		AspectMode:      "fit",
		BackgroundColor: "#5290CC",
	}
}

func labelled(label, value string) *card.Box {
	return card.VBox(
		&card.Text{Text: label, Size: "xs"},
		&card.Text{Text: value, Size: "xs", Color: flightDetailColor},
	)
}

func seats(v any) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprint(v)
}

// FlightCard renders route, schedule, aircraft and departure details of a
// tracked flight.
func FlightCard(flightNo, adshex string, meta *flight.Metadata) *card.Bubble {
	fd, ad, sd := meta.FlightData, meta.AircraftData, meta.StatusData
	dep, arr := fd.DepartureApt, fd.ArrivalApt

	departure := card.VBox(
		&card.Text{Text: meta.AirportDetail[dep].AirportCity, Align: "start", Gravity: "top", Wrap: true},
		&card.Text{Text: dep, Size: "xxl"},
	)
	departure.Flex = card.Flex(1)
	route := card.HBox(
		departure,
		&card.Image{URL: planeIconURL, Size: "xs", BackgroundColor: "#FFFFFF"},
		card.VBox(
			&card.Text{Text: meta.AirportDetail[arr].AirportCity, Align: "end", Gravity: "top", Wrap: true},
			&card.Text{Text: arr, Size: "xxl", Align: "end", Weight: "regular", Wrap: true},
		),
	)

	details := card.VBox(route, &card.Separator{})
	details.Spacing = "md"

	if sd.DepSchdLOC != nil {
		var arrival int64
		if sd.ArrSchdLOC != nil {
			arrival = *sd.ArrSchdLOC
		}
		details.Add(
			card.VBox(
				card.HBox(
					&card.Text{Text: "Departure", Flex: card.Flex(1), Size: "xs"},
					&card.Text{Text: "Arrival", Size: "xs", Align: "end"},
				),
				card.HBox(
					&card.Text{Text: EpochClock(LayoutClockMeridiem, *sd.DepSchdLOC, false), Size: "xs", Weight: "bold"},
					&card.Text{Text: EpochClock(LayoutClockMeridiem, arrival, fd.ArrivalDay == arrivalDayNext), Size: "xs", Align: "end", Weight: "bold"},
				),
				card.HBox(
					&card.Text{Text: UTCOffset(sd.DepOffset), Size: "xs"},
					&card.Text{Text: UTCOffset(sd.ArrOffset), Size: "xs", Align: "end"},
				),
			),
			&card.Separator{},
		)
	}

	aircraft := card.VBox(
		&card.Text{Text: "Aircraft Type", Size: "xs"},
		&card.Text{Text: fmt.Sprintf("%s (%s)", ad.AircraftFullType, ad.AircraftAgeString), Size: "xs", Color: flightDetailColor},
		&card.Text{Text: "Seats: " + seats(fd.Seats), Size: "xs", Color: flightDetailColor},
	)
	aircraft.Flex = card.Flex(5)

	codeshares := NotAvailable
	if fd.Codeshares != nil {
		codeshares = strings.Join(fd.Codeshares, " / ")
	}

	details.Add(
		card.HBox(aircraft, &card.Image{URL: fmt.Sprintf(airlineLogoURL, ad.AirlineICAO, adshex), Size: "xs"}),
		&card.Separator{},
		card.HBox(
			labelled("Terminal", orNA(fd.DepartureTerminal)),
			labelled("Gate", orNA(fd.DepartureGate)),
			labelled("Travel Time", fd.JourneyTime),
		),
		&card.Separator{},
		labelled("Code Share", codeshares),
	)

	return &card.Bubble{
		Direction: "ltr",
		Header: card.VBox(&card.Text{
			Text:   strings.ToUpper(fmt.Sprintf("%s - %s", flightNo, ad.Operator)),
			Size:   "sm",
			Wrap:   true,
			Align:  "center",
			Weight: "bold",
			Color:  flightTextColor,
		}),
		Hero: flightHero(meta),
		Body: card.VBox(details),
	}
}

// RouteCarousel pages the flights of a route, RoutePageSize per page and at
// most MaxCarouselPages pages. Tapping a flight asks for its details.
func RouteCarousel(origin, destination string, flights []flight.RouteFlight) *card.Carousel {
	pages := (len(flights) + RoutePageSize - 1) / RoutePageSize
	pages = minInt(pages, MaxCarouselPages)

	carousel := &card.Carousel{}
	for p := 0; p < pages; p++ {
		start := p * RoutePageSize
		end := minInt(start+RoutePageSize, len(flights))

		body := card.VBox()
		body.Spacing = "md"
		for i, f := range flights[start:end] {
			if i > 0 {
				body.Add(&card.Separator{})
			}
			info := card.VBox(
				&card.Text{Text: f.FlightNo, Size: "sm", Weight: "bold"},
				&card.Text{Text: f.Airline, Size: "xxs", Color: "#999999", Wrap: true},
			)
			info.Flex = card.Flex(3)
			row := card.HBox(
				info,
				&card.Text{
					Text:    fmt.Sprintf("%s - %s", EpochClock(LayoutClock, f.DepSchdLOC, false), EpochClock(LayoutClock, f.ArrSchdLOC, false)),
					Size:    "xs",
					Align:   "end",
					Gravity: "center",
					Flex:    card.Flex(3),
				},
			)
			row.Action = card.PostbackAction(f.FlightNo, callback.Value(callback.RouteFlightInfo, f.FlightNo))
			body.Add(row)
		}

		carousel.Contents = append(carousel.Contents, &card.Bubble{
			Header: card.VBox(
				&card.Text{Text: fmt.Sprintf("%s → %s", origin, destination), Weight: "bold", Align: "center", Color: flightTextColor},
				&card.Text{Text: fmt.Sprintf("Page %d of %d", p+1, pages), Size: "xxs", Align: "center", Color: "#999999"},
			),
			Body: body,
		})
	}
	return carousel
}
