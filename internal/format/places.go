package format

import (
	"strconv"
	"time"

	"github.com/naseer2426/skybot/internal/card"
	"github.com/naseer2426/skybot/internal/provider/places"
)

const (
	starIconURL = "https://scdn.line-apps.com/n/channel_devcenter/img/fx/review_gold_star_28.png"
	reactionURL = "https://media.giphy.com/media/5Wi5ydRYRM28q9Gvyv/giphy.gif"
)

func hhmm(t string) string {
	if len(t) != 4 {
		return t
	}
	return t[:2] + ":" + t[2:]
}

// OperatingHours describes today's opening hours of a place. The day of
// week is taken from now.
func OperatingHours(h *places.OpeningHours, now time.Time) string {
	if h == nil {
		return NotAvailable
	}
	if !h.OpenNow {
		return "Closed Today"
	}
	today := int(now.Weekday())
	for _, p := range h.Periods {
		if p.Open == nil || p.Open.Day != today {
			continue
		}
		if p.Close == nil {
			return "24 Hours"
		}
		return hhmm(p.Open.Time) + " - " + hhmm(p.Close.Time)
	}
	return NotAvailable
}

func detailRow(label, value string, action *card.Action) *card.Box {
	row := card.BaselineBox(
		&card.Text{Text: label, Color: "#aaaaaa", Size: "sm", Flex: card.Flex(1)},
		&card.Text{Text: value, Wrap: true, Color: "#666666", Size: "sm", Flex: card.Flex(5), Action: action},
	)
	row.Spacing = "sm"
	return row
}

// PlacesCarousel renders one bubble per place.
func PlacesCarousel(list []places.Place, now time.Time) *card.Carousel {
	carousel := &card.Carousel{}
	for _, p := range list {
		title := card.BaselineBox(
			&card.Icon{URL: p.Icon},
			&card.Text{Text: p.Name, Weight: "bold", Size: "lg", Wrap: true},
		)
		title.Spacing = "md"
		body := card.VBox(title)

		if p.Rating != nil {
			rating := card.BaselineBox()
			rating.Margin = "md"
			for i := 0; i < *p.Rating; i++ {
				rating.Add(&card.Icon{URL: starIconURL, Size: "sm"})
			}
			rating.Add(&card.Text{Text: strconv.Itoa(*p.Rating), Size: "sm", Color: "#999999", Margin: "md", Flex: card.Flex(0)})
			body.Add(rating)
		}

		var addressAction *card.Action
		if p.AddressURL != "" {
			addressAction = card.URIAction("", p.AddressURL)
		}
		body.Add(
			detailRow("Place", p.Address, addressAction),
			detailRow("Time", OperatingHours(p.OpeningHours, now), nil),
		)

		bubble := &card.Bubble{
			Hero: &card.Image{URL: p.PhotoURL, Size: "full", AspectRatio: "20:13", AspectMode: "cover"},
			Body: body,
		}
		if p.Website != "" {
			bubble.Footer = card.VBox(&card.Button{Style: "link", Height: "sm", Action: card.URIAction("Website", p.Website)})
		}
		carousel.Contents = append(carousel.Contents, bubble)
	}
	return carousel
}

// ReactionCard is the animated reply to the eye-roll keyword.
func ReactionCard() *card.Bubble {
	return &card.Bubble{
		Hero: &card.Image{URL: reactionURL, Size: "full", AspectRatio: "1:1", AspectMode: "cover"},
	}
}
