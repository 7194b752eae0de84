// Package format turns provider records into flex cards. Every function
// here is pure: the same record always yields the same card.
package format

import (
	"strconv"
	"strings"
	"time"
)

const (
	// MaxCarouselPages is the most bubbles a carousel reply carries.
	MaxCarouselPages = 7

	NotAvailable = "N/A"

	LayoutClockMeridiem = "15:04 PM"
	LayoutClock         = "15:04"
	LayoutDay           = "Mon, 02 Jan"

	msToKmh = 3.6
)

// EpochClock prints the absolute value of epoch as a UTC clock in layout,
// with " (+1)" appended for next-day times.
func EpochClock(layout string, epoch int64, nextDay bool) string {
	if epoch < 0 {
		epoch = -epoch
	}
	s := time.Unix(epoch, 0).UTC().Format(layout)
	if nextDay {
		s += " (+1)"
	}
	return s
}

// UTCOffset annotates an offset in seconds as UTC+HH:MM. Zero and negative
// offsets are both written with a minus sign.
func UTCOffset(offset int64) string {
	if offset > 0 {
		return "UTC+" + EpochClock(LayoutClock, offset, false)
	}
	return "UTC-" + EpochClock(LayoutClock, offset, false)
}

// KmhString converts m/s to km/h and prints it the way a float repr does:
// shortest form, always with a fractional part.
func KmhString(ms float64) string {
	s := strconv.FormatFloat(ms*msToKmh, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}
	return *s
}

func zone(offsetSeconds int) *time.Location {
	return time.FixedZone("", offsetSeconds)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
