package flight

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(config.Flight{APIHost: srv.URL}, testLogger())
	c.now = func() time.Time { return time.UnixMilli(1544007000123) }
	return c
}

func TestLatestFlight(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("_") != "1544007000123" {
			t.Errorf("expected cache-busting millis, got %s", r.URL.RawQuery)
		}
		switch r.URL.Query().Get("fn") {
		case "TG123":
			w.Write([]byte(`{"flights":[{"flight_number":"TG123","adshex":"8841A2"},{"flight_number":"TG123","adshex":"000000"}]}`))
		case "XX1":
			w.Write([]byte(`{"flights":false}`))
		default:
			w.Write([]byte(`{"flights":[]}`))
		}
	})

	flight, err := c.LatestFlight("req-1", "TG123")
	if err != nil {
		t.Fatal(err)
	}
	if flight.Adshex != "8841A2" {
		t.Errorf("expected first flight, got %+v", flight)
	}
	for _, no := range []string{"XX1", "YY2"} {
		if _, err := c.LatestFlight("req-1", no); !errors.Is(err, provider.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", no, err)
		}
	}
}

func TestMetadata(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("r") != "aircraftMetadata" || q.Get("adshex") != "8841A2" || q.Get("isPoll") != "0" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("flightno") == "BAD" {
			w.Write([]byte(`{"success":false}`))
			return
		}
		w.Write([]byte(`{"success":true,"payload":{
			"flightData":{"departureApt":"BKK","arrivalApt":"NRT","departureTerminal":null,"seats":"264"},
			"aircraftData":{"aicraftOperator":"Thai Airways"},
			"statusData":{"depSchdLOC":1544007000,"arrSchdLOC":null,"depOffset":25200,"arrOffset":32400}}}`))
	})

	meta, err := c.Metadata("req-1", "TG123", "8841A2")
	if err != nil {
		t.Fatal(err)
	}
	if meta.AircraftData.Operator != "Thai Airways" || meta.FlightData.DepartureTerminal != nil {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.StatusData.DepSchdLOC == nil || *meta.StatusData.DepSchdLOC != 1544007000 || meta.StatusData.ArrSchdLOC != nil {
		t.Errorf("unexpected status data %+v", meta.StatusData)
	}

	if _, err := c.Metadata("req-1", "BAD", "8841A2"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestByRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("origin") == "BKK" {
			w.Write([]byte(`{"success":true,"payload":[{"flightNo":"TG640","airline":"Thai Airways"}]}`))
			return
		}
		w.Write([]byte(`{"success":true,"payload":[]}`))
	})
	flights, err := c.ByRoute("req-1", "BKK", "NRT")
	if err != nil || len(flights) != 1 {
		t.Fatalf("unexpected result %v %v", flights, err)
	}
	if _, err := c.ByRoute("req-1", "AAA", "BBB"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAirportLookups(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("r") {
		case "search":
			w.Write([]byte(`{"success":true,"payload":[{"title":"Suvarnabhumi International","url":"/data/airport/BKK"}]}`))
		case "airportName":
			if q.Get("code") == "BKK" {
				w.Write([]byte(`{"success":true,"payload":{"name":"Suvarnabhumi"}}`))
				return
			}
			w.Write([]byte(`{"success":false}`))
		case "airportBoard":
			w.Write([]byte(`{"success":true,"payload":{"name":"Suvarnabhumi","departures":[{"flightNo":"TG640"}]}}`))
		}
	})

	results, err := c.SearchAirports("req-1", "bangkok")
	if err != nil || len(results) != 1 {
		t.Fatalf("unexpected search result %v %v", results, err)
	}
	name, err := c.AirportName("req-1", "BKK")
	if err != nil || name != "Suvarnabhumi" {
		t.Fatalf("unexpected name %q %v", name, err)
	}
	if _, err := c.AirportName("req-1", "ZZZ"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	board, err := c.AirportBoard("req-1", "BKK")
	if err != nil {
		t.Fatal(err)
	}
	if board.Code != "BKK" || len(board.Departures) != 1 {
		t.Errorf("unexpected board %+v", board)
	}
}
