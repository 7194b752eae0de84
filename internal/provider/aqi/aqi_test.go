package aqi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, stationID string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-token") != "key" || r.Header.Get("x-aqi-index") != "us" {
			t.Errorf("missing provider headers: %v", r.Header)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v3/station/id":
			if r.URL.Query().Get("id") != "abc123" {
				w.Write([]byte(`{"status":"fail","data":{"message":"no station"}}`))
				return
			}
			w.Write([]byte(`{"status":"success","data":{
				"name":"Din Daeng","city":"Bangkok",
				"current_measurement":{"aqius":87},
				"current_weather":{"tp":31,"hu":66,"ws":2,"ic":"04d"},
				"forecasts_daily":[{"ts":"2018-12-06T00:00:00.000Z","aqius":90,"tp":33,"tp_min":24}]}}`))
		case "/api/v4/nearest":
			var body map[string]float64
			json.NewDecoder(r.Body).Decode(&body)
			if body["lat"] != 13.75 || body["lon"] != 100.5 {
				t.Errorf("unexpected nearest body %v", body)
			}
			w.Write([]byte(`{"status":"success","data":{"id":"abc123"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(config.AQI{APIHost: srv.URL, APIKey: "key", StationID: stationID, Timezone: "Asia/Bangkok"}, testLogger())
}

func TestCurrent_UsesDefaultStation(t *testing.T) {
	station, err := newTestClient(t, "abc123").Current("req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if station.ID != "abc123" {
		t.Errorf("station id should default to the requested id, got %q", station.ID)
	}
	if station.CurrentMeasurement.AQIUS != 87 {
		t.Errorf("expected aqi 87, got %d", station.CurrentMeasurement.AQIUS)
	}
	if station.CurrentWeather.TP.String() != "31" {
		t.Errorf("expected verbatim temperature, got %s", station.CurrentWeather.TP)
	}
	if len(station.ForecastsDaily) != 1 || station.ForecastsDaily[0].TS.Day() != 6 {
		t.Errorf("unexpected daily forecast %+v", station.ForecastsDaily)
	}
}

func TestCurrent_NoStationConfigured(t *testing.T) {
	if _, err := newTestClient(t, "").Current("req-1"); err == nil {
		t.Fatal("expected error without a default station")
	}
}

func TestStation_NotFound(t *testing.T) {
	_, err := newTestClient(t, "abc123").Station("req-1", "missing")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNearestStation(t *testing.T) {
	id, err := newTestClient(t, "").NearestStation("req-1", 13.75, 100.5)
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc123" {
		t.Errorf("expected abc123, got %s", id)
	}
}
