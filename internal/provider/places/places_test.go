package places

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, nearbyStatus string, results int) (*Client, string, *int) {
	t.Helper()
	photoCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/maps/api/place/nearbysearch/json":
			if r.URL.Query().Get("type") == TypeAll {
				t.Errorf("type=all must not be sent upstream")
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status":%q,"results":[`, nearbyStatus)
			for i := 0; i < results; i++ {
				if i > 0 {
					w.Write([]byte(","))
				}
				if i == 0 {
					fmt.Fprintf(w, `{"place_id":"p%d","photos":[{"photo_reference":"ref%d"}]}`, i, i)
				} else {
					fmt.Fprintf(w, `{"place_id":"p%d"}`, i)
				}
			}
			w.Write([]byte("]}"))
		case "/maps/api/place/details/json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status":"OK","result":{"name":"Cafe %s","formatted_address":"1 Road","url":"https://maps.example/%s","rating":4.6}}`,
				r.URL.Query().Get("placeid"), r.URL.Query().Get("placeid"))
		case "/maps/api/place/photo":
			photoCalls++
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegdata"))
		}
	}))
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	cfg := config.Places{APIHost: srv.URL, APIKey: "k", Language: "en", Radius: 100, PhotoMaxWidth: 640}
	return NewClient(cfg, dir, "https://bot.example.com", testLogger()), dir, &photoCalls
}

func TestNearby_CapsAndEnriches(t *testing.T) {
	c, dir, photoCalls := newTestClient(t, "OK", 10)
	places, err := c.Nearby("req-1", 13.75, 100.5, TypeAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != MaxPlaces {
		t.Fatalf("expected %d places, got %d", MaxPlaces, len(places))
	}
	first := places[0]
	if first.Name != "Cafe p0" || first.Rating == nil || *first.Rating != 4 {
		t.Errorf("unexpected first place %+v", first)
	}
	if first.PhotoURL != "https://bot.example.com/static/tmp/p0.jpg" {
		t.Errorf("unexpected photo url %s", first.PhotoURL)
	}
	if places[1].PhotoURL != PhotoUnavailableURL {
		t.Errorf("expected fallback photo, got %s", places[1].PhotoURL)
	}
	data, err := os.ReadFile(filepath.Join(dir, "tmp", "p0.jpg"))
	if err != nil || string(data) != "jpegdata" {
		t.Errorf("photo not cached: %v %q", err, data)
	}

	if _, err := c.Nearby("req-2", 13.75, 100.5, "cafe"); err != nil {
		t.Fatal(err)
	}
	if *photoCalls != 1 {
		t.Errorf("cached photo should not be downloaded again, got %d calls", *photoCalls)
	}
}

func TestNearby_ZeroResults(t *testing.T) {
	c, _, _ := newTestClient(t, "ZERO_RESULTS", 0)
	_, err := c.Nearby("req-1", 13.75, 100.5, "")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPhoto_RejectsUnsafePlaceID(t *testing.T) {
	c, dir, photoCalls := newTestClient(t, "OK", 0)
	if _, err := c.photo("req-1", "ref0", "../../escape"); err == nil {
		t.Fatal("expected error for unsafe place id")
	}
	if *photoCalls != 0 {
		t.Errorf("unsafe place id must not be downloaded, got %d calls", *photoCalls)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.jpg")); !os.IsNotExist(err) {
		t.Error("unexpected file outside the photo dir")
	}
}
