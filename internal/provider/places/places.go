package places

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

const (
	// MaxPlaces caps how many nearby results get details and a photo.
	MaxPlaces = 7
	// TypeAll searches without a type filter.
	TypeAll = "all"

	PhotoUnavailableURL = "https://s.yimg.com/pw/images/en-us/photo_unavailable.png"
)

type OpenClose struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

type Period struct {
	Open  *OpenClose `json:"open"`
	Close *OpenClose `json:"close"`
}

type OpeningHours struct {
	OpenNow bool     `json:"open_now"`
	Periods []Period `json:"periods"`
}

// Place is a nearby result merged with its details and a served photo URL.
type Place struct {
	ID           string
	Name         string
	Icon         string
	Address      string
	AddressURL   string
	Website      string
	Types        []string
	Rating       *int
	OpeningHours *OpeningHours
	PhotoURL     string
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
		Name    string `json:"name"`
		Photos  []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string        `json:"name"`
		Icon             string        `json:"icon"`
		FormattedAddress string        `json:"formatted_address"`
		URL              string        `json:"url"`
		Website          string        `json:"website"`
		Types            []string      `json:"types"`
		Rating           *float64      `json:"rating"`
		OpeningHours     *OpeningHours `json:"opening_hours"`
	} `json:"result"`
}

type Client struct {
	cfg           config.Places
	client        *resty.Client
	photoDir      string
	publicBaseURL string
	logger        *slog.Logger
}

// NewClient builds a places client. Photos are stored under
// <staticDir>/tmp and served from <publicBaseURL>/static/tmp.
func NewClient(cfg config.Places, staticDir, publicBaseURL string, logger *slog.Logger) *Client {
	return &Client{
		cfg:           cfg,
		client:        provider.NewClient(cfg.APIHost),
		photoDir:      filepath.Join(staticDir, "tmp"),
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Nearby lists up to MaxPlaces places around a location. placeType may be
// empty or TypeAll to search every type.
func (c *Client) Nearby(requestID string, lat, lng float64, placeType string) ([]Place, error) {
	req := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(map[string]string{
			"location": fmt.Sprintf("%s,%s", strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lng, 'f', -1, 64)),
			"radius":   strconv.Itoa(c.cfg.Radius),
			"language": c.cfg.Language,
			"key":      c.cfg.APIKey,
		})
	if placeType != "" && placeType != TypeAll {
		req.SetQueryParam("type", placeType)
	}
	var body nearbyResponse
	resp, err := req.SetResult(&body).Get("/maps/api/place/nearbysearch/json")
	if err != nil {
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	if err := provider.CheckStatus("places", resp); err != nil {
		return nil, err
	}
	if body.Status != "OK" {
		return nil, provider.NotFound("places near %v,%v (status %s)", lat, lng, body.Status)
	}

	var places []Place
	for _, result := range body.Results {
		if len(places) >= MaxPlaces {
			break
		}
		place, err := c.details(requestID, result.PlaceID)
		if err != nil {
			return nil, err
		}
		place.PhotoURL = PhotoUnavailableURL
		if len(result.Photos) > 0 {
			url, err := c.photo(requestID, result.Photos[0].PhotoReference, result.PlaceID)
			if err != nil {
				c.logger.Warn("place photo download failed", "request_id", requestID, "place_id", result.PlaceID, "error", err)
			} else {
				place.PhotoURL = url
			}
		}
		places = append(places, *place)
	}
	return places, nil
}

func (c *Client) details(requestID, placeID string) (*Place, error) {
	var body detailsResponse
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(map[string]string{
			"placeid":  placeID,
			"language": c.cfg.Language,
			"key":      c.cfg.APIKey,
		}).
		SetResult(&body).
		Get("/maps/api/place/details/json")
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}
	if err := provider.CheckStatus("place details", resp); err != nil {
		return nil, err
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("place details for %s returned status %s", placeID, body.Status)
	}
	r := body.Result
	place := &Place{
		ID:           placeID,
		Name:         r.Name,
		Icon:         r.Icon,
		Address:      r.FormattedAddress,
		AddressURL:   r.URL,
		Website:      r.Website,
		Types:        r.Types,
		OpeningHours: r.OpeningHours,
	}
	if r.Rating != nil {
		rating := int(*r.Rating)
		place.Rating = &rating
	}
	return place, nil
}

// photo downloads a place photo once and returns its public URL.
func (c *Client) photo(requestID, ref, placeID string) (string, error) {
	if !provider.SafeName(placeID) {
		return "", fmt.Errorf("unusable place id %q", placeID)
	}
	name := placeID + ".jpg"
	path := filepath.Join(c.photoDir, name)
	url := c.publicBaseURL + "/static/tmp/" + name
	if _, err := os.Stat(path); err == nil {
		return url, nil
	}
	if err := os.MkdirAll(c.photoDir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	resp, err := c.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(map[string]string{
			"maxwidth":       strconv.Itoa(c.cfg.PhotoMaxWidth),
			"photoreference": ref,
			"key":            c.cfg.APIKey,
		}).
		SetOutput(path).
		Get("/maps/api/place/photo")
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("place photo request failed: %w", err)
	}
	if err := provider.CheckStatus("place photo", resp); err != nil {
		os.Remove(path)
		return "", err
	}
	return url, nil
}
