// Package routemap renders great-circle route images and caches them under
// the static directory.
package routemap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

const (
	ResolutionOriginal = "720x360"
	ResolutionPreview  = "240x120"
)

type Generator struct {
	client        *resty.Client
	staticDir     string
	publicBaseURL string
	logger        *slog.Logger
}

func NewGenerator(cfg config.RouteMap, staticDir, publicBaseURL string, logger *slog.Logger) *Generator {
	return &Generator{
		client:        provider.NewClient(cfg.APIHost),
		staticDir:     staticDir,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Generate returns the public URL of the origin-destination map at the
// given "<width>x<height>" resolution, downloading it on first use.
func (g *Generator) Generate(requestID, origin, destination, resolution string) (string, error) {
	origin, destination = strings.ToUpper(origin), strings.ToUpper(destination)
	if !provider.SafeName(origin) || !provider.SafeName(destination) {
		return "", fmt.Errorf("invalid route %q-%q", origin, destination)
	}
	_, height, ok := strings.Cut(resolution, "x")
	if !ok || height == "" {
		return "", fmt.Errorf("invalid map resolution %q", resolution)
	}
	name := fmt.Sprintf("%s%s_%s.png", origin, destination, height)
	path := filepath.Join(g.staticDir, name)
	url := g.publicBaseURL + "/static/" + name

	if _, err := os.Stat(path); err == nil {
		g.logger.Debug("route map cached", "request_id", requestID, "file", path)
		return url, nil
	}
	if err := os.MkdirAll(g.staticDir, 0o755); err != nil {
		return "", fmt.Errorf("create static dir: %w", err)
	}

	resp, err := g.client.R().
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(map[string]string{
			"P":  origin + "-" + destination,
			"MS": "bm",
			"MR": "900",
			"MX": resolution,
			"PM": "*",
		}).
		SetOutput(path).
		Get("/map")
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("route map request failed: %w", err)
	}
	if err := provider.CheckStatus("route map", resp); err != nil {
		os.Remove(path)
		return "", err
	}
	return url, nil
}
