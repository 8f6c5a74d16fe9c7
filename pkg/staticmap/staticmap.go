// Package staticmap renders a location map image for a listing via the
// Geoapify static maps API and stores it on disk for the media upload.
package staticmap

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cejezed/kavelarchitect/models"
)

const defaultBaseURL = "https://maps.geoapify.com/v1/staticmap"

// Client downloads static map PNGs. A missing API key disables the client
// rather than failing the pipeline.
type Client struct {
	cfg     models.MapsConfig
	baseURL string
	client  *http.Client
}

func NewClient(cfg models.MapsConfig) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchMap downloads a map centred on the coordinates and returns the local
// file path. Returns "" without error when the client is disabled or the
// coordinates are the (0,0) sentinel. The marker variant is tried first; some
// key tiers reject the marker parameter, so a marker-less request is the
// fallback.
func (c *Client) FetchMap(lat, lon float64) (string, error) {
	if c.cfg.APIKey == "" {
		return "", nil
	}
	if math.Abs(lat) < 1e-6 && math.Abs(lon) < 1e-6 {
		return "", nil
	}

	width, height := parseSize(c.cfg.Size)
	center := fmt.Sprintf("lonlat:%f,%f", lon, lat)

	common := fmt.Sprintf("%s?style=osm-bright&width=%d&height=%d&center=%s&zoom=%d&format=png&apiKey=%s",
		c.baseURL, width, height, center, c.cfg.Zoom, c.cfg.APIKey)
	markerURL := common + fmt.Sprintf("&marker=%s;color:%%23ff6f00;size:medium", center)

	outPath := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("map_%.5f_%.5f.png", lat, lon))

	var lastErr error
	for i, url := range []string{markerURL, common} {
		if err := c.download(url, outPath); err != nil {
			lastErr = err
			if i == 0 {
				time.Sleep(500 * time.Millisecond)
			}
			continue
		}
		return outPath, nil
	}
	return "", fmt.Errorf("static map download failed: %w", lastErr)
}

func (c *Client) download(url, outPath string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build map request: %w", err)
	}
	req.Header.Set("User-Agent", "KavelArchitectBot/0.1 (+contact)")
	req.Header.Set("Accept", "image/png,image/*;q=0.8,*/*;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("map request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("map request failed, status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read map response: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create maps dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	return nil
}

// parseSize splits "800x500" into width and height, falling back to the
// defaults on malformed input.
func parseSize(size string) (int, int) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) == 2 {
		w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
		h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 800, 500
}
