// Package geocode resolves address strings to coordinates via the Nominatim
// search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cejezed/kavelarchitect/models"
)

const userAgent = "KavelArchitectBot/0.1 (+contact)"

// Client queries a Nominatim-compatible endpoint. Requests are throttled to
// one per second, the usage policy for the public instance.
type Client struct {
	baseURL      string
	countryCodes string
	http         *http.Client
	limiter      *rate.Limiter
}

// NewClient builds a geocoder from config.
func NewClient(cfg models.GeocodeConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		countryCodes: cfg.CountryCodes,
		http:         &http.Client{Timeout: 20 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up the query and returns the best match. found is false when
// the provider has no result; err is reserved for transport failures.
func (c *Client) Geocode(query string) (lat, lon float64, found bool, err error) {
	if strings.TrimSpace(query) == "" {
		return 0, 0, false, nil
	}
	if err := c.limiter.Wait(context.Background()); err != nil {
		return 0, 0, false, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "0")
	params.Set("countrycodes", c.countryCodes)
	params.Set("accept-language", "nl")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to read geocode response: %w", err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, false, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, false, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false, fmt.Errorf("geocode response has malformed coordinates")
	}
	return lat, lon, true, nil
}

// NormalizeQuery strips tokens that confuse the geocoder: the Dutch "ong."
// (house number approximations) and "Onbekend" placeholders, then collapses
// whitespace.
func NormalizeQuery(q string) string {
	// " ong." before " ong": the shorter token would otherwise leave the dot.
	for _, token := range []string{" ong.", " ong", "Onbekend,", "onbekend,"} {
		q = strings.ReplaceAll(q, token, "")
	}
	q = strings.ReplaceAll(q, " ,", ",")
	return strings.Join(strings.Fields(q), " ")
}
