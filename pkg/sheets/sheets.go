// Package sheets forwards a one-line listing summary to a spreadsheet
// webhook. Strictly best-effort: every failure is logged and swallowed, the
// pipeline never depends on the webhook.
package sheets

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cejezed/kavelarchitect/models"
	"github.com/cejezed/kavelarchitect/pkg/render"
)

// Client posts to the configured webhook. A missing URL or token disables it.
type Client struct {
	cfg    models.WebhookConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewClient(cfg models.WebhookConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

type payload struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	Address  string `json:"address"`
	Place    string `json:"place"`
	Province string `json:"province"`
	Price    string `json:"price"`
	Surface  string `json:"surface"`
	URL      string `json:"url"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

type webhookResponse struct {
	Success   bool `json:"success"`
	Duplicate bool `json:"duplicate"`
}

// Notify posts one row. Returns whether the webhook acknowledged it.
func (c *Client) Notify(rec *models.EnrichmentRecord, url, status string) bool {
	if c.cfg.URL == "" || c.cfg.Token == "" {
		return false
	}

	price, surface := "", ""
	if rec.Price > 0 {
		price = render.FormatEuro(rec.Price)
	}
	if rec.Surface > 0 {
		surface = render.FormatSurface(rec.Surface)
	}

	body, err := json.Marshal(payload{
		Type:     "kavel",
		Token:    c.cfg.Token,
		Address:  rec.Address,
		Place:    rec.Place,
		Province: rec.Province,
		Price:    price,
		Surface:  surface,
		URL:      url,
		Date:     c.now().Format("2006-01-02"),
		Status:   status,
	})
	if err != nil {
		c.logger.Warn("sheets payload encode failed", "error", err)
		return false
	}

	resp, err := c.client.Post(c.cfg.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("sheets webhook unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("sheets webhook rejected row", "status_code", resp.StatusCode)
		return false
	}

	var parsed webhookResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			c.logger.Warn("sheets webhook response unreadable", "error", err)
			return false
		}
	}
	if !parsed.Success {
		c.logger.Warn("sheets webhook did not confirm", "status_code", resp.StatusCode)
		return false
	}
	if parsed.Duplicate {
		c.logger.Info("sheets row already present")
	}
	return true
}
