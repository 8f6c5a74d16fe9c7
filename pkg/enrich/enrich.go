// Package enrich asks an AI search model to read a listing page and return
// structured facts plus SEO copy as strict JSON. The whole package is
// best-effort: a failing request or unparseable answer yields empty
// candidates, never a pipeline error.
package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pemistahl/lingua-go"

	"github.com/cejezed/kavelarchitect/models"
)

// jsonObjectRe locates the JSON object inside a chat answer that wraps it in
// prose or a code fence.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// ContextProvider supplies page body text to ground the prompt, typically the
// scrape collaborator's readability extraction.
type ContextProvider func(url string) (string, error)

// Client talks to a chat-completions API (Perplexity wire shape).
type Client struct {
	cfg      models.EnrichmentConfig
	client   *http.Client
	context  ContextProvider
	detector lingua.LanguageDetector
}

func NewClient(cfg models.EnrichmentConfig, context ContextProvider) *Client {
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		context: context,
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Dutch, lingua.English, lingua.German, lingua.French).
			Build(),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Enrich reads the listing page through the model and returns the candidate
// field map. Missing fields are simply absent from the map.
func (c *Client) Enrich(url string) (map[string]string, error) {
	pageContext := ""
	if c.cfg.UsePageContext && c.context != nil {
		if text, err := c.context(url); err == nil {
			pageContext = text
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Temperature: 0.3,
		TopP:        0.9,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(url, pageContext)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat request failed, status code: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return map[string]string{}, nil
	}

	fields := c.parseContent(parsed.Choices[0].Message.Content)
	c.applyLanguageGate(fields)
	return fields, nil
}

// parseContent extracts the JSON object from the answer text and flattens it
// into a string field map. Nulls are dropped, numbers are formatted, nested
// coordinates become lat/lon fields.
func (c *Client) parseContent(content string) map[string]string {
	fields := map[string]string{}

	jsonText := jsonObjectRe.FindString(content)
	if jsonText == "" && strings.Contains(content, "```") {
		for _, part := range strings.Split(content, "```") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "json") {
				jsonText = strings.TrimSpace(strings.TrimPrefix(part, "json"))
				break
			}
			if strings.HasPrefix(part, "{") {
				jsonText = part
				break
			}
		}
	}
	if jsonText == "" {
		return fields
	}

	raw := map[string]any{}
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return fields
	}

	for key, value := range raw {
		if key == "coordinates" {
			if coords, ok := value.(map[string]any); ok {
				if lat, ok := asString(coords["lat"]); ok {
					fields[models.FieldLat] = lat
				}
				if lon, ok := asString(coords["lon"]); ok {
					fields[models.FieldLon] = lon
				}
			}
			continue
		}
		if s, ok := asString(value); ok && s != "" {
			fields[key] = s
		}
	}
	return fields
}

// applyLanguageGate drops generated long copy that is not Dutch, leaving the
// renderer to fall back to the summary.
func (c *Client) applyLanguageGate(fields map[string]string) {
	article := fields[models.FieldArticle]
	if article == "" {
		return
	}
	text := strings.TrimSpace(tagRe.ReplaceAllString(article, " "))
	if text == "" {
		return
	}
	if lang, ok := c.detector.DetectLanguageOf(text); ok && lang != lingua.Dutch {
		delete(fields, models.FieldArticle)
	}
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
