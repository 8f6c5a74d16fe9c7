// Package mailbox reads saved portal notification mails from an inbox
// directory and extracts listing references from them. Each file is one
// message; handled files move to a processed subdirectory so a rerun never
// reads them again.
package mailbox

import (
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cejezed/kavelarchitect/models"
)

var (
	// Detail URLs carry the numeric listing id as the last path segment.
	detailURLRe = regexp.MustCompile(`(?i)https?://(?:www\.)?funda\.nl/(?:detail/koop|koop)/[^\s"'()<>]+/\d+/?`)
	priceRe     = regexp.MustCompile(`€\s?[\d\.\,]+`)
	surfaceRe   = regexp.MustCompile(`(?i)(\d{2,5})\s?m(?:²|2\b)`)

	// "te koop in Landsmeer" / "bouwkavel te Ede"
	placeRes = []*regexp.Regexp{
		regexp.MustCompile(`\bin\s+([A-Z][\wÀ-ÿ\-\s]+)`),
		regexp.MustCompile(`\bte\s+([A-Z][\wÀ-ÿ\-\s]+)`),
	}

	titleCaser = cases.Title(language.Dutch)
)

// Message is one saved notification mail.
type Message struct {
	Path     string
	Listings []models.ListingReference
}

type Mailbox struct {
	cfg    models.MailboxConfig
	logger *slog.Logger
}

func New(cfg models.MailboxConfig, logger *slog.Logger) *Mailbox {
	return &Mailbox{cfg: cfg, logger: logger}
}

// Messages reads the inbox directory and returns the parsed messages, oldest
// file name first, capped at the configured maximum. Unreadable files are
// logged and skipped.
func (m *Mailbox) Messages() ([]Message, error) {
	entries, err := os.ReadDir(m.cfg.InboxDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".htm", ".txt":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if m.cfg.MaxMessages > 0 && len(names) > m.cfg.MaxMessages {
		names = names[:m.cfg.MaxMessages]
	}

	var messages []Message
	for _, name := range names {
		path := filepath.Join(m.cfg.InboxDir, name)
		text, err := readMessageText(path)
		if err != nil {
			// One bad file must not stop the rest of the inbox.
			m.logger.Warn("skipping unreadable message", "file", path, "error", err)
			continue
		}
		messages = append(messages, Message{
			Path:     path,
			Listings: ExtractListings(text),
		})
	}
	return messages, nil
}

// MarkProcessed moves the message file into the processed directory.
func (m *Mailbox) MarkProcessed(msg Message) error {
	if err := os.MkdirAll(m.cfg.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create processed dir: %w", err)
	}
	dest := filepath.Join(m.cfg.ProcessedDir, filepath.Base(msg.Path))
	if err := os.Rename(msg.Path, dest); err != nil {
		return fmt.Errorf("failed to move processed message: %w", err)
	}
	return nil
}

func readMessageText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
		if err != nil {
			return "", fmt.Errorf("failed to parse message HTML: %w", err)
		}
		// Keep line breaks: the place heuristic truncates at the first one.
		// Link targets are appended since notification mails carry the detail
		// URL in the href, not in the visible text.
		var b strings.Builder
		b.WriteString(strings.TrimSpace(doc.Text()))
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok {
				b.WriteString("\n")
				b.WriteString(href)
			}
		})
		return b.String(), nil
	default:
		return html.UnescapeString(string(data)), nil
	}
}

// ExtractListings finds all detail URLs in the message text and attaches the
// sidecar fields (price, surface, place) that appear in the same mail.
func ExtractListings(text string) []models.ListingReference {
	seen := map[string]bool{}
	var urls []string
	for _, raw := range detailURLRe.FindAllString(text, -1) {
		u := canonical(raw)
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	sort.Strings(urls)

	price := priceRe.FindString(text)
	surface := ""
	if m := surfaceRe.FindStringSubmatch(text); m != nil {
		surface = m[1] + " m²"
	}
	placeFromText := findPlace(text)

	refs := make([]models.ListingReference, 0, len(urls))
	for _, u := range urls {
		place := placeFromText
		if place == "" {
			place = placeFromURL(u)
		}
		refs = append(refs, models.ListingReference{
			URL:     u,
			Place:   place,
			Price:   price,
			Surface: surface,
		})
	}
	return refs
}

// canonical strips query, fragment, the trailing slash and the punctuation a
// URL picks up when it sits at the end of a sentence.
func canonical(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	return strings.TrimRight(u, ").,]>")
}

func findPlace(text string) string {
	for _, re := range placeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			place := strings.TrimSpace(m[1])
			if i := strings.IndexByte(place, '\n'); i >= 0 {
				place = place[:i]
			}
			return place
		}
	}
	return ""
}

func placeFromURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) >= 5 && parts[0] == "detail" && parts[1] == "koop" {
		return titleCaser.String(strings.ReplaceAll(parts[2], "-", " "))
	}
	if len(parts) >= 4 && parts[0] == "koop" {
		return titleCaser.String(strings.ReplaceAll(parts[1], "-", " "))
	}
	return ""
}
