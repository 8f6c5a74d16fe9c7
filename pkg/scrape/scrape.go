// Package scrape is the page-scrape fallback collaborator: a plain HTTP GET
// plus cheap heuristics over the listing detail page. It fills the gaps the
// AI source leaves (typically address and province) and never pretends to be
// more than best-effort.
package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cejezed/kavelarchitect/models"
	"github.com/cejezed/kavelarchitect/pkg/fetcher"
)

var (
	priceRe   = regexp.MustCompile(`€\s?[\d\.\,]+`)
	surfaceRe = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d{3})+|\d{2,5})\s?m(?:²|2\b)`)
	postalRe  = regexp.MustCompile(`\b(\d{4}\s?[A-Z]{2})\b`)
	houseNrRe = regexp.MustCompile(`(\d+[-\w]*)/?$`)

	titleCaser = cases.Title(language.Dutch)
)

// Client scrapes listing detail pages.
type Client struct {
	fetcher *fetcher.Fetcher
}

func NewClient() *Client {
	return &Client{fetcher: fetcher.NewFetcher()}
}

// Scrape fetches the page and returns a candidate field map. Fields that
// could not be derived are simply absent.
func (c *Client) Scrape(rawURL string) (map[string]string, error) {
	doc, err := c.fetcher.GetHtml(rawURL)
	if err != nil {
		return nil, fmt.Errorf("scrape fetch failed: %w", err)
	}
	return extract(rawURL, doc), nil
}

// DescriptionText pulls the readable body text from the page, for use as
// context in the enrichment prompt.
func (c *Client) DescriptionText(rawURL string) (string, error) {
	body, err := c.fetcher.GetHtmlBytes(rawURL)
	if err != nil {
		return "", err
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

// extract runs the page heuristics. Split from Scrape so tests can feed
// documents directly.
func extract(rawURL string, doc *goquery.Document) map[string]string {
	fields := map[string]string{}

	text := normalizeSpace(doc.Text())

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		fields[models.FieldTitle] = title
	}
	if m := priceRe.FindString(text); m != "" {
		fields[models.FieldPrice] = m
	}
	if m := surfaceRe.FindStringSubmatch(text); m != nil {
		fields[models.FieldSurface] = strings.ReplaceAll(m[1], ".", "") + " m²"
	}

	// Place is usually in the H1: "Bouwgrond te koop: Plaats - Straat".
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		if i := strings.Index(h1, ":"); i >= 0 {
			h1 = strings.TrimSpace(h1[i+1:])
		}
		if i := strings.Index(h1, " - "); i >= 0 {
			h1 = strings.TrimSpace(h1[:i])
		}
		if h1 != "" {
			fields[models.FieldPlace] = h1
		}
	}

	addressFromPath(rawURL, fields)

	if m := postalRe.FindStringSubmatch(text); m != nil {
		fields[models.FieldPostalCode] = m[1]
	}

	if fields[models.FieldProvince] == "" {
		if p := ProvinceForPostalCode(fields[models.FieldPostalCode]); p != "" {
			fields[models.FieldProvince] = p
		} else if p := ProvinceForPlace(fields[models.FieldPlace]); p != "" {
			fields[models.FieldProvince] = p
		}
	}

	return fields
}

// addressFromPath parses place, street, house number and address out of the
// URL path: detail/koop/<place>/<slug>/<id> or koop/<place>/<slug>/<id>,
// with an optional "bouwgrond-" slug prefix.
func addressFromPath(rawURL string, fields map[string]string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	idx := 0
	if len(parts) > 0 && parts[0] == "detail" {
		idx = 1
	}
	if len(parts) <= idx+2 || parts[idx] != "koop" {
		return
	}
	placeSlug := parts[idx+1]
	streetSlug := strings.TrimPrefix(parts[idx+2], "bouwgrond-")

	if fields[models.FieldPlace] == "" {
		fields[models.FieldPlace] = titleCaser.String(strings.ReplaceAll(placeSlug, "-", " "))
	}

	if m := houseNrRe.FindStringSubmatch(streetSlug); m != nil {
		fields[models.FieldHouseNumber] = m[1]
		streetSlug = strings.TrimRight(streetSlug[:len(streetSlug)-len(m[0])], "-")
	}
	street := titleCaser.String(strings.TrimSpace(strings.ReplaceAll(streetSlug, "-", " ")))
	if street == "" {
		return
	}
	fields[models.FieldStreet] = street

	place := fields[models.FieldPlace]
	if place != "" {
		if hn := fields[models.FieldHouseNumber]; hn != "" {
			fields[models.FieldAddress] = fmt.Sprintf("%s %s, %s", street, hn, place)
		} else {
			fields[models.FieldAddress] = fmt.Sprintf("%s, %s", street, place)
		}
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
