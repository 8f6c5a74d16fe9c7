package pipeline

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cejezed/kavelarchitect/models"
)

// TitlePrefix is prepended to every published post title.
const TitlePrefix = "Nieuwe bouwgrond te koop: "

var titleCaser = cases.Title(language.Dutch)

// guessTitleFromURL reconstructs "Street, Place" from the detail-page path.
// Supported shapes: detail/koop/<place>/<slug>/<id> and koop/<place>/<slug>/<id>.
func guessTitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	var place, slug string
	switch {
	case len(parts) >= 5 && parts[0] == "detail" && parts[1] == "koop":
		place, slug = parts[2], parts[3]
	case len(parts) >= 4 && parts[0] == "koop":
		place, slug = parts[1], parts[2]
	default:
		return ""
	}

	slug = strings.TrimPrefix(slug, "bouwgrond-")
	street := titleCaser.String(strings.TrimSpace(strings.ReplaceAll(slug, "-", " ")))
	placeT := titleCaser.String(strings.TrimSpace(strings.ReplaceAll(place, "-", " ")))
	if street == "" || placeT == "" {
		return ""
	}
	return street + ", " + placeT
}

// displayTitle builds the post title: full address, then street+number+place,
// then a URL-derived guess, then a bare place fallback, each wrapped with the
// fixed prefix.
func displayTitle(rec *models.EnrichmentRecord, sourceURL string) string {
	var title string
	switch {
	case rec.Address != "":
		title = rec.Address
	case rec.Street != "" && (rec.HouseNumber != "" || rec.Place != ""):
		title = rec.Street
		if rec.HouseNumber != "" {
			title += " " + rec.HouseNumber
		}
		if rec.Place != "" {
			title += ", " + rec.Place
		}
	}
	if title == "" {
		title = guessTitleFromURL(sourceURL)
	}
	if title == "" {
		title = "Bouwgrond"
		if rec.Place != "" {
			title += " – " + rec.Place
		}
	}
	return TitlePrefix + title
}
