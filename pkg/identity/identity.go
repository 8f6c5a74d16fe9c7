// Package identity derives the stable dedup key for a listing URL.
//
// Two references count as the same listing when their normalized URLs match,
// or when both carry the same numeric listing ID. The ID wins over URL shape:
// portals occasionally reshuffle slugs while the object number stays put.
package identity

import (
	"net/url"
	"regexp"
	"strings"
)

// Listing object numbers are the last long numeric path segment, usually 7-8
// digits, e.g. .../bouwgrond-noordeinde-6/43107703 -> "43107703".
var listingIDRe = regexp.MustCompile(`/(\d{6,})/?$`)

// Identity is the canonical dedup key for a listing reference.
type Identity struct {
	NormalizedURL string
	ListingID     string // empty for non-conforming URLs
}

// Normalize strips the query string, the fragment and one trailing slash.
// Case is preserved. Idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		// Unparseable input: strip query/fragment markers by hand.
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[:i]
		}
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimSuffix(raw, "/")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}

// ExtractListingID returns the numeric object number from a listing URL, or
// "" when the URL does not end in a long numeric path segment. Callers must
// treat "" as "URL-only identity".
func ExtractListingID(raw string) string {
	m := listingIDRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve normalizes the URL and extracts the listing ID in one step.
func Resolve(raw string) Identity {
	norm := Normalize(raw)
	return Identity{
		NormalizedURL: norm,
		ListingID:     ExtractListingID(norm),
	}
}
