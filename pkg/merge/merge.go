// Package merge combines candidate field values from multiple enrichment
// sources into one listing record.
//
// The caller supplies a ResultSet: an ordered list of (source, fields) pairs,
// highest priority first, with the discovery sidecar appended last. Making
// the order an explicit input keeps the merge policy testable instead of
// burying it in call order.
package merge

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cejezed/kavelarchitect/models"
)

// Candidate is one source's contribution: a name plus a loosely-typed field map.
type Candidate struct {
	Source string
	Fields map[string]string
}

// ResultSet is an ordered list of candidates, highest priority first.
type ResultSet []Candidate

// Phrases that mean the listing is gone. Matched case-insensitively against
// the long article, the short summary and the title of every candidate.
var unavailablePhrases = []string{
	"niet meer beschikbaar",
	"niet gevonden",
	"pagina niet gevonden",
	"verkocht",
	"verwijderd",
	"offline gehaald",
	"geen resultaten",
}

var digitsRe = regexp.MustCompile(`\d+`)

// First returns the first non-empty value for key, scanning candidates in
// priority order.
func (s ResultSet) First(key string) string {
	for _, c := range s {
		if v := strings.TrimSpace(c.Fields[key]); v != "" {
			return v
		}
	}
	return ""
}

// Amount returns the first candidate value for key that parses to a positive
// integer. A candidate that parses to zero or fails to parse is treated as
// absent and the next source is tried.
func (s ResultSet) Amount(key string) int {
	for _, c := range s {
		if n := ParseAmount(c.Fields[key]); n > 0 {
			return n
		}
	}
	return 0
}

// ParseAmount normalizes a numeric field value: currency symbols, thousands
// separators and unit suffixes (m², m2, "k.k.") are stripped before parsing.
// Dutch formatting uses "." as thousands separator and "," for cents; cents
// are dropped. Returns 0 when nothing parseable remains.
func ParseAmount(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, "€", "")
	v = strings.ReplaceAll(v, ".", "")
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	m := digitsRe.FindString(v)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Merge produces the listing record from the candidate set. Pure: no I/O,
// same inputs always give the same record.
func Merge(set ResultSet) *models.EnrichmentRecord {
	rec := &models.EnrichmentRecord{
		Place:            set.First(models.FieldPlace),
		Province:         set.First(models.FieldProvince),
		PostalCode:       set.First(models.FieldPostalCode),
		Street:           set.First(models.FieldStreet),
		HouseNumber:      set.First(models.FieldHouseNumber),
		Price:            set.Amount(models.FieldPrice),
		Surface:          set.Amount(models.FieldSurface),
		DescriptionShort: set.First(models.FieldDescriptionShort),
		Summary:          set.First(models.FieldSummary),
		Article:          set.First(models.FieldArticle),
		SEOTitle:         set.First(models.FieldTitle),
		FocusKeyword:     set.First(models.FieldFocusKeyword),
	}

	rec.Address = mergeAddress(set, rec)

	if phrase := findUnavailablePhrase(set); phrase != "" {
		rec.Unavailable = true
		rec.Phrase = phrase
	}

	return rec
}

// mergeAddress picks the best address. Candidate addresses that fail the
// quality check fall through to a street+number build and finally to a
// title-derived guess.
func mergeAddress(set ResultSet, rec *models.EnrichmentRecord) string {
	for _, c := range set {
		addr := strings.TrimSpace(c.Fields[models.FieldAddress])
		if addr != "" && !badAddress(addr, rec.Place) {
			return addr
		}
	}

	if rec.Street != "" {
		addr := rec.Street
		if rec.HouseNumber != "" {
			addr += " " + rec.HouseNumber
		}
		if rec.Place != "" {
			addr += ", " + rec.Place
		}
		return addr
	}

	// Last resort: a title that embeds the place name often is the address.
	if rec.Place != "" {
		if title := set.First(models.FieldTitle); title != "" &&
			strings.Contains(strings.ToLower(title), strings.ToLower(rec.Place)) {
			guess := replaceFold(title, rec.Place, "")
			guess = strings.Trim(guess, " ,-:")
			if guess != "" {
				return guess
			}
		}
	}
	return ""
}

// badAddress rejects an address that is empty, starts with a separator, or
// is so short relative to the place name that it is almost certainly just
// the place name repeated.
func badAddress(addr, place string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return true
	}
	if strings.HasPrefix(addr, ",") || strings.HasPrefix(addr, "-") {
		return true
	}
	if place != "" &&
		strings.Contains(strings.ToLower(addr), strings.ToLower(place)) &&
		len(addr) < len(place)+10 {
		return true
	}
	return false
}

func findUnavailablePhrase(set ResultSet) string {
	for _, c := range set {
		blob := strings.ToLower(strings.Join([]string{
			c.Fields[models.FieldArticle],
			c.Fields[models.FieldSummary],
			c.Fields[models.FieldTitle],
		}, "\n"))
		for _, phrase := range unavailablePhrases {
			if strings.Contains(blob, phrase) {
				return phrase
			}
		}
	}
	return ""
}

// replaceFold removes every case-insensitive occurrence of old from s.
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	lower := strings.ToLower(s)
	lowerOld := strings.ToLower(old)
	var b strings.Builder
	for {
		i := strings.Index(lower, lowerOld)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s = s[i+len(old):]
		lower = lower[i+len(lowerOld):]
	}
}
