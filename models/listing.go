// Package models defines the data structures shared across the pipeline.
package models

// Candidate field keys used by enrichment sources and the merger.
// Sources emit loosely-typed string maps keyed by these names.
const (
	FieldTitle            = "title"
	FieldFocusKeyword     = "focus_keyword"
	FieldSEODescription   = "seo_description"
	FieldAddress          = "address"
	FieldStreet           = "street"
	FieldHouseNumber      = "house_number"
	FieldPostalCode       = "postal_code"
	FieldPlace            = "place"
	FieldProvince         = "province"
	FieldPrice            = "price"
	FieldSurface          = "surface"
	FieldDescriptionShort = "description_short"
	FieldSummary          = "summary_nl"
	FieldArticle          = "article_nl"
	FieldLat              = "lat"
	FieldLon              = "lon"
)

// ListingReference is the raw unit coming out of the discovery channel:
// a detail-page URL plus whatever sidecar fields could be harvested cheaply
// from the notification text. Created per sync pass, consumed immediately.
type ListingReference struct {
	URL     string
	Title   string
	Place   string
	Price   string
	Surface string
}

// Sidecar returns the reference's own fields as a candidate map, used by the
// merger as the lowest-priority fallback source.
func (r ListingReference) Sidecar() map[string]string {
	m := map[string]string{}
	if r.Title != "" {
		m[FieldTitle] = r.Title
	}
	if r.Place != "" {
		m[FieldPlace] = r.Place
	}
	if r.Price != "" {
		m[FieldPrice] = r.Price
	}
	if r.Surface != "" {
		m[FieldSurface] = r.Surface
	}
	return m
}

// EnrichmentRecord is the merged listing. Immutable once produced for a
// pipeline pass.
type EnrichmentRecord struct {
	Address     string
	Street      string
	HouseNumber string
	PostalCode  string
	Place       string
	Province    string

	// Price in whole euros, surface in m². Zero means unknown.
	Price   int
	Surface int

	DescriptionShort string
	Summary          string
	Article          string // long-form HTML copy
	SEOTitle         string
	FocusKeyword     string

	// Unavailable is set when the availability heuristic matched one of the
	// "listing is gone" phrases; Phrase holds the matched phrase.
	Unavailable bool
	Phrase      string
}

// PublishResult is the per-target outcome of one publish attempt.
type PublishResult struct {
	TargetID   string
	Success    bool
	PublicLink string
	Err        error
}

// Outcome is the terminal state of one listing in a pipeline pass.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomeDryRun    Outcome = "dry-run"
)
