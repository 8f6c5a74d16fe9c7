package pipeline

import (
	"github.com/cejezed/kavelarchitect/models"
	"github.com/cejezed/kavelarchitect/pkg/identity"
)

// Collaborator contracts. Each is constructed once per run with injected
// configuration and invoked synchronously; the orchestrator owns the
// best-effort policy, the collaborators just return errors.

// Enricher asks an AI source for structured fields and long-form copy.
type Enricher interface {
	Enrich(url string) (map[string]string, error)
}

// Scraper is the page-scrape fallback, consulted only when the AI step left
// address or province empty.
type Scraper interface {
	Scrape(url string) (map[string]string, error)
}

// Geocoder resolves an address string to coordinates.
type Geocoder interface {
	Geocode(query string) (lat, lon float64, found bool, err error)
}

// MapFetcher renders a static map image for coordinates. An empty path with
// a nil error means the fetch was deliberately skipped (no provider key).
type MapFetcher interface {
	FetchMap(lat, lon float64) (string, error)
}

// Renderer builds the article markup. Pure function of (record, source URL);
// content configuration is baked in at construction time.
type Renderer interface {
	Render(rec *models.EnrichmentRecord, sourceURL string) string
}

// PostInfo identifies a created post on a publish target.
type PostInfo struct {
	ID   int64
	Link string
}

// PublishTarget is one destination CMS site.
type PublishTarget interface {
	ID() string
	UploadMedia(path, title string) (mediaID int64, err error)
	CreatePost(title, content string, featuredMedia int64, listingID string) (PostInfo, error)
}

// LogSink forwards a one-line summary to the external spreadsheet log.
// Best-effort by contract: implementations swallow their own failures.
type LogSink interface {
	Notify(rec *models.EnrichmentRecord, url, status string) bool
}

// Ledger is the durable dedup set the orchestrator commits to.
type Ledger interface {
	IsKnown(id identity.Identity) bool
	Commit(id identity.Identity) error
}

// Recorder stores terminal outcomes in the listing archive.
type Recorder interface {
	Record(entry models.ArchiveEntry) error
}
