package models

// ArchiveEntry is the row written to the listing archive after a listing
// reaches a terminal state. Best-effort bookkeeping; the dedup ledger, not
// the archive, is the source of truth for duplicates.
type ArchiveEntry struct {
	ListingID  string
	SourceURL  string
	Status     string // published, duplicate, skipped, failed, dry-run
	Address    string
	PostalCode string
	Place      string
	Province   string
	Price      int
	Surface    int
	SEOTitle   string
	SEOSummary string
	Article    string
	MapPath    string
	Lat        float64
	Lon        float64
}
