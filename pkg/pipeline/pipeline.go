// Package pipeline orchestrates one listing from discovery to publication.
//
// Per reference the flow is: resolve identity, check the ledger, enrich
// (AI first, page scrape as gap-filler), merge, geocode, render, publish to
// every configured target, and commit the ledger entry only when at least
// one target accepted the post. Every optional collaborator call goes
// through the same best-effort wrapper so one flaky service degrades the
// record instead of killing the listing.
package pipeline

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cejezed/kavelarchitect/models"
	"github.com/cejezed/kavelarchitect/pkg/geocode"
	"github.com/cejezed/kavelarchitect/pkg/identity"
	"github.com/cejezed/kavelarchitect/pkg/merge"
)

// Pipeline holds the collaborators for one sync run. Ledger and Renderer are
// required; everything else may be nil and is then skipped.
type Pipeline struct {
	Logger   *slog.Logger
	Ledger   Ledger
	Enricher Enricher
	Scraper  Scraper
	Geocoder Geocoder
	Maps     MapFetcher
	Renderer Renderer
	Targets  []PublishTarget
	LogSink  LogSink
	Archive  Recorder

	// DryRun stops each listing after rendering: no publish calls, no
	// ledger commit.
	DryRun bool
}

// Summary counts listing outcomes for one batch.
type Summary struct {
	Published  int
	Duplicates int
	Skipped    int
	Failed     int
	DryRun     int
}

func (s *Summary) add(o models.Outcome) {
	switch o {
	case models.OutcomePublished:
		s.Published++
	case models.OutcomeDuplicate:
		s.Duplicates++
	case models.OutcomeSkipped:
		s.Skipped++
	case models.OutcomeFailed:
		s.Failed++
	case models.OutcomeDryRun:
		s.DryRun++
	}
}

// Total returns the number of processed listings.
func (s Summary) Total() int {
	return s.Published + s.Duplicates + s.Skipped + s.Failed + s.DryRun
}

// ProcessBatch runs the references sequentially, one listing fully to its
// terminal state before the next. A ledger persist failure is logged and
// surfaced per listing; it never aborts the batch.
func (p *Pipeline) ProcessBatch(refs []models.ListingReference) Summary {
	var sum Summary
	for _, ref := range refs {
		outcome, err := p.ProcessListing(ref)
		if err != nil {
			p.Logger.Error("listing finished with error", "url", ref.URL, "outcome", string(outcome), "error", err)
		}
		sum.add(outcome)
	}
	return sum
}

// ProcessListing advances one reference through the state machine. The
// returned error is non-nil only when the listing was published but its
// ledger commit failed to persist; such a listing will be re-attempted on
// the next run.
func (p *Pipeline) ProcessListing(ref models.ListingReference) (models.Outcome, error) {
	id := identity.Resolve(ref.URL)
	log := p.Logger.With("url", id.NormalizedURL, "listing_id", id.ListingID)

	// IDENTIFIED -> DUPLICATE: terminal, no collaborator work.
	if p.Ledger.IsKnown(id) {
		log.Info("skip, already processed")
		p.notify(nil, ref.URL, "dupe")
		p.record(models.ArchiveEntry{
			ListingID: id.ListingID,
			SourceURL: id.NormalizedURL,
			Status:    string(models.OutcomeDuplicate),
		})
		return models.OutcomeDuplicate, nil
	}

	// IDENTIFIED -> ENRICHED.
	rec, set := p.enrich(ref, log)

	// ENRICHED -> UNAVAILABLE: terminal, no ledger write.
	if rec.Unavailable {
		log.Warn("listing no longer available", "phrase", rec.Phrase)
		p.record(archiveEntry(id, rec, models.OutcomeSkipped, "", 0, 0))
		return models.OutcomeSkipped, nil
	}

	// ENRICHED -> GEOCODED. Non-fatal: the listing proceeds without a map.
	lat, lon, hasCoords := p.resolveCoordinates(ref.URL, rec, set, log)

	mapPath := ""
	if hasCoords && p.Maps != nil {
		mapPath, _ = attempt(log, "map", func() (string, error) {
			return p.Maps.FetchMap(lat, lon)
		})
	}

	// GEOCODED -> RENDERED.
	title := displayTitle(rec, ref.URL)
	content := p.Renderer.Render(rec, ref.URL)

	if p.DryRun {
		log.Info("dry run, skipping publish", "title", title)
		p.record(archiveEntry(id, rec, models.OutcomeDryRun, mapPath, lat, lon))
		return models.OutcomeDryRun, nil
	}

	// RENDERED -> PUBLISHING.
	results := p.publish(title, content, mapPath, rec, id, log)

	publishedAny := false
	for _, r := range results {
		if r.Success {
			publishedAny = true
		}
	}

	// PUBLISHING -> FAILED: no ledger write, the next run retries.
	if !publishedAny {
		log.Warn("publish failed on all targets, listing not marked processed", "targets", len(results))
		p.notify(rec, ref.URL, "mislukt")
		p.record(archiveEntry(id, rec, models.OutcomeFailed, mapPath, lat, lon))
		return models.OutcomeFailed, nil
	}

	// PUBLISHING -> PUBLISHED.
	p.notify(rec, ref.URL, "actief")
	p.record(archiveEntry(id, rec, models.OutcomePublished, mapPath, lat, lon))

	if err := p.Ledger.Commit(id); err != nil {
		// The post is live but the dedup entry is not durable; surface it
		// so the operator knows the next run will re-attempt this listing.
		return models.OutcomePublished, fmt.Errorf("ledger commit failed: %w", err)
	}
	log.Info("published", "title", title)
	return models.OutcomePublished, nil
}

// enrich runs the AI collaborator, the scrape fallback when address or
// province are still missing, and merges everything with the sidecar fields.
func (p *Pipeline) enrich(ref models.ListingReference, log *slog.Logger) (*models.EnrichmentRecord, merge.ResultSet) {
	set := merge.ResultSet{}

	var aiFields map[string]string
	if p.Enricher != nil {
		aiFields, _ = attempt(log, "enrich", func() (map[string]string, error) {
			return p.Enricher.Enrich(ref.URL)
		})
	}
	set = append(set, merge.Candidate{Source: "ai", Fields: aiFields})

	if p.Scraper != nil && (aiFields[models.FieldAddress] == "" || aiFields[models.FieldProvince] == "") {
		scraped, _ := attempt(log, "scrape", func() (map[string]string, error) {
			return p.Scraper.Scrape(ref.URL)
		})
		set = append(set, merge.Candidate{Source: "scrape", Fields: scraped})
	}

	set = append(set, merge.Candidate{Source: "mail", Fields: ref.Sidecar()})
	return merge.Merge(set), set
}

// resolveCoordinates prefers coordinates supplied by an enrichment source;
// (0,0) is the provider sentinel for unknown and is treated as absent. The
// fallback geocodes the best available address string.
func (p *Pipeline) resolveCoordinates(sourceURL string, rec *models.EnrichmentRecord, set merge.ResultSet, log *slog.Logger) (float64, float64, bool) {
	if lat, lon, ok := coordsFromCandidates(set); ok {
		return lat, lon, true
	}

	if p.Geocoder == nil {
		return 0, 0, false
	}
	query := geocodeQuery(rec, sourceURL)
	if query == "" {
		return 0, 0, false
	}
	query = geocode.NormalizeQuery(query)

	type point struct{ lat, lon float64 }
	pt, ok := attempt(log, "geocode", func() (point, error) {
		lat, lon, found, err := p.Geocoder.Geocode(query)
		if err != nil {
			return point{}, err
		}
		if !found {
			return point{}, fmt.Errorf("no result for %q", query)
		}
		return point{lat, lon}, nil
	})
	if !ok {
		return 0, 0, false
	}
	return pt.lat, pt.lon, true
}

// coordsFromCandidates scans the set for the first candidate carrying a
// usable lat/lon pair.
func coordsFromCandidates(set merge.ResultSet) (float64, float64, bool) {
	for _, c := range set {
		lat, errLat := strconv.ParseFloat(c.Fields[models.FieldLat], 64)
		lon, errLon := strconv.ParseFloat(c.Fields[models.FieldLon], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		if lat == 0 && lon == 0 {
			continue
		}
		return lat, lon, true
	}
	return 0, 0, false
}

// geocodeQuery picks the best address string for geocoding, first non-empty
// of: full address, street+number+place, URL-derived title, bare place.
func geocodeQuery(rec *models.EnrichmentRecord, sourceURL string) string {
	if rec.Address != "" {
		return rec.Address
	}
	if rec.Street != "" && (rec.HouseNumber != "" || rec.Place != "") {
		q := rec.Street
		if rec.HouseNumber != "" {
			q += " " + rec.HouseNumber
		}
		if rec.Place != "" {
			q += ", " + rec.Place
		}
		return q
	}
	if guess := guessTitleFromURL(sourceURL); guess != "" {
		return guess
	}
	return rec.Place
}

// publish attempts every configured target independently; a failure on one
// never aborts the others.
func (p *Pipeline) publish(title, content, mapPath string, rec *models.EnrichmentRecord, id identity.Identity, log *slog.Logger) []models.PublishResult {
	results := make([]models.PublishResult, 0, len(p.Targets))
	for _, target := range p.Targets {
		tlog := log.With("target", target.ID())

		var mediaID int64
		if mapPath != "" {
			mediaID, _ = attempt(tlog, "upload media", func() (int64, error) {
				return target.UploadMedia(mapPath, "Kaart – "+rec.Place)
			})
		}

		info, err := target.CreatePost(title, content, mediaID, id.ListingID)
		result := models.PublishResult{TargetID: target.ID()}
		if err != nil {
			tlog.Warn("create post failed", "error", err)
			result.Err = err
		} else {
			tlog.Info("post created", "post_id", info.ID, "link", info.Link)
			result.Success = true
			result.PublicLink = info.Link
		}
		results = append(results, result)
	}
	return results
}

func (p *Pipeline) notify(rec *models.EnrichmentRecord, url, status string) {
	if p.LogSink == nil {
		return
	}
	if rec == nil {
		rec = &models.EnrichmentRecord{}
	}
	p.LogSink.Notify(rec, url, status)
}

func (p *Pipeline) record(entry models.ArchiveEntry) {
	if p.Archive == nil {
		return
	}
	if err := p.Archive.Record(entry); err != nil {
		p.Logger.Warn("archive write failed", "url", entry.SourceURL, "error", err)
	}
}

func archiveEntry(id identity.Identity, rec *models.EnrichmentRecord, outcome models.Outcome, mapPath string, lat, lon float64) models.ArchiveEntry {
	return models.ArchiveEntry{
		ListingID:  id.ListingID,
		SourceURL:  id.NormalizedURL,
		Status:     string(outcome),
		Address:    rec.Address,
		PostalCode: rec.PostalCode,
		Place:      rec.Place,
		Province:   rec.Province,
		Price:      rec.Price,
		Surface:    rec.Surface,
		SEOTitle:   rec.SEOTitle,
		SEOSummary: firstNonEmpty(rec.Summary, rec.DescriptionShort),
		Article:    rec.Article,
		MapPath:    mapPath,
		Lat:        lat,
		Lon:        lon,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
