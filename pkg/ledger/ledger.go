// Package ledger persists the set of already-published listing identities.
//
// The backing store is a single YAML file holding two sorted string lists,
// one for normalized URLs and one for listing IDs. The whole file is
// rewritten on every commit; the sync command is the only writer, so a plain
// replace-on-write is enough.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cejezed/kavelarchitect/pkg/identity"
)

type ledgerFile struct {
	ProcessedURLs []string `yaml:"processed_urls"`
	ProcessedIDs  []string `yaml:"processed_ids"`
}

// Ledger is the durable dedup set. Not safe for concurrent use.
type Ledger struct {
	path string
	urls map[string]struct{}
	ids  map[string]struct{}
}

// Open loads the ledger from path. A missing or corrupt file yields an empty
// ledger: the pipeline must never be blocked by its own state file, and the
// worst case of starting empty is a re-publish, not data loss.
func Open(path string) *Ledger {
	l := &Ledger{
		path: path,
		urls: map[string]struct{}{},
		ids:  map[string]struct{}{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}
	var f ledgerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return l
	}
	for _, u := range f.ProcessedURLs {
		l.urls[u] = struct{}{}
	}
	for _, id := range f.ProcessedIDs {
		l.ids[id] = struct{}{}
	}
	return l
}

// IsKnown reports whether the identity was committed before. A match on
// either the normalized URL or the listing ID is sufficient: the OR catches
// both URL drift (same ID, reshuffled slug) and ID-less re-notifications.
func (l *Ledger) IsKnown(id identity.Identity) bool {
	if _, ok := l.urls[id.NormalizedURL]; ok {
		return true
	}
	if id.ListingID != "" {
		if _, ok := l.ids[id.ListingID]; ok {
			return true
		}
	}
	return false
}

// Commit adds the identity to both sets and persists the full ledger. When
// the write fails the error is returned and the caller must not treat the
// identity as committed; an undurable commit would silently break the
// duplicate guarantee on the next run.
func (l *Ledger) Commit(id identity.Identity) error {
	l.urls[id.NormalizedURL] = struct{}{}
	if id.ListingID != "" {
		l.ids[id.ListingID] = struct{}{}
	}
	return l.persist()
}

// Size returns the number of stored URLs and IDs.
func (l *Ledger) Size() (urls, ids int) {
	return len(l.urls), len(l.ids)
}

// URLs returns the stored normalized URLs, sorted.
func (l *Ledger) URLs() []string {
	return sortedKeys(l.urls)
}

// IDs returns the stored listing IDs, sorted.
func (l *Ledger) IDs() []string {
	return sortedKeys(l.ids)
}

// persist rewrites the whole file, sorted for stable diffs, via a temp file
// and atomic rename.
func (l *Ledger) persist() error {
	f := ledgerFile{
		ProcessedURLs: sortedKeys(l.urls),
		ProcessedIDs:  sortedKeys(l.ids),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
