package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cejezed/kavelarchitect/pkg/identity"
)

func testLedgerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state", "processed.yaml")
}

func TestCommitAndReload(t *testing.T) {
	path := testLedgerPath(t)

	l := Open(path)
	id := identity.Resolve("https://x.test/detail/koop/ede/kavel/43107703?utm=x")
	if l.IsKnown(id) {
		t.Fatal("fresh ledger should not know any identity")
	}
	if err := l.Commit(id); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	// A fresh load from disk must see the commit.
	reloaded := Open(path)
	if !reloaded.IsKnown(id) {
		t.Error("reloaded ledger does not know committed identity")
	}
}

func TestIsKnownMatchesEitherURLOrID(t *testing.T) {
	path := testLedgerPath(t)
	l := Open(path)

	committed := identity.Resolve("https://x.test/detail/koop/ede/bouwgrond-dorpsstraat-1/43107703")
	if err := l.Commit(committed); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "same URL different query",
			url:  "https://x.test/detail/koop/ede/bouwgrond-dorpsstraat-1/43107703?utm_source=mail",
			want: true,
		},
		{
			name: "different slug same listing ID",
			url:  "https://x.test/koop/ede/dorpsstraat-1/43107703",
			want: true,
		},
		{
			name: "different listing",
			url:  "https://x.test/detail/koop/ede/bouwgrond-dorpsstraat-2/99887766",
			want: false,
		},
		{
			name: "no ID and unknown URL",
			url:  "https://x.test/koop/ede/bouwgrond-dorpsstraat",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.IsKnown(identity.Resolve(tt.url)); got != tt.want {
				t.Errorf("IsKnown(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	path := testLedgerPath(t)
	l := Open(path)

	id := identity.Resolve("https://x.test/detail/koop/ede/kavel/43107703")
	if err := l.Commit(id); err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}
	if err := l.Commit(id); err != nil {
		t.Fatalf("second Commit() error = %v", err)
	}

	urls, ids := Open(path).Size()
	if urls != 1 || ids != 1 {
		t.Errorf("Size() after double commit = (%d, %d), want (1, 1)", urls, ids)
	}
}

func TestOpenCorruptFileYieldsEmptyLedger(t *testing.T) {
	path := testLedgerPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	l := Open(path)
	urls, ids := l.Size()
	if urls != 0 || ids != 0 {
		t.Errorf("corrupt file should load as empty, got (%d, %d)", urls, ids)
	}

	// And the ledger must still be writable afterwards.
	if err := l.Commit(identity.Resolve("https://x.test/koop/a/b/123456")); err != nil {
		t.Errorf("Commit() after corrupt load error = %v", err)
	}
}

func TestCommitPersistFailurePropagates(t *testing.T) {
	// Point the ledger at a path whose parent is a file, so MkdirAll fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "state")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	l := Open(filepath.Join(blocker, "processed.yaml"))
	err := l.Commit(identity.Resolve("https://x.test/koop/a/b/123456"))
	if err == nil {
		t.Fatal("Commit() should fail when the store cannot be written")
	}
}

func TestPersistedFileIsSorted(t *testing.T) {
	path := testLedgerPath(t)
	l := Open(path)

	for _, u := range []string{
		"https://x.test/koop/c/kavel/333333",
		"https://x.test/koop/a/kavel/111111",
		"https://x.test/koop/b/kavel/222222",
	} {
		if err := l.Commit(identity.Resolve(u)); err != nil {
			t.Fatalf("Commit(%q) error = %v", u, err)
		}
	}

	urls := Open(path).URLs()
	for i := 1; i < len(urls); i++ {
		if urls[i-1] > urls[i] {
			t.Errorf("stored URLs not sorted: %q before %q", urls[i-1], urls[i])
		}
	}
}
