package sheets

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cejezed/kavelarchitect/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() *models.EnrichmentRecord {
	return &models.EnrichmentRecord{
		Address:  "Dorpsstraat 12, Spanbroek",
		Place:    "Spanbroek",
		Province: "Noord-Holland",
		Price:    425000,
		Surface:  1839,
	}
}

func TestNotifySendsRow(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	c := NewClient(models.WebhookConfig{URL: srv.URL, Token: "secret"}, discardLogger())
	c.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	ok := c.Notify(testRecord(), "https://www.funda.nl/detail/koop/spanbroek/kavel/43107703/", "actief")
	if !ok {
		t.Fatal("Notify() = false, want true")
	}

	want := payload{
		Type:     "kavel",
		Token:    "secret",
		Address:  "Dorpsstraat 12, Spanbroek",
		Place:    "Spanbroek",
		Province: "Noord-Holland",
		Price:    "€ 425.000",
		Surface:  "1.839 m²",
		URL:      "https://www.funda.nl/detail/koop/spanbroek/kavel/43107703/",
		Date:     "2026-08-30",
		Status:   "actief",
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestNotifyFailuresReturnFalse(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "no success field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]bool{"success": false})
			},
		},
		{
			name: "non-json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(models.WebhookConfig{URL: srv.URL, Token: "secret"}, discardLogger())
			if c.Notify(testRecord(), "https://x.test/1", "actief") {
				t.Error("Notify() = true, want false")
			}
		})
	}
}

func TestNotifyDisabledWithoutConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := NewClient(models.WebhookConfig{URL: srv.URL}, discardLogger())
	if c.Notify(testRecord(), "https://x.test/1", "actief") {
		t.Error("Notify() without token should be a no-op")
	}
}
