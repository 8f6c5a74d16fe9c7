package scrape

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cejezed/kavelarchitect/models"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Bouwgrond te koop: Dorpsstraat 12 Spanbroek</title></head>
<body>
<h1>Bouwgrond te koop: Spanbroek - Dorpsstraat</h1>
<p>Vraagprijs € 425.000 k.k.</p>
<p>Perceel 1.839 m² gelegen aan de rand van het dorp, 1715 AB Spanbroek.</p>
</body>
</html>`

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := NewClient()
	fields, err := c.Scrape(srv.URL + "/detail/koop/spanbroek/bouwgrond-dorpsstraat-12/43107703")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	want := map[string]string{
		models.FieldTitle:       "Bouwgrond te koop: Dorpsstraat 12 Spanbroek",
		models.FieldPrice:       "€ 425.000",
		models.FieldSurface:     "1839 m²",
		models.FieldPlace:       "Spanbroek",
		models.FieldStreet:      "Dorpsstraat",
		models.FieldHouseNumber: "12",
		models.FieldAddress:     "Dorpsstraat 12, Spanbroek",
		models.FieldPostalCode:  "1715 AB",
		models.FieldProvince:    "Noord-Holland",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestScrapeHTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient().Scrape(srv.URL + "/detail/koop/a/b/123456"); err == nil {
		t.Error("Scrape() should surface a non-200 response as an error")
	}
}

func TestAddressFromPath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want map[string]string
	}{
		{
			name: "detail path with house number",
			url:  "https://x.test/detail/koop/landsmeer/bouwgrond-noordeinde-6/43107703",
			want: map[string]string{
				models.FieldPlace:       "Landsmeer",
				models.FieldStreet:      "Noordeinde",
				models.FieldHouseNumber: "6",
				models.FieldAddress:     "Noordeinde 6, Landsmeer",
			},
		},
		{
			name: "short koop path without house number",
			url:  "https://x.test/koop/ede/bouwgrond-kerkepad/43107703",
			want: map[string]string{
				models.FieldPlace:   "Ede",
				models.FieldStreet:  "Kerkepad",
				models.FieldAddress: "Kerkepad, Ede",
			},
		},
		{
			name: "unrecognized path yields nothing",
			url:  "https://x.test/nieuws/kavelmarkt-trekt-aan",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string]string{}
			addressFromPath(tt.url, fields)
			for k, v := range tt.want {
				if fields[k] != v {
					t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
				}
			}
			if len(tt.want) == 0 && len(fields) != 0 {
				t.Errorf("expected no fields, got %v", fields)
			}
		})
	}
}

func TestProvinceLookups(t *testing.T) {
	tests := []struct {
		name   string
		postal string
		place  string
		want   string
	}{
		{name: "postal code prefix", postal: "6211 AB", want: "Limburg"},
		{name: "postal code utrecht", postal: "3512 JE", want: "Utrecht"},
		{name: "place fallback", place: "Ede", want: "Gelderland"},
		{name: "place case insensitive", place: "EINDHOVEN", want: "Noord-Brabant"},
		{name: "unknown", postal: "0000", place: "Atlantis", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProvinceForPostalCode(tt.postal)
			if got == "" {
				got = ProvinceForPlace(tt.place)
			}
			if got != tt.want {
				t.Errorf("province = %q, want %q", got, tt.want)
			}
		})
	}
}
