package pipeline

import (
	"testing"

	"github.com/cejezed/kavelarchitect/models"
)

func TestGuessTitleFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "detail path with bouwgrond slug",
			url:  "https://x.test/detail/koop/landsmeer/bouwgrond-noordeinde-6/43107703",
			want: "Noordeinde 6, Landsmeer",
		},
		{
			name: "short koop path",
			url:  "https://x.test/koop/ede/dorpsstraat-12/43107703",
			want: "Dorpsstraat 12, Ede",
		},
		{
			name: "hyphenated place",
			url:  "https://x.test/detail/koop/alphen-aan-den-rijn/bouwgrond-hoofdweg-3/43107703",
			want: "Hoofdweg 3, Alphen Aan Den Rijn",
		},
		{
			name: "unrecognized path",
			url:  "https://x.test/nieuws/artikel-over-kavels",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guessTitleFromURL(tt.url); got != tt.want {
				t.Errorf("guessTitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		rec  models.EnrichmentRecord
		url  string
		want string
	}{
		{
			name: "address wins",
			rec:  models.EnrichmentRecord{Address: "Kerkstraat 5, Ede", Street: "Dorpsstraat", Place: "Ede"},
			want: TitlePrefix + "Kerkstraat 5, Ede",
		},
		{
			name: "street and number",
			rec:  models.EnrichmentRecord{Street: "Kerkstraat", HouseNumber: "5", Place: "Ede"},
			want: TitlePrefix + "Kerkstraat 5, Ede",
		},
		{
			name: "url guess",
			rec:  models.EnrichmentRecord{},
			url:  "https://x.test/detail/koop/ede/bouwgrond-kerkstraat-5/43107703",
			want: TitlePrefix + "Kerkstraat 5, Ede",
		},
		{
			name: "place fallback",
			rec:  models.EnrichmentRecord{Place: "Ede"},
			url:  "https://x.test/iets-anders",
			want: TitlePrefix + "Bouwgrond – Ede",
		},
		{
			name: "generic fallback",
			rec:  models.EnrichmentRecord{},
			url:  "https://x.test/iets-anders",
			want: TitlePrefix + "Bouwgrond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayTitle(&tt.rec, tt.url); got != tt.want {
				t.Errorf("displayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
