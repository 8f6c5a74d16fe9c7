package merge

import (
	"testing"

	"github.com/cejezed/kavelarchitect/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "plain integer", in: "100", want: 100},
		{name: "euro sign", in: "€ 325.000", want: 325000},
		{name: "euro with decimals", in: "€325.000,00", want: 325000},
		{name: "surface with unit", in: "1.839 m²", want: 1839},
		{name: "surface with ascii unit", in: "640 m2", want: 640},
		{name: "kosten koper suffix", in: "€ 149.500 k.k.", want: 149500},
		{name: "zero", in: "€0", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "garbage", in: "prijs op aanvraag", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.in); got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergePriorityOrder(t *testing.T) {
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{models.FieldPrice: "200"}},
		{Source: "mail", Fields: map[string]string{models.FieldPrice: "100"}},
	}
	rec := Merge(set)
	if rec.Price != 200 {
		t.Errorf("Price = %d, want 200 (highest priority source wins)", rec.Price)
	}
}

func TestMergeFallsThroughOnZeroPrice(t *testing.T) {
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{models.FieldPrice: "€0"}},
		{Source: "mail", Fields: map[string]string{models.FieldPrice: "€ 149.500"}},
	}
	rec := Merge(set)
	if rec.Price != 149500 {
		t.Errorf("Price = %d, want 149500 (zero candidate treated as absent)", rec.Price)
	}
}

func TestMergeFallsThroughOnUnparseableSurface(t *testing.T) {
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{models.FieldSurface: "onbekend"}},
		{Source: "scrape", Fields: map[string]string{models.FieldSurface: "1.839 m²"}},
	}
	rec := Merge(set)
	if rec.Surface != 1839 {
		t.Errorf("Surface = %d, want 1839", rec.Surface)
	}
}

func TestMergeUnavailablePhrase(t *testing.T) {
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{
			models.FieldArticle: "<p>Deze kavel is helaas VERKOCHT aan een andere partij.</p>",
			models.FieldAddress: "Kerkstraat 5, Ede",
			models.FieldPlace:   "Ede",
			models.FieldPrice:   "€ 250.000",
		}},
	}
	rec := Merge(set)
	if !rec.Unavailable {
		t.Fatal("record with 'verkocht' in article should be flagged unavailable")
	}
	if rec.Phrase != "verkocht" {
		t.Errorf("Phrase = %q, want %q", rec.Phrase, "verkocht")
	}
}

func TestMergeAvailableRecordNotFlagged(t *testing.T) {
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{
			models.FieldArticle: "<p>Prachtige bouwkavel in een rustige straat.</p>",
		}},
	}
	if rec := Merge(set); rec.Unavailable {
		t.Error("available record wrongly flagged unavailable")
	}
}

func TestMergeAddressQuality(t *testing.T) {
	tests := []struct {
		name string
		set  ResultSet
		want string
	}{
		{
			name: "good address accepted",
			set: ResultSet{
				{Source: "ai", Fields: map[string]string{
					models.FieldAddress: "Kerkstraat 5, Ede",
					models.FieldPlace:   "Ede",
				}},
			},
			want: "Kerkstraat 5, Ede",
		},
		{
			name: "leading separator rejected, street build wins",
			set: ResultSet{
				{Source: "scrape", Fields: map[string]string{
					models.FieldAddress: ", Ede",
					models.FieldPlace:   "Ede",
				}},
				{Source: "ai", Fields: map[string]string{
					models.FieldStreet:      "Kerkstraat",
					models.FieldHouseNumber: "5",
				}},
			},
			want: "Kerkstraat 5, Ede",
		},
		{
			name: "place-only address rejected, lower priority accepted",
			set: ResultSet{
				{Source: "scrape", Fields: map[string]string{
					models.FieldAddress: "Ede",
					models.FieldPlace:   "Ede",
				}},
				{Source: "ai", Fields: map[string]string{
					models.FieldAddress: "Dorpsstraat 12, Ede",
				}},
			},
			want: "Dorpsstraat 12, Ede",
		},
		{
			name: "title-derived guess as last resort",
			set: ResultSet{
				{Source: "ai", Fields: map[string]string{
					models.FieldTitle: "Noordeinde 6, Landsmeer",
					models.FieldPlace: "Landsmeer",
				}},
			},
			want: "Noordeinde 6",
		},
		{
			name: "nothing usable",
			set: ResultSet{
				{Source: "mail", Fields: map[string]string{models.FieldPlace: "Ede"}},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := Merge(tt.set); rec.Address != tt.want {
				t.Errorf("Address = %q, want %q", rec.Address, tt.want)
			}
		})
	}
}

func TestMergeSidecarLowestPriority(t *testing.T) {
	ref := models.ListingReference{
		URL:     "https://x.test/koop/ede/kavel/123456",
		Place:   "Ede",
		Price:   "€ 100.000",
		Surface: "500 m²",
	}
	set := ResultSet{
		{Source: "ai", Fields: map[string]string{models.FieldPrice: "€ 120.000"}},
		{Source: "mail", Fields: ref.Sidecar()},
	}
	rec := Merge(set)
	if rec.Price != 120000 {
		t.Errorf("Price = %d, want 120000", rec.Price)
	}
	if rec.Place != "Ede" {
		t.Errorf("Place = %q, want %q (sidecar fills gaps)", rec.Place, "Ede")
	}
	if rec.Surface != 500 {
		t.Errorf("Surface = %d, want 500", rec.Surface)
	}
}
