package recommend

import (
	"testing"

	"altrec/backend/internal/search"
)

func TestBuildAlternativeFromLookup(t *testing.T) {
	lookup := &search.Result{
		Title:       "Lenovo Tab M10 FHD Plus (3rd Gen)",
		Price:       "₹13,999",
		PriceMinor:  1399900,
		ImageURL:    "https://img/x.jpg",
		Rating:      4.3,
		RatingCount: 1287,
		URL:         "https://www.amazon.in/lenovo-tab/dp/B0ABCDEFGH",
	}
	alt := buildAlternative("Lenovo Tab M10", "amazon", lookup, Enrichment{
		Specs:   []string{"4GB RAM", "10.1 inch display"},
		WhyPick: "Large display on a budget.",
	})

	if alt.ID == "" {
		t.Error("missing id")
	}
	if alt.Title != "Lenovo Tab M10 FHD Plus (3rd Gen)" {
		t.Errorf("Title = %q, want lookup title", alt.Title)
	}
	if alt.Brand != "Lenovo" || alt.Model != "Tab M10" {
		t.Errorf("brand/model = %q/%q", alt.Brand, alt.Model)
	}
	if alt.PriceEstimate != 1399900 || alt.PriceRaw != "₹13,999" {
		t.Errorf("price = %d/%q", alt.PriceEstimate, alt.PriceRaw)
	}
	if !alt.DirectLink {
		t.Error("lookup URL with /dp/ should be a direct link")
	}
	if alt.SourceSite != "amazon" {
		t.Errorf("SourceSite = %q", alt.SourceSite)
	}
}

func TestBuildAlternativeWithoutLookup(t *testing.T) {
	alt := buildAlternative("Xiaomi Pad 6", "flipkart", nil, Enrichment{WhyPick: "x"})
	if alt.SourceURL != "https://www.flipkart.com/search?q=Xiaomi+Pad+6" {
		t.Errorf("SourceURL = %q", alt.SourceURL)
	}
	if alt.DirectLink {
		t.Error("search URL must not count as a direct link")
	}
	if alt.Title != "Xiaomi Pad 6" {
		t.Errorf("Title = %q, want generated name", alt.Title)
	}
}

func TestSearchURLDefaultsToAmazon(t *testing.T) {
	if got := searchURL("OnePlus Pad", "unknown"); got != "https://www.amazon.in/s?k=OnePlus+Pad" {
		t.Errorf("searchURL = %q", got)
	}
}

func TestIsDirectLink(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.amazon.in/lenovo-tab/dp/B0ABCDEFGH", true},
		{"https://www.flipkart.com/xiaomi-pad-6/p/itm123", true},
		{"https://www.amazon.in/s?k=lenovo+tab", false},
		{"https://www.flipkart.com/search?q=xiaomi+pad", false},
		{"", false},
		{"://bad", false},
	}
	for _, tc := range cases {
		if got := isDirectLink(tc.url); got != tc.want {
			t.Errorf("isDirectLink(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestAssessQuality(t *testing.T) {
	cases := []struct {
		name      string
		alt       Alternative
		wantKeep  bool
		wantScore int
	}{
		{
			name: "image and price always kept",
			alt: Alternative{
				ImageURL:      "https://img/x.jpg",
				PriceEstimate: 1399900,
			},
			wantKeep:  true,
			wantScore: 2,
		},
		{
			name: "price plus real title kept",
			alt: Alternative{
				Title:         "Lenovo Tab M10",
				PriceEstimate: 1399900,
			},
			wantKeep:  true,
			wantScore: 2,
		},
		{
			name: "image alone discarded",
			alt: Alternative{
				ImageURL: "https://img/x.jpg",
			},
			wantKeep:  false,
			wantScore: 1,
		},
		{
			name: "title and direct link but no image or price discarded",
			alt: Alternative{
				Title:      "Lenovo Tab M10",
				DirectLink: true,
			},
			wantKeep:  false,
			wantScore: 2,
		},
		{
			name:      "empty candidate discarded",
			alt:       Alternative{},
			wantKeep:  false,
			wantScore: 0,
		},
		{
			name: "padded placeholder with price and image kept but scored down",
			alt: Alternative{
				Title:         "Alternative tablet 4",
				ImageURL:      "https://img/x.jpg",
				PriceEstimate: 100,
			},
			wantKeep:  true,
			wantScore: 2,
		},
		{
			name: "everything present",
			alt: Alternative{
				Title:         "Lenovo Tab M10",
				ImageURL:      "https://img/x.jpg",
				PriceEstimate: 100,
				DirectLink:    true,
			},
			wantKeep:  true,
			wantScore: 4,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := assessQuality(tc.alt)
			if v.keep != tc.wantKeep {
				t.Errorf("keep = %v, want %v", v.keep, tc.wantKeep)
			}
			if v.score != tc.wantScore {
				t.Errorf("score = %d, want %d", v.score, tc.wantScore)
			}
		})
	}
}

func TestIsGenericTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Lenovo Tab M10", false},
		{"Alternative tablet 4", true},
		{"Wooden Photo Frame Alternative 2", true},
		{"Product", true},
		{"", true},
		{"Alternate Reality Game", false},
	}
	for _, tc := range cases {
		if got := isGenericTitle(tc.title); got != tc.want {
			t.Errorf("isGenericTitle(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestFallbackSpecs(t *testing.T) {
	specs := FallbackSpecs("HP Pavilion 15 Core i5-1235U 16GB RAM 15.6 inch 4500mAh Battery")
	if len(specs) == 0 {
		t.Fatal("expected fallback specs")
	}
	found := map[string]bool{}
	for _, s := range specs {
		found[s] = true
	}
	if !found["16GB RAM"] {
		t.Errorf("missing RAM spec: %v", specs)
	}
	if !found["Core i5-1235U"] {
		t.Errorf("missing processor spec: %v", specs)
	}
}
