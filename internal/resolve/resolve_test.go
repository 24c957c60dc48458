package resolve

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.in/dp/B0ABCDEFGH", PlatformAmazon},
		{"https://amzn.in/d/abc123", PlatformAmazon},
		{"https://www.flipkart.com/some-product/p/itm123", PlatformFlipkart},
		{"https://example.com/product/123", PlatformUnknown},
	}
	for _, tc := range cases {
		if got := DetectPlatform(tc.url); got != tc.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestFromShareText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "deal prefix and url stripped",
			text: "Limited-time deal: Samsung Galaxy Tab A9 8.7 inch Tablet https://amzn.in/d/abc123",
			want: "Samsung Galaxy Tab A9 8.7 inch Tablet",
		},
		{
			name: "plain title",
			text: "HP Pavilion 15 12th Gen Intel Core i5 Laptop",
			want: "HP Pavilion 15 12th Gen Intel Core i5 Laptop",
		},
		{
			name: "too short after cleanup",
			text: "Deal: Nice item https://amzn.in/d/abc",
			want: "",
		},
		{
			name: "url only",
			text: "https://www.amazon.in/dp/B0ABCDEFGH",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromShareText(tc.text); got != tc.want {
				t.Errorf("FromShareText(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestPlaceholderTitle(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.in/dp/B0ABCDEFGH", "Product B0ABCDEFGH"},
		{"https://www.amazon.in/gaming-laptop/dp/B0ABCDEFGH", "Laptop Product B0ABCDEFGH"},
		{"https://www.amazon.in/best-phone-2024/dp/B0ABCDEFGH", "Phone Product B0ABCDEFGH"},
		{"https://www.amazon.in/samsung-galaxy-tab-a9/dp/B0ABC", "samsung galaxy tab a9"},
		{"https://www.flipkart.com/lenovo-tab-m10-fhd-plus/p/itm456", "lenovo tab m10 fhd plus"},
		{"https://example.com/shop/widget", "widget"},
		{"https://example.com", "Product"},
	}
	for _, tc := range cases {
		if got := PlaceholderTitle(tc.url); got != tc.want {
			t.Errorf("PlaceholderTitle(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

type fakeScraper struct {
	title string
	price string
	image string
	err   error
	calls int
}

func (f *fakeScraper) Scrape(ctx context.Context, rawURL string) (string, string, string, error) {
	f.calls++
	return f.title, f.price, f.image, f.err
}

func TestResolveShareTextWins(t *testing.T) {
	sc := &fakeScraper{title: "Scraped Title That Should Not Be Used"}
	r := &Resolver{Scraper: sc, Timeout: time.Second}
	got := r.Resolve(context.Background(), "https://www.amazon.in/dp/B0ABCDEFGH",
		"Limited-time deal: Samsung Galaxy Tab A9 8.7 inch Tablet")
	if got.Title != "Samsung Galaxy Tab A9 8.7 inch Tablet" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if !got.FromShareText {
		t.Error("expected FromShareText to be set")
	}
	if sc.calls != 0 {
		t.Errorf("scraper called %d times, want 0", sc.calls)
	}
}

func TestResolveScrape(t *testing.T) {
	sc := &fakeScraper{title: "Lenovo Tab M10 FHD Plus", price: "₹13,999", image: "https://img.example/x.jpg"}
	r := &Resolver{Scraper: sc, Timeout: time.Second}
	got := r.Resolve(context.Background(), "https://www.flipkart.com/lenovo-tab-m10/p/itm456", "")
	if got.Title != "Lenovo Tab M10 FHD Plus" || got.Price != "₹13,999" || got.ImageURL != "https://img.example/x.jpg" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.FromShareText {
		t.Error("FromShareText should be false for scraped titles")
	}
}

func TestResolveScrapeFailureFallsBack(t *testing.T) {
	sc := &fakeScraper{err: errors.New("blocked")}
	r := &Resolver{Scraper: sc, Timeout: time.Second}
	got := r.Resolve(context.Background(), "https://www.amazon.in/dp/B0ABCDEFGH", "")
	if got.Title != "Product B0ABCDEFGH" {
		t.Fatalf("unexpected fallback title %q", got.Title)
	}
}

func TestResolveNoScraper(t *testing.T) {
	r := &Resolver{}
	got := r.Resolve(context.Background(), "https://example.com/shop/widget", "")
	if got.Title != "widget" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}
