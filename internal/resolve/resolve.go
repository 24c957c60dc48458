// Package resolve turns a marketplace URL, plus optional share text, into a
// usable product title and whatever price/image data a scrape can recover.
package resolve

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Platform tags recognised by the pipeline.
const (
	PlatformAmazon   = "amazon"
	PlatformFlipkart = "flipkart"
	PlatformUnknown  = "unknown"
)

// Resolved is the outcome of title resolution. Title is always non-empty;
// Price and ImageURL are populated only when a scrape succeeded.
type Resolved struct {
	Title         string
	Price         string
	ImageURL      string
	FromShareText bool
}

// Scraper fetches product-page details for a direct URL.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (title, price, imageURL string, err error)
}

// Resolver derives a product title, preferring share text, then a scrape,
// then a placeholder built from the URL itself. It never fails: the worst
// case is a placeholder title with no price or image.
type Resolver struct {
	Scraper Scraper
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// DetectPlatform tags a URL by marketplace. Shortened amzn.in links count
// as Amazon.
func DetectPlatform(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "amazon") || strings.Contains(lower, "amzn"):
		return PlatformAmazon
	case strings.Contains(lower, "flipkart"):
		return PlatformFlipkart
	default:
		return PlatformUnknown
	}
}

var (
	urlPattern  = regexp.MustCompile(`https?://\S+`)
	asinPattern = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)

	// Share text from marketplace apps leads with a deal banner that is
	// not part of the product name.
	dealPrefixes = []string{
		"Limited-time deal:",
		"Deal of the Day:",
		"Amazon Deal:",
		"Flipkart Deal:",
		"Deal:",
	}
)

// FromShareText extracts a product title from the free text of a share
// intent. It returns "" when the remaining text is too short to be a title.
func FromShareText(text string) string {
	cleaned := urlPattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(cleaned)
	for _, prefix := range dealPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
			break
		}
	}
	if len(cleaned) < 20 {
		return ""
	}
	return cleaned
}

// Resolve produces a title for the given URL. Share text wins when present,
// then a scrape of the product page, then a placeholder from the URL path.
func (r *Resolver) Resolve(ctx context.Context, rawURL, shareText string) Resolved {
	if title := FromShareText(shareText); title != "" {
		return Resolved{Title: title, FromShareText: true}
	}

	if r.Scraper != nil {
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		sctx, cancel := context.WithTimeout(ctx, timeout)
		title, price, image, err := r.Scraper.Scrape(sctx, rawURL)
		cancel()
		if err != nil {
			r.logger().WithError(err).WithField("url", rawURL).Warn("product page scrape failed, falling back to placeholder title")
		} else if strings.TrimSpace(title) != "" {
			return Resolved{Title: strings.TrimSpace(title), Price: price, ImageURL: image}
		}
	}

	return Resolved{Title: PlaceholderTitle(rawURL)}
}

// PlaceholderTitle builds a best-effort title from the URL alone, used when
// both share text and scraping come up empty. The ASIN form carries a device
// hint when the URL path mentions one.
func PlaceholderTitle(rawURL string) string {
	if m := asinPattern.FindStringSubmatch(rawURL); m != nil {
		lower := strings.ToLower(rawURL)
		switch {
		case strings.Contains(lower, "laptop"):
			return fmt.Sprintf("Laptop Product %s", m[1])
		case strings.Contains(lower, "phone"):
			return fmt.Sprintf("Phone Product %s", m[1])
		default:
			return fmt.Sprintf("Product %s", m[1])
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "Product"
	}
	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")

	// Amazon and Flipkart both encode a readable slug next to the item id:
	// amazon.in/<slug>/dp/<asin> and flipkart.com/<slug>/p/<itmid>.
	for i, seg := range segments {
		var slug string
		switch {
		case seg == "dp" && i > 0:
			slug = segments[i-1]
		case seg == "p" && i > 0:
			slug = segments[i-1]
		}
		if slug == "" {
			continue
		}
		title := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
		if len(title) > 10 {
			return title
		}
	}

	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "-", " ")
	last = strings.TrimSpace(last)
	if last == "" {
		return "Product"
	}
	if len(last) > 50 {
		last = last[:50]
	}
	return last
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}
