package recommend

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"altrec/backend/internal/resolve"
	"altrec/backend/internal/search"
)

// buildAlternative assembles one candidate from its name, optional lookup
// result and enrichment. A nil lookup means the name matched nothing live;
// the candidate still gets a search URL so the user can dig further.
func buildAlternative(name, platform string, lookup *search.Result, enr Enrichment) Alternative {
	alt := Alternative{
		ID:         uuid.NewString(),
		Title:      name,
		Specs:      enr.Specs,
		WhyPick:    enr.WhyPick,
		SourceSite: platform,
	}
	alt.Brand, alt.Model = splitBrandModel(name)

	if lookup != nil {
		if lookup.Title != "" {
			alt.Title = lookup.Title
		}
		alt.ImageURL = lookup.ImageURL
		alt.PriceRaw = lookup.Price
		alt.PriceEstimate = lookup.PriceMinor
		alt.RatingEstimate = lookup.Rating
		alt.RatingCountEstimate = lookup.RatingCount
		alt.SourceURL = lookup.URL
	}
	if alt.SourceURL == "" {
		alt.SourceURL = searchURL(name, platform)
	}
	alt.DirectLink = isDirectLink(alt.SourceURL)
	return alt
}

// splitBrandModel treats the first word of a name as the brand and the next
// few as the model.
func splitBrandModel(name string) (brand, model string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	brand = fields[0]
	rest := fields[1:]
	if len(rest) > 3 {
		rest = rest[:3]
	}
	return brand, strings.Join(rest, " ")
}

// searchURL builds a marketplace search link for a candidate name.
func searchURL(name, platform string) string {
	terms := strings.Join(strings.Fields(name), "+")
	switch platform {
	case resolve.PlatformFlipkart:
		return "https://www.flipkart.com/search?q=" + terms
	default:
		return "https://www.amazon.in/s?k=" + terms
	}
}

// isDirectLink reports whether a URL points at a single product page rather
// than a search-results page.
func isDirectLink(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Path == "/s" || u.Path == "/search" {
		return false
	}
	return strings.Contains(u.Path, "/dp/") || strings.Contains(u.Path, "/p/")
}

// verdict is the quality judgement for one built candidate.
type verdict struct {
	keep   bool
	score  int
	issues []string
}

// assessQuality scores a candidate 0-4 (price, non-generic title, direct
// link, image) and keeps it when it has both an image and a price, or one of
// the two plus at least two points overall.
func assessQuality(alt Alternative) verdict {
	v := verdict{}
	hasImage := alt.ImageURL != ""
	hasPrice := alt.PriceEstimate > 0

	if hasPrice {
		v.score++
	} else {
		v.issues = append(v.issues, "no price")
	}
	if !isGenericTitle(alt.Title) {
		v.score++
	} else {
		v.issues = append(v.issues, "generic title")
	}
	if alt.DirectLink {
		v.score++
	} else {
		v.issues = append(v.issues, "no direct link")
	}
	if hasImage {
		v.score++
	} else {
		v.issues = append(v.issues, "no image")
	}

	v.keep = (hasImage && hasPrice) || ((hasImage || hasPrice) && v.score >= 2)
	return v
}

var genericAltPattern = regexp.MustCompile(`(?i)^alternative\s|\balternative\s+\d+$`)

// isGenericTitle reports whether a title is one of the padding or fallback
// placeholders rather than a real product name.
func isGenericTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || title == "Product" {
		return true
	}
	return genericAltPattern.MatchString(title)
}

func discardReason(name string, v verdict) string {
	return fmt.Sprintf("%s (score %d/4: %s)", name, v.score, strings.Join(v.issues, ", "))
}
