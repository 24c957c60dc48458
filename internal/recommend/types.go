// Package recommend orchestrates the full pipeline from a marketplace URL to
// a ranked list of alternative products.
package recommend

import (
	"context"
	"fmt"
	"time"

	"altrec/backend/internal/llm"
	"altrec/backend/internal/resolve"
	"altrec/backend/internal/scoring"
	"altrec/backend/internal/search"
)

// Query is one recommendation request.
type Query struct {
	URL       string
	ShareText string
	Device    string
	UserID    string
	// Refresh asks for regenerated results. Accepted for forward
	// compatibility; every run is currently computed fresh anyway.
	Refresh bool
}

// SourceProduct describes the product the user shared.
type SourceProduct struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Price    string `json:"price,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Alternative is one recommended product, ready for the API layer.
type Alternative struct {
	ID                  string            `json:"id"`
	Brand               string            `json:"brand"`
	Model               string            `json:"model"`
	Title               string            `json:"title"`
	ImageURL            string            `json:"image_url,omitempty"`
	PriceEstimate       int64             `json:"price_estimate,omitempty"`
	PriceRaw            string            `json:"price_raw,omitempty"`
	RatingEstimate      float64           `json:"rating_estimate,omitempty"`
	RatingCountEstimate int               `json:"rating_count_estimate,omitempty"`
	Specs               []string          `json:"specs"`
	WhyPick             string            `json:"why_pick"`
	Tradeoffs           []string          `json:"tradeoffs,omitempty"`
	SourceURL           string            `json:"source_url"`
	SourceSite          string            `json:"source_site"`
	DirectLink          bool              `json:"direct_link"`
	DecisionScore       float64           `json:"decision_score"`
	ScoreBreakdown      scoring.Breakdown `json:"score_breakdown"`
}

// Result is the assembled pipeline output.
type Result struct {
	RequestID    string        `json:"request_id"`
	Source       SourceProduct `json:"source"`
	Category     string        `json:"category"`
	Alternatives []Alternative `json:"alternatives"`
	Warnings     []string      `json:"warnings,omitempty"`
	QueryTime    time.Time     `json:"query_time_iso"`
	ElapsedMs    int64         `json:"elapsed_ms"`
}

// ValidationError reports that every built candidate failed the quality
// filter. It is the only pipeline error surfaced to callers.
type ValidationError struct {
	Found     int
	Discarded int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recommend: no usable alternatives (found %d, discarded %d)", e.Found, e.Discarded)
}

// Searcher grounds candidate names in live marketplace listings.
type Searcher interface {
	Lookup(ctx context.Context, name, platform string) (*search.Result, error)
}

// TitleResolver turns a URL plus share text into a product title.
type TitleResolver interface {
	Resolve(ctx context.Context, rawURL, shareText string) resolve.Resolved
}

// TextGenerator is the slice of the model pool the pipeline needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts llm.Options) (string, error)
}
