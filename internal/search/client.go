// Package search talks to the product-lookup API used to ground candidate
// names in live marketplace listings.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Result is one marketplace listing returned by a lookup.
type Result struct {
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	PriceMinor  int64   `json:"-"`
	ImageURL    string  `json:"image"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
	URL         string  `json:"url"`
}

// Config holds connection settings for the lookup API.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RPS and Burst bound the outbound request rate; the lookup provider
	// meters by request.
	RPS   float64
	Burst int
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.scraperapi.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 5
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
}

// Client is a rate-limited HTTP client for the lookup API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  logrus.FieldLogger

	// retryWait is how long to pause after a 429 before the single retry.
	retryWait time.Duration
}

// NewClient builds a Client; zero-value Config fields get sane defaults.
func NewClient(cfg Config, logger logrus.FieldLogger) *Client {
	cfg.applyDefaults()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:    logger,
		retryWait: 5 * time.Second,
	}
}

type searchResponse struct {
	Results []Result `json:"results"`
}

type productResponse struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	ImageURL string `json:"image"`
}

// Lookup finds the best marketplace listing for a product name. A nil
// Result with nil error means the lookup ran but matched nothing.
func (c *Client) Lookup(ctx context.Context, name, platform string) (*Result, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("platform", platform)
	q.Set("api_key", c.cfg.APIKey)

	body, err := c.get(ctx, c.cfg.BaseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search: lookup %q: %w", name, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("search: decode lookup response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	r := resp.Results[0]
	r.PriceMinor = PriceMinor(r.Price)
	return &r, nil
}

// Scrape fetches title, price and image for a direct product URL.
func (c *Client) Scrape(ctx context.Context, rawURL string) (title, price, imageURL string, err error) {
	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("api_key", c.cfg.APIKey)

	body, err := c.get(ctx, c.cfg.BaseURL+"/product?"+q.Encode())
	if err != nil {
		return "", "", "", fmt.Errorf("search: scrape %q: %w", rawURL, err)
	}
	var resp productResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", "", fmt.Errorf("search: decode scrape response: %w", err)
	}
	return resp.Title, resp.Price, resp.ImageURL, nil
}

// get performs one rate-limited GET. On 429 it waits once and retries,
// since the provider throttles in short bursts.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	body, status, err := c.doOnce(ctx, u)
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests {
		c.logger.Warn("lookup API throttled, waiting before retry")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryWait):
		}
		body, status, err = c.doOnce(ctx, u)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}
	return body, nil
}

func (c *Client) doOnce(ctx context.Context, u string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

var priceDigits = regexp.MustCompile(`[\d.]+`)

// PriceMinor parses a display price like "₹13,999" into minor units
// (paise). Unparseable prices return 0.
func PriceMinor(display string) int64 {
	cleaned := strings.ReplaceAll(display, ",", "")
	m := priceDigits.FindString(cleaned)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return int64(v * 100)
}
