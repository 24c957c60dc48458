package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pool rotates across multiple Gemini credentials and retries transient
// failures with exponential backoff. The rotation index is shared and
// monotonic: once a credential hits its quota, later calls start from the
// next one instead of rediscovering the exhausted key.
type Pool struct {
	mu      sync.Mutex
	clients []Generator
	index   int

	maxAttempts int
	baseDelay   time.Duration
	logger      logrus.FieldLogger

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// PoolConfig tunes retry behaviour for a Pool.
type PoolConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      logrus.FieldLogger
}

// NewPool builds a Pool over the given credentials. At least one is required.
func NewPool(clients []Generator, cfg PoolConfig) (*Pool, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("llm: pool needs at least one credential")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pool{
		clients:     clients,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		logger:      logger,
		sleep:       sleepCtx,
	}, nil
}

// Index returns the current rotation position.
func (p *Pool) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

func (p *Pool) current() (Generator, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clients[p.index], p.index
}

// advance moves the shared index past an exhausted credential. It never
// wraps: once the last credential is reached there is nowhere left to
// rotate, and advance reports false. A concurrent caller may already have
// rotated, in which case the index stays put.
func (p *Pool) advance(from int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if from >= len(p.clients)-1 {
		return false
	}
	if p.index == from {
		p.index = from + 1
	}
	return true
}

// Generate runs prompt against the pool. Quota errors rotate to the next
// credential without consuming a retry attempt; transient errors back off
// exponentially on the same credential; any other error returns immediately.
func (p *Pool) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	attempt := 0
	for {
		client, idx := p.current()
		text, err := client.Generate(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}

		switch {
		case IsQuota(err):
			if !p.advance(idx) {
				return "", fmt.Errorf("llm: all credentials exhausted: %w", err)
			}
			p.logger.WithError(err).WithField("credential", idx).Warn("credential quota exhausted, rotating")
			continue
		case IsTransient(err):
			attempt++
			if attempt >= p.maxAttempts {
				return "", fmt.Errorf("llm: giving up after %d attempts: %w", attempt, err)
			}
			delay := p.baseDelay << (attempt - 1)
			p.logger.WithError(err).WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("transient model failure, backing off")
			if serr := p.sleep(ctx, delay); serr != nil {
				return "", serr
			}
			continue
		default:
			return "", err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
