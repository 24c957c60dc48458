package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"altrec/backend/internal/classify"
	"altrec/backend/internal/resolve"
	"altrec/backend/internal/scoring"
	"altrec/backend/internal/search"
	"altrec/backend/internal/util"
)

// Stage names reported through the Progress hook.
const (
	StageResolve  = "resolve"
	StageClassify = "classify"
	StageNames    = "names"
	StageSearch   = "search"
	StageEnrich   = "enrich"
	StageRank     = "rank"
	StageDone     = "done"
)

// Pipeline wires the recommendation stages together. All stages degrade
// gracefully except the quality filter, whose ValidationError is the one
// failure callers see.
type Pipeline struct {
	Gen      TextGenerator
	Search   Searcher
	Resolver TitleResolver
	Logger   logrus.FieldLogger

	SearchTimeout time.Duration
	EnrichTimeout time.Duration

	// Progress, when set, receives stage transitions for streaming
	// clients. It must be safe to call from the request goroutine.
	Progress func(requestID, stage, message string)
}

// Run executes the pipeline for one query.
func (p *Pipeline) Run(ctx context.Context, q Query) (*Result, error) {
	requestID := uuid.NewString()
	timer := util.StartTimer()
	log := p.logger().WithFields(logrus.Fields{
		"request_id": requestID,
		"url":        q.URL,
	})

	platform := resolve.DetectPlatform(q.URL)

	p.progress(requestID, StageResolve, "resolving product title")
	resolved := p.Resolver.Resolve(ctx, q.URL, q.ShareText)
	log = log.WithField("title", resolved.Title)
	log.WithField("from_share_text", resolved.FromShareText).Info("resolved source product")

	p.progress(requestID, StageClassify, "classifying product")
	cat := classify.Classify(resolved.Title)
	log.WithField("category", cat.Tag).Info("classified source product")

	p.progress(requestID, StageNames, "generating candidate names")
	gen := &NameGenerator{Gen: p.Gen, Logger: log}
	names := gen.Generate(ctx, resolved.Title, cat, q.Device)
	log.WithField("candidates", len(names)).Info("generated candidate names")

	p.progress(requestID, StageSearch, fmt.Sprintf("searching %d candidates", len(names)))
	lookups := p.fanOutSearch(ctx, log, names, platform)

	p.progress(requestID, StageEnrich, "enriching candidate specs")
	enrichments := p.fanOutEnrich(ctx, names, lookups, cat.Tag)

	alts, warnings, err := p.buildAndFilter(log, names, platform, lookups, enrichments)
	if err != nil {
		return nil, err
	}

	p.progress(requestID, StageRank, "ranking alternatives")
	ranked := p.rank(alts, cat.Tag)

	p.progress(requestID, StageDone, "done")
	elapsed := timer.ElapsedMs()
	log.WithFields(logrus.Fields{
		"alternatives": len(ranked),
		"elapsed_ms":   elapsed,
	}).Info("recommendation complete")

	return &Result{
		RequestID: requestID,
		Source: SourceProduct{
			Title:    resolved.Title,
			Platform: platform,
			URL:      q.URL,
			Price:    resolved.Price,
			ImageURL: resolved.ImageURL,
		},
		Category:     cat.Tag,
		Alternatives: ranked,
		Warnings:     warnings,
		QueryTime:    time.Now().UTC(),
		ElapsedMs:    elapsed,
	}, nil
}

// fanOutSearch looks every name up concurrently. Each result lands in the
// slot matching its name's position, so candidate order is deterministic
// regardless of completion order. Failed or empty lookups leave nil slots.
func (p *Pipeline) fanOutSearch(ctx context.Context, log logrus.FieldLogger, names []string, platform string) []*search.Result {
	timeout := p.SearchTimeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	results := make([]*search.Result, len(names))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			res, err := p.Search.Lookup(cctx, name, platform)
			if err != nil {
				log.WithError(err).WithField("name", name).Warn("candidate lookup failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			results[i] = res
		}(i, name)
	}
	wg.Wait()

	found := 0
	for _, r := range results {
		if r != nil {
			found++
		}
	}
	log.WithFields(logrus.Fields{
		"found":  found,
		"failed": failed,
		"total":  len(names),
	}).Info("candidate search complete")
	return results
}

// fanOutEnrich fetches specs for every candidate concurrently, preferring
// the live listing title over the generated name.
func (p *Pipeline) fanOutEnrich(ctx context.Context, names []string, lookups []*search.Result, category string) []Enrichment {
	timeout := p.EnrichTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	enricher := &Enricher{Gen: p.Gen, Logger: p.logger()}

	enrichments := make([]Enrichment, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i]
			if lookups[i] != nil && lookups[i].Title != "" {
				name = lookups[i].Title
			}
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			enrichments[i] = enricher.Enrich(cctx, name, category)
		}(i)
	}
	wg.Wait()
	return enrichments
}

// buildAndFilter assembles candidates and applies the quality gate. When
// nothing survives it returns a ValidationError carrying the counts.
func (p *Pipeline) buildAndFilter(log logrus.FieldLogger, names []string, platform string, lookups []*search.Result, enrichments []Enrichment) ([]Alternative, []string, error) {
	kept := make([]Alternative, 0, len(names))
	discarded := 0
	for i, name := range names {
		alt := buildAlternative(name, platform, lookups[i], enrichments[i])
		v := assessQuality(alt)
		if !v.keep {
			discarded++
			log.WithField("candidate", discardReason(name, v)).Info("discarded low-quality candidate")
			continue
		}
		// Surviving candidates still surface what data they are missing.
		alt.Tradeoffs = v.issues
		kept = append(kept, alt)
	}

	if len(kept) == 0 {
		return nil, nil, &ValidationError{Found: len(names), Discarded: discarded}
	}

	var warnings []string
	if len(kept) < 3 {
		warnings = append(warnings, fmt.Sprintf("Only %d alternatives found", len(kept)))
	}
	if discarded > 0 {
		warnings = append(warnings, fmt.Sprintf("Filtered out %d low-quality results", discarded))
	}
	return kept, warnings, nil
}

// rank orders survivors by composite decision score.
func (p *Pipeline) rank(alts []Alternative, category string) []Alternative {
	cands := make([]scoring.Candidate, len(alts))
	for i, a := range alts {
		cands[i] = scoring.Candidate{
			Title:       a.Title,
			Specs:       a.Specs,
			PriceMinor:  a.PriceEstimate,
			Rating:      a.RatingEstimate,
			RatingCount: a.RatingCountEstimate,
		}
	}

	ranked := scoring.Rank(cands, category)
	out := make([]Alternative, 0, len(ranked))
	for _, s := range ranked {
		alt := alts[s.Index]
		alt.DecisionScore = s.Composite
		alt.ScoreBreakdown = s.Breakdown
		out = append(out, alt)
	}
	return out
}

func (p *Pipeline) progress(requestID, stage, message string) {
	if p.Progress != nil {
		p.Progress(requestID, stage, message)
	}
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return logrus.StandardLogger()
}
