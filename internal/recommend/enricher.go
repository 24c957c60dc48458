package recommend

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"altrec/backend/internal/jsonx"
	"altrec/backend/internal/llm"
)

const maxSpecs = 6

var enrichOptions = llm.Options{
	Temperature:     0.3,
	MaxOutputTokens: 2048,
	RelaxSafety:     true,
}

// Enrichment is the model-provided detail for one candidate.
type Enrichment struct {
	Specs   []string `json:"specs"`
	WhyPick string   `json:"why_pick"`
}

// BuildEnrichPrompt asks for a short spec sheet and a one-line pitch.
func BuildEnrichPrompt(name, category string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Product: %s\nCategory: %s\n\n", name, category)
	sb.WriteString(`List the key technical specifications of this product and one sentence on why a buyer would pick it.

Respond with JSON only, no prose, in exactly this shape:
{"specs": ["16GB RAM", "512GB SSD"], "why_pick": "one sentence"}
`)
	return sb.String()
}

// Enricher fills in specs and a pitch for each candidate. It never fails:
// model or parse errors fall back to regex extraction from the title.
type Enricher struct {
	Gen    TextGenerator
	Logger logrus.FieldLogger
}

// Enrich returns the best available enrichment for a candidate name.
func (e *Enricher) Enrich(ctx context.Context, name, category string) Enrichment {
	text, err := e.Gen.Generate(ctx, BuildEnrichPrompt(name, category), enrichOptions)
	if err != nil {
		e.logger().WithError(err).WithField("name", name).Warn("spec enrichment failed, using regex fallback")
		return fallbackEnrichment(name, category)
	}
	var enr Enrichment
	if err := jsonx.Unmarshal(text, &enr); err != nil {
		e.logger().WithError(err).WithField("name", name).Warn("spec enrichment unparseable, using regex fallback")
		return fallbackEnrichment(name, category)
	}

	specs := make([]string, 0, maxSpecs)
	for _, s := range enr.Specs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		specs = append(specs, s)
		if len(specs) == maxSpecs {
			break
		}
	}
	enr.Specs = specs
	enr.WhyPick = strings.TrimSpace(enr.WhyPick)
	if len(enr.Specs) == 0 && enr.WhyPick == "" {
		return fallbackEnrichment(name, category)
	}
	if len(enr.Specs) == 0 {
		enr.Specs = FallbackSpecs(name)
	}
	if enr.WhyPick == "" {
		enr.WhyPick = defaultWhyPick(category)
	}
	return enr
}

var fallbackSpecPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:GB|TB)\s+(?:RAM|Storage|SSD|HDD))`),
	regexp.MustCompile(`(?i)(Core\s+i\d+[-\w]*|Ryzen\s+\d+)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*(?:inch|")\s*(?:display|screen)?)`),
	regexp.MustCompile(`(?i)(\d+(?:mAh|WHR)\s+Battery)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*cm)`),
}

// FallbackSpecs scrapes spec-looking fragments out of a product title.
func FallbackSpecs(title string) []string {
	specs := make([]string, 0, len(fallbackSpecPatterns))
	for _, p := range fallbackSpecPatterns {
		if m := p.FindStringSubmatch(title); m != nil {
			specs = append(specs, strings.TrimSpace(m[1]))
		}
	}
	return specs
}

func defaultWhyPick(category string) string {
	return fmt.Sprintf("A well-reviewed %s pick at its price point.", category)
}

func fallbackEnrichment(name, category string) Enrichment {
	return Enrichment{
		Specs:   FallbackSpecs(name),
		WhyPick: defaultWhyPick(category),
	}
}

func (e *Enricher) logger() logrus.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return logrus.StandardLogger()
}
