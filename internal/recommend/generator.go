package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"altrec/backend/internal/classify"
	"altrec/backend/internal/jsonx"
	"altrec/backend/internal/llm"
)

const (
	minNames = 3
	maxNames = 6
)

var nameGenOptions = llm.Options{
	Temperature:     0.5,
	TopP:            0.95,
	TopK:            40,
	MaxOutputTokens: 8192,
	RelaxSafety:     true,
}

// BuildNamePrompt asks the model for competing product names in the same
// category, as a strict JSON object.
func BuildNamePrompt(title string, cat classify.Result, device string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a product research assistant for Indian e-commerce.\n\n")
	fmt.Fprintf(&sb, "Source product: %s\n", title)
	fmt.Fprintf(&sb, "Category: %s\n", cat.Tag)
	if device != "" {
		fmt.Fprintf(&sb, "User device: %s\n", device)
	}
	fmt.Fprintf(&sb, "\nList 6 alternative products a buyer should compare before purchasing.\n")
	fmt.Fprintf(&sb, "Examples of the kind of products expected: %s\n", cat.Examples)
	fmt.Fprintf(&sb, "%s\n", cat.Exclusion)
	sb.WriteString(`
Respond with JSON only, no prose, in exactly this shape:
{"product_names": ["Brand Model 1", "Brand Model 2"]}
`)
	return sb.String()
}

type nameList struct {
	ProductNames []string `json:"product_names"`
}

// NameGenerator produces 3-6 candidate names for a source product. It never
// fails: model or parse errors fall back to the static per-category lists.
type NameGenerator struct {
	Gen    TextGenerator
	Logger logrus.FieldLogger
}

// Generate returns between minNames and maxNames candidate names.
func (g *NameGenerator) Generate(ctx context.Context, title string, cat classify.Result, device string) []string {
	names := g.fromModel(ctx, title, cat, device)
	if len(names) == 0 {
		names = FallbackNames(cat.Tag, title)
	}
	return clampNames(names, cat.Tag)
}

func (g *NameGenerator) fromModel(ctx context.Context, title string, cat classify.Result, device string) []string {
	text, err := g.Gen.Generate(ctx, BuildNamePrompt(title, cat, device), nameGenOptions)
	if err != nil {
		g.logger().WithError(err).Warn("candidate name generation failed, using static fallback")
		return nil
	}
	var list nameList
	if err := jsonx.Unmarshal(text, &list); err != nil {
		g.logger().WithError(err).Warn("candidate name response unparseable, using static fallback")
		return nil
	}

	seen := make(map[string]struct{}, len(list.ProductNames))
	names := make([]string, 0, len(list.ProductNames))
	for _, n := range list.ProductNames {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, n)
	}
	return names
}

// clampNames pads short lists with numbered placeholders and truncates long
// ones, so downstream stages always see 3-6 slots.
func clampNames(names []string, category string) []string {
	if len(names) > maxNames {
		return names[:maxNames]
	}
	for i := len(names); i < minNames; i++ {
		names = append(names, fmt.Sprintf("Alternative %s %d", category, i+1))
	}
	return names
}

func (g *NameGenerator) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return logrus.StandardLogger()
}
