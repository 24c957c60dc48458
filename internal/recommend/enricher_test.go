package recommend

import (
	"context"
	"errors"
	"testing"
)

func TestEnrichParsesModelOutput(t *testing.T) {
	e := &Enricher{
		Gen: &fakeGen{fn: func(string) (string, error) {
			return "```json\n{\"specs\": [\"4GB RAM\", \"64GB Storage\"], \"why_pick\": \"Cheap and cheerful.\"}\n```", nil
		}},
		Logger: quietLogger(),
	}
	got := e.Enrich(context.Background(), "Lenovo Tab M10", "tablet")
	if len(got.Specs) != 2 || got.Specs[0] != "4GB RAM" {
		t.Errorf("Specs = %v", got.Specs)
	}
	if got.WhyPick != "Cheap and cheerful." {
		t.Errorf("WhyPick = %q", got.WhyPick)
	}
}

func TestEnrichCapsSpecCount(t *testing.T) {
	e := &Enricher{
		Gen: &fakeGen{fn: func(string) (string, error) {
			return `{"specs": ["a","b","c","d","e","f","g","h"], "why_pick": "x"}`, nil
		}},
		Logger: quietLogger(),
	}
	got := e.Enrich(context.Background(), "Lenovo Tab M10", "tablet")
	if len(got.Specs) != maxSpecs {
		t.Errorf("got %d specs, want %d", len(got.Specs), maxSpecs)
	}
}

func TestEnrichFallsBackOnError(t *testing.T) {
	e := &Enricher{
		Gen:    &fakeGen{fn: func(string) (string, error) { return "", errors.New("model down") }},
		Logger: quietLogger(),
	}
	got := e.Enrich(context.Background(), "HP Pavilion 15 16GB RAM Core i5-1235U", "laptop")
	if len(got.Specs) == 0 {
		t.Error("expected regex fallback specs")
	}
	if got.WhyPick == "" {
		t.Error("expected default why_pick")
	}
}

func TestEnrichFallsBackOnEmptyObject(t *testing.T) {
	e := &Enricher{
		Gen:    &fakeGen{fn: func(string) (string, error) { return `{"specs": [], "why_pick": ""}`, nil }},
		Logger: quietLogger(),
	}
	got := e.Enrich(context.Background(), "Lenovo Tab M10 4GB RAM", "tablet")
	if got.WhyPick == "" {
		t.Error("expected default why_pick")
	}
	if len(got.Specs) == 0 {
		t.Error("expected regex fallback specs")
	}
}
