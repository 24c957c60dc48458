package scoring

import (
	"math"
	"sort"
	"strings"
)

// Candidate is the scoring view of one alternative product.
type Candidate struct {
	Title       string
	Specs       []string
	PriceMinor  int64
	Rating      float64
	RatingCount int
}

// Breakdown exposes the five sub-scores behind a composite, each on 0-100.
type Breakdown struct {
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Review    float64 `json:"reviews"`
	Feature   float64 `json:"features"`
	Ownership float64 `json:"ownership"`
}

// Scored pairs a candidate's original slice index with its composite score.
type Scored struct {
	Index      int
	Composite  float64
	Breakdown  Breakdown
	Attributes Attributes
}

// weights sum to 1 per category family.
type weights struct {
	price, rating, review, feature, ownership float64
}

var (
	specWeights    = weights{price: 0.20, rating: 0.25, review: 0.20, feature: 0.25, ownership: 0.10}
	defaultWeights = weights{price: 0.25, rating: 0.25, review: 0.20, feature: 0.20, ownership: 0.10}
)

// normRange is a min/max pair used to project raw attribute values to 0-100.
type normRange struct{ min, max float64 }

type categoryRanges struct {
	ram, storage, battery, size normRange
}

var (
	phoneRanges = categoryRanges{
		ram:     normRange{4, 12},
		storage: normRange{64, 512},
		battery: normRange{4000, 6000},
		size:    normRange{6, 55},
	}
	laptopRanges = categoryRanges{
		ram:     normRange{8, 32},
		storage: normRange{256, 2048},
		battery: normRange{3000, 8000},
		size:    normRange{6, 55},
	}
	genericRanges = categoryRanges{
		ram:     normRange{4, 16},
		storage: normRange{64, 512},
		battery: normRange{4000, 6000},
		size:    normRange{6, 55},
	}
)

func rangesFor(category string) categoryRanges {
	switch {
	case strings.Contains(category, "phone"):
		return phoneRanges
	case strings.Contains(category, "laptop"):
		return laptopRanges
	default:
		return genericRanges
	}
}

func weightsFor(category string) weights {
	if strings.Contains(category, "phone") || strings.Contains(category, "laptop") {
		return specWeights
	}
	return defaultWeights
}

// Rank scores every candidate against the others and returns them in stable
// descending composite order. Ties keep input order.
func Rank(cands []Candidate, category string) []Scored {
	if len(cands) == 0 {
		return nil
	}

	attrs := make([]Attributes, len(cands))
	for i, c := range cands {
		attrs[i] = ExtractAttributes(c.Title, c.Specs)
	}
	ranges := observedRanges(attrs, category)

	prices := priceScores(cands)
	reviews := reviewScores(cands)
	w := weightsFor(category)

	scored := make([]Scored, len(cands))
	for i, c := range cands {
		b := Breakdown{
			Price:     prices[i],
			Rating:    ratingScore(c.Rating),
			Review:    reviews[i],
			Feature:   featureScore(category, attrs[i], ranges),
			Ownership: ownershipScore(attrs[i]),
		}
		composite := w.price*b.Price + w.rating*b.Rating + w.review*b.Review +
			w.feature*b.Feature + w.ownership*b.Ownership
		scored[i] = Scored{
			Index:      i,
			Composite:  round1(composite),
			Breakdown:  b,
			Attributes: attrs[i],
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Composite > scored[b].Composite
	})
	return scored
}

// priceScores rewards cheaper candidates relative to the cohort. With fewer
// than two distinct prices there is nothing to compare, so everyone gets the
// 50 midpoint.
func priceScores(cands []Candidate) []float64 {
	scores := make([]float64, len(cands))
	var min, max int64 = math.MaxInt64, 0
	valid := 0
	for _, c := range cands {
		if c.PriceMinor <= 0 {
			continue
		}
		valid++
		if c.PriceMinor < min {
			min = c.PriceMinor
		}
		if c.PriceMinor > max {
			max = c.PriceMinor
		}
	}
	for i, c := range cands {
		if valid < 2 || min == max || c.PriceMinor <= 0 {
			scores[i] = 50
			continue
		}
		s := 100 * float64(max-c.PriceMinor) / float64(max-min)
		scores[i] = clamp(s, 0, 100)
	}
	return scores
}

func ratingScore(rating float64) float64 {
	if rating <= 0 {
		return 50
	}
	return clamp(rating*20, 0, 100)
}

// reviewScores maps review counts onto a log scale against the cohort
// maximum. Tiny cohorts (fewer than two counted candidates, or a maximum
// under 50 reviews) carry no signal and score the 50 midpoint.
func reviewScores(cands []Candidate) []float64 {
	scores := make([]float64, len(cands))
	maxCount := 0
	valid := 0
	for _, c := range cands {
		if c.RatingCount <= 0 {
			continue
		}
		valid++
		if c.RatingCount > maxCount {
			maxCount = c.RatingCount
		}
	}
	for i, c := range cands {
		if valid < 2 || maxCount < 50 || c.RatingCount <= 0 {
			scores[i] = 50
			continue
		}
		s := 100 * math.Log(1+float64(c.RatingCount)) / math.Log(1+float64(maxCount))
		scores[i] = clamp(s, 0, 100)
	}
	return scores
}

// ownershipScore blends warranty length and energy efficiency. Neither
// signal present means a below-midpoint 40: unknown ownership cost is a
// mild negative, not a neutral.
func ownershipScore(a Attributes) float64 {
	var warranty, energy float64
	hasWarranty := a.WarrantyYears != nil
	hasEnergy := a.EnergyStar != nil

	if hasWarranty {
		switch {
		case *a.WarrantyYears >= 3:
			warranty = 100
		case *a.WarrantyYears == 2:
			warranty = 70
		case *a.WarrantyYears == 1:
			warranty = 40
		default:
			warranty = 20
		}
	}
	if hasEnergy {
		energy = clamp(float64(*a.EnergyStar)*20, 0, 100)
	}

	switch {
	case hasWarranty && hasEnergy:
		return (warranty + energy) / 2
	case hasWarranty:
		return warranty
	case hasEnergy:
		return energy
	default:
		return 40
	}
}

// observedRanges derives per-attribute normalization ranges from the
// cohort's observed min/max. An attribute with no values, or whose values
// all coincide, falls back to the category default range instead.
func observedRanges(attrs []Attributes, category string) categoryRanges {
	def := rangesFor(category)

	var rams, storages, batteries, sizes []float64
	for _, a := range attrs {
		if a.RAMGB != nil {
			rams = append(rams, float64(*a.RAMGB))
		}
		if a.StorageGB != nil {
			storages = append(storages, float64(*a.StorageGB))
		}
		if a.BatteryMAh != nil {
			batteries = append(batteries, float64(*a.BatteryMAh))
		}
		if a.DisplaySize != nil {
			sizes = append(sizes, *a.DisplaySize)
		}
	}

	return categoryRanges{
		ram:     rangeFrom(rams, def.ram),
		storage: rangeFrom(storages, def.storage),
		battery: rangeFrom(batteries, def.battery),
		size:    rangeFrom(sizes, def.size),
	}
}

func rangeFrom(vals []float64, def normRange) normRange {
	if len(vals) == 0 {
		return def
	}
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return def
	}
	return normRange{min, max}
}

func featureScore(category string, a Attributes, r categoryRanges) float64 {
	perf := PerformanceScore(category, a.Processor)
	ram := normalize(intVal(a.RAMGB), r.ram)
	storage := normalize(intVal(a.StorageGB), r.storage)
	battery := normalize(intVal(a.BatteryMAh), r.battery)

	switch {
	case strings.Contains(category, "phone"):
		return 0.30*perf + 0.25*ram + 0.25*storage + 0.20*battery
	case strings.Contains(category, "laptop"):
		return 0.30*perf + 0.25*ram + 0.20*storageTypeScore(a.StorageType) +
			0.15*displayTierScore(a.DisplayType) + 0.10*battery
	case strings.Contains(category, "tv") || strings.Contains(category, "monitor"):
		size := 50.0
		if a.DisplaySize != nil {
			size = normalize(*a.DisplaySize, r.size)
		}
		return 0.50*displayTierScore(a.DisplayType) + 0.50*size
	case category == "ac" || strings.Contains(category, "fridge") ||
		strings.Contains(category, "refrigerator") || strings.Contains(category, "appliance") ||
		strings.Contains(category, "washing"):
		if a.EnergyStar != nil {
			return clamp(float64(*a.EnergyStar)*20, 0, 100)
		}
		return 50
	default:
		return perf
	}
}

func storageTypeScore(t string) float64 {
	switch t {
	case "SSD":
		return 100
	case "HDD":
		return 60
	default:
		return 50
	}
}

func displayTierScore(t string) float64 {
	switch t {
	case "4K":
		return 100
	case "QHD":
		return 80
	case "FHD":
		return 60
	default:
		return 50
	}
}

// normalize projects v onto 0-100 within r; NaN (missing attribute) maps to
// the 50 midpoint.
func normalize(v float64, r normRange) float64 {
	if math.IsNaN(v) {
		return 50
	}
	if r.max <= r.min {
		return 50
	}
	return clamp(100*(v-r.min)/(r.max-r.min), 0, 100)
}

func intVal(p *int) float64 {
	if p == nil {
		return math.NaN()
	}
	return float64(*p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
