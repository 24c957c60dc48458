// Package scoring ranks candidate products with a composite decision metric
// built from price, rating, review volume, features and ownership cost.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Attributes are the technical facts extracted from a candidate's title and
// spec lines. Pointer fields distinguish "absent" from zero.
type Attributes struct {
	RAMGB         *int
	StorageGB     *int
	BatteryMAh    *int
	DisplaySize   *float64
	WarrantyYears *int
	EnergyStar    *int
	StorageType   string // "SSD", "HDD" or ""
	DisplayType   string // "4K", "QHD", "FHD", "HD" or ""
	Processor     string
}

var (
	ramPattern         = regexp.MustCompile(`(?i)(\d+)\s*gb\s*(?:ram|ddr)`)
	storageTypedRe     = regexp.MustCompile(`(?i)(\d+)\s*(tb|gb)\s*(ssd|hdd|storage|emmc)`)
	storageBareRe      = regexp.MustCompile(`(?i)(\d+)\s*(tb|gb)`)
	batteryMAhPattern  = regexp.MustCompile(`(?i)(\d{3,5})\s*mah`)
	batteryWHRPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*whr?\b`)
	displaySizePattern = regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d{1,2})?)\s*(?:"|inch\b|in\b)`)
	warrantyPattern    = regexp.MustCompile(`(?i)(\d+)\s*(?:year|yr)`)
	energyStarPattern  = regexp.MustCompile(`(?i)(\d)\s*star`)
	hdWordPattern      = regexp.MustCompile(`(?i)\bhd\b`)

	processorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)snapdragon\s*\d+\s*(?:gen\s*\d+)?`),
		regexp.MustCompile(`(?i)dimensity\s*\d+`),
		regexp.MustCompile(`(?i)mediatek\s*\w*\s*\d+`),
		regexp.MustCompile(`(?i)apple\s*[am]\d+`),
		regexp.MustCompile(`(?i)intel\s*core\s*i\d`),
		regexp.MustCompile(`(?i)(?:amd\s*)?ryzen\s*\d`),
		regexp.MustCompile(`(?i)exynos\s*\d+`),
		regexp.MustCompile(`(?i)core\s*i\d`),
	}
)

// ExtractAttributes pulls structured attributes out of a title plus its
// spec lines. Everything it cannot find stays nil/empty.
func ExtractAttributes(title string, specs []string) Attributes {
	text := title
	if len(specs) > 0 {
		text += " " + strings.Join(specs, " ")
	}

	var a Attributes

	if m := ramPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			a.RAMGB = &v
		}
	}
	a.StorageGB = extractStorageGB(text, a.RAMGB)

	if m := batteryMAhPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			a.BatteryMAh = &v
		}
	} else if m := batteryWHRPattern.FindStringSubmatch(text); m != nil {
		if wh, err := strconv.ParseFloat(m[1], 64); err == nil {
			// Laptop batteries are quoted in watt-hours; convert at a
			// nominal 3.8V cell voltage.
			v := int(wh * 1000 / 3.8)
			a.BatteryMAh = &v
		}
	}

	if m := displaySizePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			a.DisplaySize = &v
		}
	}
	if m := warrantyPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			a.WarrantyYears = &v
		}
	}
	if m := energyStarPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			a.EnergyStar = &v
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "ssd"):
		a.StorageType = "SSD"
	case strings.Contains(lower, "hdd"):
		a.StorageType = "HDD"
	}

	switch {
	case strings.Contains(lower, "4k") || strings.Contains(lower, "uhd"):
		a.DisplayType = "4K"
	case strings.Contains(lower, "qhd") || strings.Contains(lower, "2k"):
		a.DisplayType = "QHD"
	case strings.Contains(lower, "fhd") || strings.Contains(lower, "full hd") || strings.Contains(lower, "1080"):
		a.DisplayType = "FHD"
	case strings.Contains(lower, "720") || hdWordPattern.MatchString(text):
		a.DisplayType = "HD"
	}

	for _, p := range processorPatterns {
		if m := p.FindString(text); m != "" {
			a.Processor = strings.Join(strings.Fields(m), " ")
			break
		}
	}

	return a
}

// extractStorageGB prefers matches with an explicit storage keyword so a
// bare "16GB RAM" is not mistaken for the storage figure.
func extractStorageGB(text string, ramGB *int) *int {
	if m := storageTypedRe.FindStringSubmatch(text); m != nil {
		return storageToGB(m[1], m[2])
	}
	for _, m := range storageBareRe.FindAllStringSubmatch(text, -1) {
		gb := storageToGB(m[1], m[2])
		if gb == nil {
			continue
		}
		if ramGB != nil && *gb == *ramGB {
			continue
		}
		return gb
	}
	return nil
}

func storageToGB(num, unit string) *int {
	v, err := strconv.Atoi(num)
	if err != nil {
		return nil
	}
	if strings.EqualFold(unit, "tb") {
		v *= 1024
	}
	return &v
}

// PerformanceScore maps a processor string to a 0-100 tier for the given
// category. Unknown processors land at 60, missing ones at the 50 midpoint.
func PerformanceScore(category, processor string) float64 {
	if processor == "" {
		return 50
	}
	p := strings.ToUpper(processor)

	switch {
	case strings.Contains(category, "laptop"):
		switch {
		case strings.Contains(p, "I9") || strings.Contains(p, "RYZEN 9"):
			return 95
		case strings.Contains(p, "I7") || strings.Contains(p, "RYZEN 7"):
			return 85
		case strings.Contains(p, "I5") || strings.Contains(p, "RYZEN 5"):
			return 75
		case strings.Contains(p, "I3") || strings.Contains(p, "RYZEN 3"):
			return 65
		default:
			return 60
		}
	case strings.Contains(category, "phone"):
		switch {
		case strings.Contains(p, "SNAPDRAGON 8") || strings.Contains(p, "APPLE A1") || strings.Contains(p, "DIMENSITY 9"):
			return 95
		case strings.Contains(p, "SNAPDRAGON 7") || strings.Contains(p, "DIMENSITY 8"):
			return 85
		case strings.Contains(p, "SNAPDRAGON 6") || strings.Contains(p, "DIMENSITY 7"):
			return 75
		case strings.Contains(p, "SNAPDRAGON 4") || strings.Contains(p, "DIMENSITY 6"):
			return 65
		default:
			return 60
		}
	default:
		// Tier tables only exist for phones and laptops; any recognised
		// processor elsewhere is a flat above-midpoint signal.
		return 60
	}
}
