// Package classify assigns a product category to a resolved title.
//
// Classification drives every downstream stage: the name-generation prompt,
// the enrichment prompt, the fallback name lists and the metric weights all
// key off the category tag, so a request carries exactly one category value.
package classify

import "strings"

// Result is the category tag plus the prompt-support data for that category.
type Result struct {
	Tag       string
	Examples  string
	Exclusion string
}

// rule pairs a predicate with its category outcome. Rules are evaluated in
// order and the first match wins, so accessory rules must stay ahead of the
// device rules whose keywords they share ("laptop stand" before "laptop",
// "tab" inside "tablet").
type rule struct {
	tag       string
	match     func(title string) bool
	examples  string
	exclusion string
}

var tabletBrands = []string{
	"idea", "galaxy", "mi", "lenovo", "samsung",
	"xiaomi", "realme", "kamvas", "slate", "smartchoice",
}

var rules = []rule{
	{
		tag: "laptop table/desk",
		match: func(t string) bool {
			return anyOf(t, "table", "desk", "workstation") &&
				anyOf(t, "laptop", "adjustable", "height", "foldable", "portable")
		},
		examples:  "Similar laptop table/desk products",
		exclusion: "MUST be actual laptop table/desk products, NOT accessories or related items.",
	},
	{
		tag: "laptop backpack",
		match: func(t string) bool {
			return anyOf(t, "backpack", "bag pack", "rucksack") &&
				anyOf(t, "laptop", "notebook", "macbook", "15", "16", "17")
		},
		examples:  "Similar laptop backpack products",
		exclusion: "MUST be actual laptop backpack products, NOT accessories or related items.",
	},
	{
		tag: "laptop accessory",
		match: func(t string) bool {
			return anyOf(t, "case", "cover", "sleeve", "bag", "pouch", "holder") &&
				anyOf(t, "laptop", "notebook", "macbook")
		},
		examples:  "Similar laptop accessory products",
		exclusion: "MUST be actual laptop accessory products, NOT accessories or related items.",
	},
	{
		tag: "phone accessory",
		match: func(t string) bool {
			return anyOf(t, "case", "cover", "sleeve", "pouch", "holder", "protector") &&
				anyOf(t, "phone", "mobile", "iphone", "smartphone")
		},
		examples:  "Similar phone accessory products",
		exclusion: "MUST be actual phone accessory products, NOT accessories or related items.",
	},
	{
		tag: "charger/cable",
		match: func(t string) bool {
			return anyOf(t, "charger", "adapter", "cable", "charging")
		},
		examples:  "Similar charger/cable products",
		exclusion: "MUST be actual charger/cable products, NOT accessories or related items.",
	},
	{
		tag: "stand/mount",
		match: func(t string) bool {
			return anyOf(t, "stand", "mount", "holder") && !anyOf(t, "tv", "monitor")
		},
		examples:  "Lamicall Tablet Stand, UGREEN Phone Stand, Portronics Mobile Holder",
		exclusion: "Return stand/mount products ONLY.",
	},
	{
		tag: "tablet",
		match: func(t string) bool {
			if anyOf(t, "tablet", "ipad", "pad") {
				return true
			}
			// Bare "tab" is ambiguous on its own, so it needs a known
			// tablet brand alongside it.
			return containsWord(t, "tab") && anyOf(t, tabletBrands...)
		},
		examples:  "Samsung Galaxy Tab, Lenovo Tab, Apple iPad, Realme Pad, Xiaomi Pad",
		exclusion: "DO NOT return tablet stands, tablet holders, tablet cases, or tablet accessories. ONLY return actual tablet devices.",
	},
	{
		tag: "laptop",
		match: func(t string) bool {
			return anyOf(t, "laptop", "notebook", "chromebook", "macbook")
		},
		examples:  "HP Pavilion, Dell Inspiron, Lenovo IdeaPad, ASUS VivoBook, Acer Aspire",
		exclusion: "DO NOT return laptop bags, laptop stands, laptop cases, or laptop accessories. ONLY return actual laptop computers.",
	},
	{
		tag: "keyboard",
		match: func(t string) bool {
			return anyOf(t, "keyboard")
		},
		examples:  "Similar keyboard products",
		exclusion: "MUST be actual keyboard products, NOT accessories or related items.",
	},
	{
		tag: "mouse",
		match: func(t string) bool {
			return anyOf(t, "mouse")
		},
		examples:  "Similar mouse products",
		exclusion: "MUST be actual mouse products, NOT accessories or related items.",
	},
	{
		tag: "smartphone",
		match: func(t string) bool {
			return anyOf(t, "phone", "smartphone", "mobile", "iphone")
		},
		examples:  "Samsung Galaxy, iPhone, OnePlus, Xiaomi Redmi, Realme",
		exclusion: "DO NOT return phone cases, phone covers, phone stands, or phone accessories. ONLY return actual smartphones.",
	},
	{
		tag: "speaker",
		match: func(t string) bool {
			return anyOf(t, "speaker", "soundbar")
		},
		examples:  "Similar speaker products",
		exclusion: "MUST be actual speaker products, NOT accessories or related items.",
	},
	{
		tag: "earbuds",
		match: func(t string) bool {
			return anyOf(t, "earbuds", "headphones", "earphones", "airpods")
		},
		examples:  "Similar earbuds products",
		exclusion: "MUST be actual earbuds products, NOT accessories or related items.",
	},
	{
		tag: "smartwatch",
		match: func(t string) bool {
			return anyOf(t, "watch", "smartwatch")
		},
		examples:  "Similar smartwatch products",
		exclusion: "MUST be actual smartwatch products, NOT accessories or related items.",
	},
	{
		tag: "monitor",
		match: func(t string) bool {
			return anyOf(t, "monitor", "display", "screen")
		},
		examples:  "Similar monitor products",
		exclusion: "MUST be actual monitor products, NOT accessories or related items.",
	},
}

// Classify maps a resolved product title to its category. The default
// category for unmatched titles is the generic "product".
func Classify(title string) Result {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, r := range rules {
		if r.match(lower) {
			return Result{Tag: r.tag, Examples: r.examples, Exclusion: r.exclusion}
		}
	}
	return Result{
		Tag:       "product",
		Examples:  "Similar product products",
		Exclusion: "MUST be actual product products, NOT accessories or related items.",
	}
}

func anyOf(title string, keywords ...string) bool {
	for _, kw := range keywords {
		if containsWord(title, kw) {
			return true
		}
	}
	return false
}

// containsWord matches kw only on word boundaries, so "adjustable" does not
// trigger "table" and "headphones" does not trigger "phone". Multi-word
// keywords match as phrases.
func containsWord(text, kw string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], kw)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isAlnum(text[j-1])
		end := j + len(kw)
		after := end == len(text) || !isAlnum(text[end])
		if before && after {
			return true
		}
		i = j + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
