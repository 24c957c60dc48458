package recommend

import "fmt"

// fallbackNames are hand-picked mainstream models used when the model cannot
// produce candidate names at all. Categories without a curated list fall
// back to generic placeholders built from the source title.
var fallbackNames = map[string][]string{
	"tablet": {
		"Samsung Galaxy Tab A9",
		"Lenovo Tab M10",
		"Xiaomi Pad 6",
		"Realme Pad 2",
		"Apple iPad 10th Gen",
		"OnePlus Pad",
	},
	"laptop": {
		"HP Pavilion 15",
		"Dell Inspiron 15",
		"Lenovo IdeaPad 3",
		"ASUS VivoBook 15",
		"Acer Aspire 5",
		"MSI Modern 15",
	},
	"smartphone": {
		"Samsung Galaxy A54",
		"OnePlus Nord 3",
		"Xiaomi Redmi Note 13",
		"Realme 12 Pro",
		"Vivo V29",
		"OPPO Reno 11",
	},
	"speaker": {
		"JBL Flip 6",
		"Sony SRS-XB100",
		"boAt Stone 1200",
		"Bose SoundLink Flex",
		"Mivi Roam 2",
		"Ultimate Ears WONDERBOOM 3",
	},
}

// FallbackNames returns the static candidate list for a category, or generic
// placeholders derived from the source title.
func FallbackNames(category, sourceTitle string) []string {
	if names, ok := fallbackNames[category]; ok {
		out := make([]string, len(names))
		copy(out, names)
		return out
	}
	out := make([]string, 0, 6)
	for i := 1; i <= 6; i++ {
		out = append(out, fmt.Sprintf("%s Alternative %d", sourceTitle, i))
	}
	return out
}
