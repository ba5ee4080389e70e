package classifier

import (
	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/textutil"
)

// Replay is a pre-validated classification reproduced verbatim for a fixed input.
type Replay struct {
	English    string // English form; echoed as translated_text when a non-English key hits
	Categories []domain.CategoryScore
	HSNCode    string
	Attributes domain.ProductAttributes
}

// ReplayHit is the result of a successful replay lookup.
type ReplayHit struct {
	Replay
	Translated bool // the key that matched was not the English form
}

// ReplayCache maps canonical input text to a Replay. It is read-only after construction.
type ReplayCache struct {
	entries map[string]ReplayHit
}

// NewReplayCache indexes each replay by its English text and by every alias.
func NewReplayCache(replays map[*Replay][]string) *ReplayCache {
	c := &ReplayCache{entries: make(map[string]ReplayHit)}
	for r, aliases := range replays {
		c.entries[textutil.Canonicalize(r.English)] = ReplayHit{Replay: *r}
		for _, a := range aliases {
			c.entries[textutil.Canonicalize(a)] = ReplayHit{Replay: *r, Translated: true}
		}
	}
	return c
}

// DefaultReplayCache holds the three onboarding demo scenarios in English and Hindi.
func DefaultReplayCache() *ReplayCache {
	return NewReplayCache(map[*Replay][]string{
		&brassReplay: {
			"Main peetal ke decorative items banata hoon - flower vase, diya stand, candle holder",
			"मैं पीतल के सजावटी सामान बनाता हूँ - फूलदान, दीया स्टैंड, मोमबत्ती स्टैंड",
		},
		&silkReplay: {
			"Banarasi silk saree banati hoon, zari work ke saath, shaadi ke liye",
			"मैं बनारसी रेशम साड़ी बनाती हूँ, ज़री के काम के साथ, शादी के लिए",
		},
		&spicesReplay: {
			"Hum organic kali mirch aur elaichi produce karte hain, export quality, FSSAI certified",
			"हम जैविक काली मिर्च और इलायची का उत्पादन करते हैं, निर्यात गुणवत्ता, FSSAI प्रमाणित",
		},
	})
}

// Lookup returns the replay for text, if any. The key is the canonical form of text.
func (c *ReplayCache) Lookup(text string) (ReplayHit, bool) {
	hit, ok := c.entries[textutil.Canonicalize(text)]
	return hit, ok
}

var brassReplay = Replay{
	English: "I make brass decorative items - flower vase, diya stand, candle holder",
	Categories: []domain.CategoryScore{
		{Category: "Home & Decor > Metalware > Brass Decoratives", Code: "HD-MW-BD", Confidence: 0.923},
		{Category: "Home & Decor > Candles & Holders > Candle Holders", Code: "HD-CH-CH", Confidence: 0.048},
		{Category: "Art & Craft > Metal Art > Metal Art", Code: "AC-MA-MA", Confidence: 0.029},
	},
	HSNCode: "7418",
	Attributes: domain.ProductAttributes{
		Material:     "Brass (Peetal)",
		ProductTypes: []string{"Flower Vase", "Diya Stand", "Candle Holder"},
		Origin:       "Moradabad",
		CraftType:    "Handcrafted Metalware",
	},
}

var silkReplay = Replay{
	English: "I make Banarasi silk sarees with zari work, for weddings",
	Categories: []domain.CategoryScore{
		{Category: "Fashion > Ethnic Wear > Silk Sarees", Code: "FA-EW-SS", Confidence: 0.961},
		{Category: "Fashion > Ethnic Wear > Handloom Sarees", Code: "FA-EW-HS", Confidence: 0.025},
		{Category: "Art & Craft > Textile Art > Textile Art", Code: "AC-TA-TA", Confidence: 0.014},
	},
	HSNCode: "5007",
	Attributes: domain.ProductAttributes{
		Material:     "Silk (Banarasi)",
		ProductTypes: []string{"Banarasi Silk Saree"},
		Origin:       "Varanasi",
		CraftType:    "Handloom Weaving",
		WorkType:     "Zari",
		Occasion:     "Wedding",
	},
}

var spicesReplay = Replay{
	English: "We produce organic black pepper and cardamom, export quality, FSSAI certified",
	Categories: []domain.CategoryScore{
		{Category: "Food & Beverages > Spices > Organic Spices", Code: "FB-SP-OS", Confidence: 0.947},
		{Category: "Food & Beverages > Spices > Whole Spices", Code: "FB-SP-WS", Confidence: 0.035},
		{Category: "Health & Beauty > Organic Products > Organic Products", Code: "HB-OP-OP", Confidence: 0.018},
	},
	HSNCode: "0904",
	Attributes: domain.ProductAttributes{
		Material:      "Organic Spices",
		ProductTypes:  []string{"Black Pepper", "Cardamom"},
		Origin:        "Kerala",
		Certification: "FSSAI",
		Quality:       "Export Grade",
	},
}
