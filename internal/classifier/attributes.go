package classifier

import (
	"sort"
	"strings"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/textutil"
)

// rule maps any of its terms to a value. Rules are tried in order and the
// first hit wins.
type rule struct {
	terms []string
	value string
}

func firstMatch(text textutil.Phrase, rules []rule) string {
	for _, r := range rules {
		for _, t := range r.terms {
			if text.Contains(t) {
				return r.value
			}
		}
	}
	return ""
}

var materialRules = []rule{
	{[]string{"peetal", "pital", "पीतल"}, "Brass (Peetal)"},
	{[]string{"brass"}, "Brass"},
	{[]string{"banarasi silk", "banarasi saree", "banarasi sarees"}, "Silk (Banarasi)"},
	{[]string{"silk", "resham", "रेशम"}, "Silk"},
	{[]string{"pashmina"}, "Pashmina Wool"},
	{[]string{"wool", "woollen"}, "Wool"},
	{[]string{"cotton"}, "Cotton"},
	{[]string{"sheesham"}, "Sheesham Wood"},
	{[]string{"wood", "wooden", "lakdi", "लकड़ी"}, "Wood"},
	{[]string{"leather", "chamda", "चमड़ा"}, "Leather"},
	{[]string{"terracotta", "clay", "mitti", "मिट्टी"}, "Terracotta"},
	{[]string{"jute", "जूट"}, "Jute"},
	{[]string{"copper", "tamba"}, "Copper"},
}

// organicRule applies to food leaves when the text mentions organic produce.
var organicRule = rule{[]string{"organic", "jaivik", "जैविक"}, "Organic Spices"}

var productRules = []rule{
	{[]string{"flower vase", "phooldaan", "फूलदान"}, "Flower Vase"},
	{[]string{"vase"}, "Vase"},
	{[]string{"diya stand"}, "Diya Stand"},
	{[]string{"diya", "diyas", "दीया"}, "Diya"},
	{[]string{"candle holder", "candle holders", "candle stand"}, "Candle Holder"},
	{[]string{"banarasi silk saree", "banarasi silk sarees"}, "Banarasi Silk Saree"},
	{[]string{"silk saree", "silk sarees"}, "Silk Saree"},
	{[]string{"saree", "sarees", "sari", "साड़ी"}, "Saree"},
	{[]string{"kurta", "kurtas", "kurti", "कुर्ता"}, "Kurta"},
	{[]string{"shawl", "shawls", "stole", "शॉल"}, "Shawl"},
	{[]string{"black pepper", "kali mirch", "काली मिर्च"}, "Black Pepper"},
	{[]string{"cardamom", "elaichi", "इलायची"}, "Cardamom"},
	{[]string{"turmeric", "haldi", "हल्दी"}, "Turmeric"},
	{[]string{"cinnamon", "dalchini"}, "Cinnamon"},
	{[]string{"clove", "cloves", "laung"}, "Clove"},
	{[]string{"pickle", "pickles", "achar", "अचार"}, "Pickle"},
	{[]string{"table", "tables"}, "Table"},
	{[]string{"chair", "chairs"}, "Chair"},
	{[]string{"jute bag", "jute bags"}, "Jute Bag"},
	{[]string{"handbag", "handbags"}, "Handbag"},
	{[]string{"wallet", "wallets"}, "Wallet"},
	{[]string{"jutti", "juttis", "mojari"}, "Jutti"},
	{[]string{"shoes", "footwear"}, "Footwear"},
	{[]string{"kulhad", "matka"}, "Earthenware"},
	{[]string{"statue", "idol", "murti", "मूर्ति"}, "Statue"},
}

var originRules = []rule{
	{[]string{"moradabad"}, "Moradabad"},
	{[]string{"varanasi", "banaras", "banarasi", "बनारसी"}, "Varanasi"},
	{[]string{"kanchipuram", "kanjeevaram"}, "Kanchipuram"},
	{[]string{"kerala", "kochi", "malabar"}, "Kerala"},
	{[]string{"lucknow", "chikankari"}, "Lucknow"},
	{[]string{"kashmir", "pashmina"}, "Kashmir"},
	{[]string{"jaipur"}, "Jaipur"},
	{[]string{"saharanpur"}, "Saharanpur"},
	{[]string{"kolhapur", "kolhapuri"}, "Kolhapur"},
	{[]string{"khurja"}, "Khurja"},
}

var certificationRules = []rule{
	{[]string{"fssai"}, "FSSAI"},
	{[]string{"gi tag", "gi tagged", "geographical indication"}, "GI Tag"},
	{[]string{"silk mark"}, "Silk Mark"},
	{[]string{"handloom mark"}, "Handloom Mark"},
	{[]string{"india organic", "organic certified", "certified organic"}, "India Organic"},
	{[]string{"iso"}, "ISO"},
}

var qualityRules = []rule{
	{[]string{"export quality", "export grade", "niryat gunvatta", "निर्यात गुणवत्ता"}, "Export Grade"},
	{[]string{"premium"}, "Premium"},
	{[]string{"handmade", "handcrafted", "hastnirmit", "हस्तनिर्मित"}, "Handmade"},
}

var occasionRules = []rule{
	{[]string{"wedding", "weddings", "shaadi", "शादी", "bridal", "vivah"}, "Wedding"},
	{[]string{"diwali", "दिवाली"}, "Diwali"},
	{[]string{"festival", "festive", "tyohar", "त्योहार"}, "Festive"},
	{[]string{"puja", "pooja", "पूजा"}, "Puja"},
}

var workTypeRules = []rule{
	{[]string{"zari", "ज़री", "जरी"}, "Zari"},
	{[]string{"chikankari"}, "Chikankari"},
	{[]string{"meenakari"}, "Meenakari"},
	{[]string{"block print", "block printed"}, "Block Print"},
	{[]string{"embroidery", "embroidered", "kadhai"}, "Embroidery"},
}

// extractAttributes pulls attributes out of text for the matched leaf. location
// is used as the origin when the text names none.
func extractAttributes(text textutil.Phrase, top domain.TaxonomyNode, location string) domain.ProductAttributes {
	attrs := domain.ProductAttributes{
		Material:      firstMatch(text, materialRules),
		ProductTypes:  productTypes(text),
		Origin:        firstMatch(text, originRules),
		CraftType:     top.CraftType,
		Certification: firstMatch(text, certificationRules),
		Quality:       firstMatch(text, qualityRules),
		Occasion:      firstMatch(text, occasionRules),
		WorkType:      firstMatch(text, workTypeRules),
	}
	if len(top.Path) > 0 && top.Path[0] == "Food & Beverages" && attrs.Material == "" {
		attrs.Material = firstMatch(text, []rule{organicRule})
	}
	if attrs.CraftType == "" && text.Contains("handloom") {
		attrs.CraftType = "Handloom Weaving"
	}
	if attrs.Origin == "" {
		if parts := strings.Split(location, ","); strings.TrimSpace(parts[0]) != "" && !strings.EqualFold(strings.TrimSpace(parts[0]), "india") {
			attrs.Origin = textutil.Title(strings.TrimSpace(parts[0]))
		}
	}
	return attrs
}

// productTypes lists every product rule that matches, in order of first
// occurrence. A value whose words are all part of a longer match is dropped
// ("Vase" inside "Flower Vase").
func productTypes(text textutil.Phrase) []string {
	type hit struct {
		value string
		pos   int
	}
	var hits []hit
	for _, r := range productRules {
		for _, t := range r.terms {
			if pos := strings.Index(string(text), string(textutil.NewPhrase(t))); pos >= 0 {
				hits = append(hits, hit{value: r.value, pos: pos})
				break
			}
		}
	}

	out := make([]hit, 0, len(hits))
	for _, h := range hits {
		covered := false
		for _, other := range hits {
			if other.value != h.value && len(other.value) > len(h.value) && containsWords(other.value, h.value) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })

	values := make([]string, 0, len(out))
	for _, h := range out {
		values = append(values, h.value)
	}
	return values
}

func containsWords(long, short string) bool {
	return textutil.NewPhrase(long).Contains(short)
}
