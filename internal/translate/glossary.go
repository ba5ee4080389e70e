package translate

import (
	"context"
	"sort"
	"strings"

	"vyaparsetu-service/internal/textutil"
)

// defaultGlossary maps Hindi (Devanagari and Romanised) terms to English.
// An empty value drops the term.
var defaultGlossary = map[string]string{
	// function words
	"main": "I", "mai": "I", "मैं": "I", "hum": "we", "हम": "we",
	"hoon": "", "hun": "", "हूँ": "", "हूं": "", "hain": "", "हैं": "", "hai": "", "है": "",
	"ke": "", "ka": "", "ki": "", "के": "", "का": "", "की": "",
	"aur": "and", "और": "and", "mein": "in", "में": "in",
	"ke liye": "for", "के लिए": "for", "ke saath": "with", "के साथ": "with",
	"karta": "make", "karti": "make", "karte": "make", "banata": "make", "banati": "make", "banate": "make",
	"बनाता": "make", "बनाती": "make", "बनाते": "make", "bechta": "sell", "bechti": "sell", "बेचता": "sell",
	"wala": "", "wali": "",

	// materials and products
	"peetal": "brass", "pital": "brass", "पीतल": "brass",
	"resham": "silk", "रेशम": "silk", "reshmi": "silk",
	"sadi": "saree", "saadi": "saree", "साड़ी": "saree", "साडी": "saree",
	"zari": "zari", "ज़री": "zari", "जरी": "zari",
	"diya": "diya", "दीया": "diya", "दिया": "diya",
	"phooldaan": "flower vase", "फूलदान": "flower vase",
	"mombatti": "candle", "मोमबत्ती": "candle",
	"lakdi": "wood", "लकड़ी": "wood", "mitti": "clay", "मिट्टी": "clay",
	"chamda": "leather", "चमड़ा": "leather",
	"kali mirch": "black pepper", "काली मिर्च": "black pepper",
	"elaichi": "cardamom", "इलायची": "cardamom",
	"haldi": "turmeric", "हल्दी": "turmeric",
	"masala": "spices", "masale": "spices", "मसाले": "spices", "मसाला": "spices",
	"achar": "pickle", "अचार": "pickle",
	"jaivik": "organic", "जैविक": "organic",
	"shaadi": "wedding", "शादी": "wedding", "vivah": "wedding",
	"sajawati": "decorative", "सजावटी": "decorative",
	"hastnirmit": "handmade", "हस्तनिर्मित": "handmade",
	"niryat": "export", "निर्यात": "export",
}

// GlossaryTranslator is an offline Hindi to English term translator. It keeps
// unknown words so that downstream keyword matching still sees them.
type GlossaryTranslator struct {
	phrases [][]string // glossary keys split into words, longest first
	lookup  map[string]string
}

// NewGlossaryTranslator builds a translator from glossary; nil uses the built-in one.
func NewGlossaryTranslator(glossary map[string]string) *GlossaryTranslator {
	if glossary == nil {
		glossary = defaultGlossary
	}
	g := &GlossaryTranslator{lookup: make(map[string]string, len(glossary))}
	for k, v := range glossary {
		words := textutil.Words(k)
		if len(words) == 0 {
			continue
		}
		g.lookup[strings.Join(words, " ")] = v
		g.phrases = append(g.phrases, words)
	}
	sort.Slice(g.phrases, func(i, j int) bool {
		if len(g.phrases[i]) != len(g.phrases[j]) {
			return len(g.phrases[i]) > len(g.phrases[j])
		}
		return strings.Join(g.phrases[i], " ") < strings.Join(g.phrases[j], " ")
	})
	return g
}

// Translate supports hi -> en only; identical source and target return text unchanged.
func (g *GlossaryTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	source, target = NormalizeLang(source), NormalizeLang(target)
	if source == target {
		return text, nil
	}
	if source != LangHindi || target != LangEnglish {
		return "", ErrUnsupportedPair
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := textutil.Words(text)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		n, repl := g.match(words[i:])
		if n == 0 {
			out = append(out, words[i])
			i++
			continue
		}
		if repl != "" {
			out = append(out, repl)
		}
		i += n
	}
	return strings.Join(out, " "), nil
}

// match returns the length of the longest glossary phrase at the head of words.
func (g *GlossaryTranslator) match(words []string) (int, string) {
	for _, p := range g.phrases {
		if len(p) > len(words) {
			continue
		}
		ok := true
		for i := range p {
			if p[i] != words[i] {
				ok = false
				break
			}
		}
		if ok {
			return len(p), g.lookup[strings.Join(p, " ")]
		}
	}
	return 0, ""
}
