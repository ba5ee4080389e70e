package translate

import (
	"vyaparsetu-service/internal/textutil"
)

// hinglishMarkers are common Romanised-Hindi function words and verbs.
var hinglishMarkers = []string{
	"hoon", "hun", "hain", "hai", "main", "hum", "mera", "meri", "hamara", "hamari",
	"karta", "karti", "karte", "banata", "banati", "banate", "bechta", "bechti",
	"ke liye", "ke saath", "aur", "ka", "ki", "ke", "mein", "wala", "wali",
}

// DetectLanguage returns "hi" for Devanagari text or text with at least two
// Romanised-Hindi markers, otherwise "en".
func DetectLanguage(text string) string {
	if textutil.HasDevanagari(text) {
		return LangHindi
	}
	p := textutil.NewPhrase(text)
	hits := 0
	for _, m := range hinglishMarkers {
		if p.Contains(m) {
			hits++
			if hits >= 2 {
				return LangHindi
			}
		}
	}
	return LangEnglish
}

// ResolveLanguage returns the normalised tag, detecting it when lang is empty or "auto".
func ResolveLanguage(text, lang string) string {
	lang = NormalizeLang(lang)
	if lang == "" || lang == LangAuto {
		return DetectLanguage(text)
	}
	return lang
}
