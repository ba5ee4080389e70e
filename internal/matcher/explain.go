package matcher

import (
	"fmt"
	"sort"

	"vyaparsetu-service/internal/domain"
)

type factorLabel struct {
	en, hi string
}

var (
	labelDomain         = factorLabel{"domain", "डोमेन मैच"}
	labelGeography      = factorLabel{"geography", "भौगोलिक पहुँच"}
	labelCapacity       = factorLabel{"capacity", "क्षमता"}
	labelHistory        = factorLabel{"track record", "ट्रैक रिकॉर्ड"}
	labelSpecialization = factorLabel{"specialization", "विशेषज्ञता"}
)

// explain templates the two factors that contributed most to the weighted score.
func (m *Matcher) explain(r domain.MatchResult) (string, string) {
	type contribution struct {
		label factorLabel
		value float64
	}
	cs := []contribution{
		{labelDomain, m.weights.Domain * r.Factors.Domain},
		{labelGeography, m.weights.Geography * r.Factors.Geography},
		{labelCapacity, m.weights.Capacity * r.Factors.Capacity},
		{labelHistory, m.weights.History * r.Factors.History},
		{labelSpecialization, m.weights.Specialization * r.Factors.Specialization},
	}
	// Stable so that equal contributions keep factor order.
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].value > cs[j].value })

	first, second := cs[0].label, cs[1].label
	en := fmt.Sprintf("%s is a strong fit on %s and %s (match score %.2f).", r.Platform, first.en, second.en, r.Score)
	hi := fmt.Sprintf("%s आपके लिए अच्छा विकल्प है: %s और %s में मज़बूत मेल (मैच स्कोर %.2f)।", r.Platform, first.hi, second.hi, r.Score)
	return en, hi
}
