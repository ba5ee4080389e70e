// Package matcher ranks marketplaces for a merchant's product category.
package matcher

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/platform"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/textutil"
)

var (
	ErrCategoryRequired = errors.New("matcher: category is required")
	ErrUnknownCategory  = errors.New("matcher: unknown category")
)

// TopN is the number of recommendations returned.
const TopN = 3

const (
	historyBaseline     = 0.4
	nationalGeography   = 0.9
	regionalMatch       = 1.0
	regionalMismatch    = 0.3
	regionalUnknown     = 0.5
	specializationBase  = 0.3
	businessTypeBonus   = 0.4
	traitBonus          = 0.3
	earthRadiusKM       = 6371.0
	geoDecayKM          = 2000.0
	minGeographyByRange = 0.3
)

// traitKeywords infers product traits from a free-text description. Keys are
// specialization tags.
var traitKeywords = map[string][]string{
	"export":      {"export", "exports", "exporter", "international", "niryat", "निर्यात"},
	"wedding":     {"wedding", "weddings", "shaadi", "शादी", "bridal", "vivah", "विवाह"},
	"handcrafted": {"handmade", "handcrafted", "handicraft", "handicrafts", "artisan", "karigar", "कारीगर"},
	"organic":     {"organic", "jaivik", "जैविक"},
	"wholesale":   {"wholesale", "bulk", "b2b", "thok", "थोक"},
	"fashion":     {"saree", "sarees", "kurta", "kurtas", "apparel", "ethnic wear", "dupatta"},
}

// Matcher scores every registered platform against a merchant request.
type Matcher struct {
	taxonomy *taxonomy.Store
	registry *platform.Registry
	weights  domain.MatchWeights
	logger   *zap.Logger
}

// New creates a Matcher. Zero weights fall back to the defaults.
func New(tax *taxonomy.Store, reg *platform.Registry, weights domain.MatchWeights, logger *zap.Logger) *Matcher {
	if weights.Sum() == 0 {
		weights = domain.DefaultMatchWeights
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{taxonomy: tax, registry: reg, weights: weights, logger: logger}
}

// Recommend returns exactly the top three platforms for req, best first.
func (m *Matcher) Recommend(req domain.MatchRequest) ([]domain.MatchResult, error) {
	if strings.TrimSpace(req.Category) == "" {
		return nil, ErrCategoryRequired
	}
	path, ok := m.taxonomy.Resolve(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, req.Category)
	}

	desc := textutil.NewPhrase(req.Description)
	loc := textutil.NewPhrase(req.Location)

	results := make([]domain.MatchResult, 0, len(m.registry.Profiles()))
	for _, p := range m.registry.Profiles() {
		f := domain.MatchFactors{
			Domain:         m.domainScore(path, p),
			Geography:      m.geographyScore(loc, req.Coordinates, p),
			Capacity:       clamp01(p.CapacityScore),
			History:        historyScore(path, p),
			Specialization: specializationScore(req.BusinessType, desc, p),
		}
		score := m.weights.Domain*f.Domain +
			m.weights.Geography*f.Geography +
			m.weights.Capacity*f.Capacity +
			m.weights.History*f.History +
			m.weights.Specialization*f.Specialization

		results = append(results, domain.MatchResult{
			Platform: p.Name,
			Score:    round2(score),
			Factors:  roundFactors(f),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Platform < results[j].Platform
	})
	if len(results) > TopN {
		results = results[:TopN]
	}
	for i := range results {
		results[i].ExplanationEN, results[i].ExplanationHI = m.explain(results[i])
	}

	m.logger.Debug("platforms ranked",
		zap.String("category", strings.Join(path, domain.PathSeparator)),
		zap.Int("candidates", len(m.registry.Profiles())),
	)
	return results, nil
}

// domainScore is the best overlap between the request path and any supported domain:
// exact 1.0, level-two ancestor 0.9, level-one ancestor 0.8, broader request 0.7,
// shared leaf words 0.55, otherwise 0.2.
func (m *Matcher) domainScore(path []string, p domain.PlatformProfile) float64 {
	best := 0.2
	for _, d := range p.SupportedDomains {
		labels, ok := m.taxonomy.Resolve(d)
		if !ok {
			labels = domain.SplitPath(d)
		}
		var s float64
		switch {
		case equalLabels(labels, path):
			s = 1.0
		case isPrefix(labels, path):
			if len(labels) >= 2 {
				s = 0.9
			} else {
				s = 0.8
			}
		case isPrefix(path, labels):
			s = 0.7
		case sharesWords(labels, path):
			s = 0.55
		}
		best = math.Max(best, s)
	}
	return best
}

func (m *Matcher) geographyScore(loc textutil.Phrase, at *domain.GeoPoint, p domain.PlatformProfile) float64 {
	if p.National() {
		return nationalGeography
	}
	if at != nil && p.Hub != nil {
		d := haversineKM(*at, *p.Hub)
		return math.Max(minGeographyByRange, 1-d/geoDecayKM)
	}
	if strings.TrimSpace(string(loc)) == "" {
		return regionalUnknown
	}
	for _, region := range p.ServiceRegions {
		for _, term := range m.registry.RegionTerms(region) {
			if loc.Contains(term) {
				return regionalMatch
			}
		}
	}
	return regionalMismatch
}

// historyScore looks up the most specific recorded track record for the path.
func historyScore(path []string, p domain.PlatformProfile) float64 {
	for depth := len(path); depth > 0; depth-- {
		key := strings.Join(path[:depth], domain.PathSeparator)
		for k, v := range p.HistoryByDomain {
			if strings.EqualFold(k, key) {
				return clamp01(v)
			}
		}
	}
	return historyBaseline
}

func specializationScore(businessType string, desc textutil.Phrase, p domain.PlatformProfile) float64 {
	s := specializationBase
	bt := strings.TrimSpace(businessType)
	for _, tag := range p.SpecializationTag {
		if bt != "" && strings.EqualFold(tag, bt) {
			s += businessTypeBonus
			continue
		}
		for _, kw := range traitKeywords[strings.ToLower(tag)] {
			if desc.Contains(kw) {
				s += traitBonus
				break
			}
		}
	}
	return math.Min(1, s)
}

func haversineKM(a, b domain.GeoPoint) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

func equalLabels(a, b []string) bool {
	return len(a) == len(b) && isPrefix(a, b)
}

// isPrefix reports whether a is a prefix of b.
func isPrefix(a, b []string) bool {
	if len(a) == 0 || len(a) > len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sharesWords(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	words := map[string]bool{}
	for _, w := range textutil.Words(a[len(a)-1]) {
		words[w] = true
	}
	for _, w := range textutil.Words(b[len(b)-1]) {
		if words[w] {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundFactors(f domain.MatchFactors) domain.MatchFactors {
	return domain.MatchFactors{
		Domain:         round2(f.Domain),
		Geography:      round2(f.Geography),
		Capacity:       round2(f.Capacity),
		History:        round2(f.History),
		Specialization: round2(f.Specialization),
	}
}
