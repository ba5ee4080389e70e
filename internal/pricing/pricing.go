// Package pricing answers price benchmark, seasonality and regional expansion
// questions for a product category.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/textutil"
)

var ErrInvalidPrice = errors.New("pricing: your_price must be a positive number")

const (
	unknownSeason  = "Unknown"
	neutralBandPct = 5
	expansionTopN  = 3
	demandBaseline = 100
)

// Query is one benchmark request. YourPrice and Location are optional.
type Query struct {
	Category  string
	YourPrice string
	Location  string
}

// Service serves pricing benchmarks from static market data.
type Service struct {
	profiles []categoryProfile
	logger   *zap.Logger
}

// New creates a Service over the built-in market data.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{profiles: defaultProfiles, logger: logger}
}

// Categories lists the category paths that have market data.
func (s *Service) Categories() []string {
	out := make([]string, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Path)
	}
	return out
}

// Benchmark computes the pricing answer for q. An unknown category is not an
// error: the result carries empty lists and null insights.
func (s *Service) Benchmark(q Query) (*domain.PricingBenchmark, error) {
	start := time.Now()

	var price *decimal.Decimal
	if raw := strings.TrimSpace(q.YourPrice); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
		}
		price = &d
	}

	profile, ok := s.lookup(q.Category)
	if !ok {
		s.logger.Debug("no market data for category", zap.String("category", q.Category))
		return &domain.PricingBenchmark{
			Category:         q.Category,
			CategoryPath:     q.Category,
			Products:         []domain.ProductStats{},
			DemandTrends:     []domain.DemandPoint{},
			PeakSeason:       unknownSeason,
			ProcessingTimeMS: elapsedMS(start),
		}, nil
	}

	products := make([]domain.ProductStats, 0, len(profile.Products))
	lead := 0
	for i, sample := range profile.Products {
		products = append(products, stats(sample))
		if len(sample.Prices) > len(profile.Products[lead].Prices) {
			lead = i
		}
	}

	b := &domain.PricingBenchmark{
		Category:     q.Category,
		CategoryPath: profile.Path,
		Products:     products,
		DemandTrends: trends(profile.Monthly),
		PeakSeason:   profile.PeakSeason,
		GrowthYoY:    profile.GrowthYoY,
		Insight:      insight(products[lead], profile.PeakSeason, price, q.YourPrice),
		GeoInsight:   geoInsight(profile, q.Location),
	}
	b.ProcessingTimeMS = elapsedMS(start)
	return b, nil
}

// lookup matches an exact path, then a code, then a case-insensitive
// substring in either direction.
func (s *Service) lookup(category string) (categoryProfile, bool) {
	c := textutil.Canonicalize(category)
	if c == "" {
		return categoryProfile{}, false
	}
	for _, p := range s.profiles {
		if textutil.Canonicalize(p.Path) == c || strings.EqualFold(p.Code, c) {
			return p, true
		}
	}
	for _, p := range s.profiles {
		path := textutil.Canonicalize(p.Path)
		if strings.Contains(path, c) || strings.Contains(c, path) {
			return p, true
		}
	}
	return categoryProfile{}, false
}

func stats(sample domain.PriceSample) domain.ProductStats {
	prices := make([]decimal.Decimal, len(sample.Prices))
	for i, p := range sample.Prices {
		prices[i] = decimal.NewFromFloat(p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })

	return domain.ProductStats{
		Name:        sample.Name,
		MedianPrice: percentile(prices, 0.5),
		P25:         percentile(prices, 0.25),
		P75:         percentile(prices, 0.75),
		AvgPrice:    decimal.Avg(prices[0], prices[1:]...).Round(2).InexactFloat64(),
		SampleSize:  len(prices),
	}
}

// percentile interpolates linearly between closest ranks of sorted.
func percentile(sorted []decimal.Decimal, q float64) float64 {
	pos := decimal.NewFromFloat(q).Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := int(pos.Floor().IntPart())
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1].Round(2).InexactFloat64()
	}
	frac := pos.Sub(pos.Floor())
	v := sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
	return v.Round(2).InexactFloat64()
}

func trends(monthly [12]int) []domain.DemandPoint {
	out := make([]domain.DemandPoint, 12)
	for i, idx := range monthly {
		out[i] = domain.DemandPoint{Month: time.Month(i + 1).String()[:3], Index: idx}
	}
	return out
}

// echoPrice returns the caller's literal when it is a valid JSON number and
// the canonical decimal form otherwise. "05", ".5" and "450." parse as
// decimals but cannot be marshalled.
func echoPrice(price decimal.Decimal, literal string) json.Number {
	literal = strings.TrimSpace(literal)
	if json.Valid([]byte(literal)) {
		return json.Number(literal)
	}
	return json.Number(price.String())
}

func insight(lead domain.ProductStats, peak string, price *decimal.Decimal, literal string) *domain.PricingInsight {
	median := decimal.NewFromFloat(lead.MedianPrice)
	in := &domain.PricingInsight{
		Product:        lead.Name,
		CategoryMedian: lead.MedianPrice,
	}
	if price == nil {
		in.RecommendationEN = fmt.Sprintf(
			"The typical market price for %s is ₹%s (range ₹%s to ₹%s). Price within this band and build stock before %s.",
			lead.Name, median, decimal.NewFromFloat(lead.P25), decimal.NewFromFloat(lead.P75), peak)
		in.RecommendationHI = fmt.Sprintf(
			"%s की सामान्य बाज़ार कीमत ₹%s है (₹%s से ₹%s)। इसी दायरे में कीमत रखें और %s से पहले स्टॉक तैयार करें।",
			lead.Name, median, decimal.NewFromFloat(lead.P25), decimal.NewFromFloat(lead.P75), peak)
		return in
	}

	yp := echoPrice(*price, literal)
	in.YourPrice = &yp

	pct := price.Sub(median).Div(median).Mul(decimal.NewFromInt(100)).Round(1)
	abs := pct.Abs().StringFixed(1)
	switch {
	case pct.IsZero():
		in.PricePosition = "at median"
	case pct.IsNegative():
		in.PricePosition = abs + "% below median"
	default:
		in.PricePosition = abs + "% above median"
	}

	switch {
	case pct.LessThan(decimal.NewFromInt(-neutralBandPct)):
		in.RecommendationEN = fmt.Sprintf(
			"Your price is %s. There is room to move towards ₹%s ahead of %s, when demand peaks.",
			in.PricePosition, median, peak)
		in.RecommendationHI = fmt.Sprintf(
			"आपकी कीमत मीडियन से %s%% कम है। %s में माँग बढ़ने से पहले आप इसे ₹%s की ओर बढ़ा सकते हैं।",
			abs, peak, median)
	case pct.GreaterThan(decimal.NewFromInt(neutralBandPct)):
		in.RecommendationEN = fmt.Sprintf(
			"Your price is %s. Highlight quality and certifications to justify the premium, or run a festive offer during %s.",
			in.PricePosition, peak)
		in.RecommendationHI = fmt.Sprintf(
			"आपकी कीमत मीडियन से %s%% ज़्यादा है। प्रीमियम के लिए गुणवत्ता और प्रमाणपत्र दिखाएँ, या %s में त्योहारी ऑफ़र दें।",
			abs, peak)
	default:
		in.RecommendationEN = fmt.Sprintf(
			"Your price is competitive (%s). Hold it steady and build stock before %s.",
			in.PricePosition, peak)
		in.RecommendationHI = fmt.Sprintf(
			"आपकी कीमत प्रतिस्पर्धी है। इसे बनाए रखें और %s से पहले स्टॉक तैयार करें।",
			peak)
	}
	return in
}

func geoInsight(p categoryProfile, location string) *domain.GeoInsight {
	home := textutil.NewPhrase(location)
	candidates := make([]region, 0, len(p.Regions))
	for _, r := range p.Regions {
		if inRegion(home, r) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := candidates[i].Growth*candidates[i].Weight, candidates[j].Growth*candidates[j].Weight
		if si != sj {
			return si > sj
		}
		return candidates[i].Name < candidates[j].Name
	})
	if len(candidates) > expansionTopN {
		candidates = candidates[:expansionTopN]
	}

	names := make([]string, len(candidates))
	var growth float64
	for i, r := range candidates {
		names[i] = r.Name
		growth += r.Growth
	}
	avg := fmt.Sprintf("%d%% QoQ", int(math.Round(growth/float64(len(candidates)))))
	leaf := p.Path
	if labels := domain.SplitPath(p.Path); len(labels) > 0 {
		leaf = labels[len(labels)-1]
	}
	list := joinNames(names, "and")

	return &domain.GeoInsight{
		GeoInsightEN: fmt.Sprintf(
			"Demand for %s is growing fastest in %s (%s on average). Plan inventory for the %s spike.",
			leaf, list, avg, p.PeakSeason),
		GeoInsightHI: fmt.Sprintf(
			"%s की माँग %s में सबसे तेज़ी से बढ़ रही है (औसतन %s)। %s की माँग के लिए पहले से स्टॉक तैयार रखें।",
			leaf, joinNames(names, "और"), avg, p.PeakSeason),
		ExpansionRegions: names,
		ExpansionGrowth:  avg,
		DemandSpike:      fmt.Sprintf("+%d%% %s", peakIndex(p.Monthly)-demandBaseline, p.PeakSeason),
	}
}

func inRegion(home textutil.Phrase, r region) bool {
	if home.Contains(r.Name) {
		return true
	}
	for _, a := range r.Aliases {
		if home.Contains(a) {
			return true
		}
	}
	return false
}

func peakIndex(monthly [12]int) int {
	peak := demandBaseline
	for _, v := range monthly {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// joinNames renders "a, b and c".
func joinNames(names []string, conj string) string {
	if len(names) <= 1 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " " + conj + " " + names[len(names)-1]
}

func elapsedMS(start time.Time) float64 {
	return math.Round(float64(time.Since(start).Microseconds())/100) / 10
}
