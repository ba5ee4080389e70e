package domain

// PlatformProfile describes a marketplace an MSME can sell on.
type PlatformProfile struct {
	Name              string
	SupportedDomains  []string // category paths or codes; a path may be an ancestor ("Home & Decor")
	ServiceRegions    []string // "national" or state / city tags
	Hub               *GeoPoint
	CapacityScore     float64
	HistoryByDomain   map[string]float64 // keyed by category path at any depth
	SpecializationTag []string
}

// National reports whether the platform serves the whole country.
func (p PlatformProfile) National() bool {
	for _, r := range p.ServiceRegions {
		if r == RegionNational {
			return true
		}
	}
	return false
}

// RegionNational marks a platform without regional restriction.
const RegionNational = "national"

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MatchFactors are the five per-platform factors, each in [0,1].
type MatchFactors struct {
	Domain         float64 `json:"domain"`
	Geography      float64 `json:"geography"`
	Capacity       float64 `json:"capacity"`
	History        float64 `json:"history"`
	Specialization float64 `json:"specialization"`
}

// MatchResult is a single ranked recommendation.
type MatchResult struct {
	Platform      string       `json:"platform"`
	Score         float64      `json:"score"`
	Factors       MatchFactors `json:"factors"`
	ExplanationEN string       `json:"explanation_en"`
	ExplanationHI string       `json:"explanation_hi"`
}

// MatchRequest carries the merchant context for a recommendation.
type MatchRequest struct {
	Category     string
	Description  string
	Location     string
	Language     string
	BusinessType string
	Coordinates  *GeoPoint
}

// MSMEProfile echoes the merchant context back to callers.
type MSMEProfile struct {
	Category     string `json:"category"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	Language     string `json:"language,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
}

// MatchWeights are the factor weights of the matcher's weighted sum.
type MatchWeights struct {
	Domain         float64
	Geography      float64
	Capacity       float64
	History        float64
	Specialization float64
}

// DefaultMatchWeights sum to 1.
var DefaultMatchWeights = MatchWeights{
	Domain:         0.35,
	Geography:      0.20,
	Capacity:       0.15,
	History:        0.20,
	Specialization: 0.10,
}

// Sum returns the total of all weights.
func (w MatchWeights) Sum() float64 {
	return w.Domain + w.Geography + w.Capacity + w.History + w.Specialization
}
