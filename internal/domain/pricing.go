package domain

import "encoding/json"

// PriceSample is a named product with observed market prices in INR.
type PriceSample struct {
	Name   string
	Prices []float64
}

// ProductStats summarises the observed prices of one product.
type ProductStats struct {
	Name        string  `json:"name"`
	MedianPrice float64 `json:"median_price"`
	P25         float64 `json:"p25"`
	P75         float64 `json:"p75"`
	AvgPrice    float64 `json:"avg_price"`
	SampleSize  int     `json:"sample_size"`
}

// DemandPoint is one month of the demand index; 100 is the baseline.
type DemandPoint struct {
	Month string `json:"month"`
	Index int    `json:"index"`
}

// PricingInsight compares a merchant price to the category median.
type PricingInsight struct {
	Product          string       `json:"product"`
	YourPrice        *json.Number `json:"your_price,omitempty"`
	CategoryMedian   float64      `json:"category_median"`
	PricePosition    string       `json:"price_position,omitempty"`
	RecommendationEN string       `json:"recommendation_en"`
	RecommendationHI string       `json:"recommendation_hi"`
}

// GeoInsight suggests regions to expand into.
type GeoInsight struct {
	GeoInsightEN     string   `json:"geo_insight_en"`
	GeoInsightHI     string   `json:"geo_insight_hi"`
	ExpansionRegions []string `json:"expansion_regions"`
	ExpansionGrowth  string   `json:"expansion_growth"`
	DemandSpike      string   `json:"demand_spike"`
}

// PricingBenchmark is the pricing and demand answer for one category.
type PricingBenchmark struct {
	Category         string          `json:"category"`
	CategoryPath     string          `json:"category_path"`
	Products         []ProductStats  `json:"products"`
	DemandTrends     []DemandPoint   `json:"demand_trends"`
	PeakSeason       string          `json:"peak_season"`
	GrowthYoY        float64         `json:"growth_yoy"`
	Insight          *PricingInsight `json:"insight"`
	GeoInsight       *GeoInsight     `json:"geo_insight"`
	ProcessingTimeMS float64         `json:"processing_time_ms"`
}
