package platform

import "vyaparsetu-service/internal/domain"

const (
	homeDecor = "Home & Decor"
	artCraft  = "Art & Craft"
	fashion   = "Fashion"
	food      = "Food & Beverages"
	health    = "Health & Beauty"
)

var national = []string{domain.RegionNational}

var defaultProfiles = []domain.PlatformProfile{
	{
		Name:              "Amazon Karigar",
		SupportedDomains:  []string{"Home & Decor > Metalware > Brass Decoratives", homeDecor, artCraft, "Fashion > Ethnic Wear"},
		ServiceRegions:    national,
		CapacityScore:     0.80,
		HistoryByDomain:   map[string]float64{"Home & Decor > Metalware > Brass Decoratives": 0.85, homeDecor: 0.75, artCraft: 0.80, "Fashion > Ethnic Wear": 0.70},
		SpecializationTag: []string{"B2C", "handcrafted"},
	},
	{
		Name:              "IndiaMART",
		SupportedDomains:  []string{"Food & Beverages > Spices", food, homeDecor, artCraft, fashion, health},
		ServiceRegions:    national,
		CapacityScore:     0.70,
		HistoryByDomain:   map[string]float64{"Food & Beverages > Spices": 0.85, food: 0.75, homeDecor: 0.70, artCraft: 0.65, fashion: 0.60, health: 0.60},
		SpecializationTag: []string{"B2B", "wholesale", "export"},
	},
	{
		Name:              "ONDC-Mystore",
		SupportedDomains:  []string{homeDecor, artCraft, fashion, food, health},
		ServiceRegions:    national,
		CapacityScore:     0.95,
		HistoryByDomain:   map[string]float64{homeDecor: 0.50, artCraft: 0.50, fashion: 0.50, food: 0.50, health: 0.50},
		SpecializationTag: []string{"B2C", "B2B"},
	},
	{
		Name:              "Flipkart",
		SupportedDomains:  []string{homeDecor, fashion, food, health},
		ServiceRegions:    national,
		CapacityScore:     0.85,
		HistoryByDomain:   map[string]float64{homeDecor: 0.70, fashion: 0.75, food: 0.60, health: 0.65},
		SpecializationTag: []string{"B2C"},
	},
	{
		Name:              "Myntra",
		SupportedDomains:  []string{"Fashion > Ethnic Wear > Silk Sarees", fashion},
		ServiceRegions:    national,
		CapacityScore:     0.75,
		HistoryByDomain:   map[string]float64{"Fashion > Ethnic Wear > Silk Sarees": 0.85, fashion: 0.80},
		SpecializationTag: []string{"B2C", "fashion", "wedding"},
	},
	{
		Name:              "Meesho",
		SupportedDomains:  []string{fashion, homeDecor},
		ServiceRegions:    national,
		CapacityScore:     0.90,
		HistoryByDomain:   map[string]float64{fashion: 0.70, homeDecor: 0.60},
		SpecializationTag: []string{"B2C", "reseller"},
	},
	{
		Name:              "Craftsvilla",
		SupportedDomains:  []string{homeDecor, artCraft, "Fashion > Ethnic Wear"},
		ServiceRegions:    national,
		CapacityScore:     0.70,
		HistoryByDomain:   map[string]float64{homeDecor: 0.75, artCraft: 0.80, "Fashion > Ethnic Wear": 0.70},
		SpecializationTag: []string{"B2C", "handcrafted"},
	},
	{
		Name:              "GoCoop",
		SupportedDomains:  []string{"Fashion > Ethnic Wear", "Fashion > Accessories", "Art & Craft > Textile Art"},
		ServiceRegions:    []string{"uttar pradesh", "andhra pradesh", "telangana", "odisha", "west bengal"},
		Hub:               &domain.GeoPoint{Lat: 17.385, Lon: 78.4867},
		CapacityScore:     0.60,
		HistoryByDomain:   map[string]float64{"Fashion > Ethnic Wear": 0.80, "Art & Craft > Textile Art": 0.75, "Fashion > Accessories": 0.70},
		SpecializationTag: []string{"B2B", "handcrafted", "wholesale"},
	},
	{
		Name:              "Limeroad",
		SupportedDomains:  []string{fashion},
		ServiceRegions:    national,
		CapacityScore:     0.70,
		HistoryByDomain:   map[string]float64{fashion: 0.65},
		SpecializationTag: []string{"B2C", "fashion"},
	},
	{
		Name:              "Udaan",
		SupportedDomains:  []string{food, fashion, homeDecor},
		ServiceRegions:    national,
		CapacityScore:     0.80,
		HistoryByDomain:   map[string]float64{food: 0.75, fashion: 0.60, homeDecor: 0.55},
		SpecializationTag: []string{"B2B", "wholesale"},
	},
	{
		Name:              "TradeIndia",
		SupportedDomains:  []string{homeDecor, artCraft, fashion, food, health},
		ServiceRegions:    national,
		CapacityScore:     0.75,
		HistoryByDomain:   map[string]float64{homeDecor: 0.60, artCraft: 0.60, fashion: 0.60, food: 0.60, health: 0.60},
		SpecializationTag: []string{"B2B", "export"},
	},
	{
		Name:              "ExportersIndia",
		SupportedDomains:  []string{homeDecor, artCraft, food, fashion},
		ServiceRegions:    national,
		CapacityScore:     0.65,
		HistoryByDomain:   map[string]float64{homeDecor: 0.60, artCraft: 0.60, food: 0.60, fashion: 0.60},
		SpecializationTag: []string{"B2B", "export"},
	},
	{
		Name:              "Jiomart",
		SupportedDomains:  []string{food, health},
		ServiceRegions:    national,
		CapacityScore:     0.85,
		HistoryByDomain:   map[string]float64{food: 0.70, health: 0.65},
		SpecializationTag: []string{"B2C", "organic"},
	},
	{
		Name:              "Snapdeal",
		SupportedDomains:  []string{homeDecor, fashion},
		ServiceRegions:    national,
		CapacityScore:     0.80,
		HistoryByDomain:   map[string]float64{homeDecor: 0.55, fashion: 0.55},
		SpecializationTag: []string{"B2C"},
	},
	{
		Name:              "Nykaa",
		SupportedDomains:  []string{health},
		ServiceRegions:    national,
		CapacityScore:     0.80,
		HistoryByDomain:   map[string]float64{health: 0.85},
		SpecializationTag: []string{"B2C", "organic"},
	},
}

var defaultRegionAliases = map[string][]string{
	"uttar pradesh":  {"up", "u.p", "varanasi", "banaras", "moradabad", "lucknow", "agra", "kanpur"},
	"andhra pradesh": {"ap", "vijayawada", "visakhapatnam", "guntur"},
	"telangana":      {"hyderabad", "warangal", "pochampally"},
	"odisha":         {"orissa", "bhubaneswar", "cuttack", "sambalpur"},
	"west bengal":    {"wb", "kolkata", "calcutta", "shantipur"},
}
