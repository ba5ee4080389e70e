package pricing

import "vyaparsetu-service/internal/domain"

// region is a candidate expansion market with its quarter-on-quarter demand growth.
type region struct {
	Name    string
	Aliases []string
	Growth  float64 // percent QoQ
	Weight  float64 // relative market size
}

// categoryProfile is the market reference data for one taxonomy leaf.
type categoryProfile struct {
	Path       string
	Code       string
	Products   []domain.PriceSample
	Monthly    [12]int // demand index Jan..Dec, baseline 100
	PeakSeason string
	GrowthYoY  float64
	Regions    []region
}

var (
	maharashtra = []string{"maharashtra", "mumbai", "pune", "nagpur"}
	karnataka   = []string{"karnataka", "bangalore", "bengaluru", "mysore"}
	tamilNadu   = []string{"tamil nadu", "tn", "chennai", "coimbatore"}
	uttarPr     = []string{"uttar pradesh", "up", "moradabad", "varanasi", "banaras", "lucknow", "agra", "kanpur", "noida"}
	delhi       = []string{"delhi", "new delhi", "ncr", "gurgaon", "gurugram"}
	gujarat     = []string{"gujarat", "ahmedabad", "surat", "vadodara"}
	rajasthan   = []string{"rajasthan", "jaipur", "jodhpur", "udaipur"}
	kerala      = []string{"kerala", "kochi", "cochin", "thiruvananthapuram", "kozhikode"}
	telangana   = []string{"telangana", "hyderabad"}
	westBengal  = []string{"west bengal", "wb", "kolkata"}
)

var defaultProfiles = []categoryProfile{
	{
		Path: "Home & Decor > Metalware > Brass Decoratives",
		Code: "HD-MW-BD",
		Products: []domain.PriceSample{
			{Name: "Brass Flower Vase", Prices: []float64{380, 420, 450, 470, 490, 510, 540, 580, 620}},
			{Name: "Brass Diya Stand", Prices: []float64{220, 250, 280, 300, 320, 350}},
			{Name: "Brass Candle Holder", Prices: []float64{300, 340, 360, 400, 450}},
		},
		Monthly:    [12]int{100, 100, 100, 100, 100, 100, 100, 100, 115, 135, 140, 100},
		PeakSeason: "Oct-Nov (Diwali)",
		GrowthYoY:  12.5,
		Regions: []region{
			{Name: "Maharashtra", Aliases: maharashtra, Growth: 28, Weight: 1},
			{Name: "Uttar Pradesh", Aliases: uttarPr, Growth: 26, Weight: 1},
			{Name: "Karnataka", Aliases: karnataka, Growth: 24, Weight: 1},
			{Name: "Tamil Nadu", Aliases: tamilNadu, Growth: 22, Weight: 1},
			{Name: "Delhi-NCR", Aliases: delhi, Growth: 18, Weight: 1},
			{Name: "Gujarat", Aliases: gujarat, Growth: 15, Weight: 1},
		},
	},
	{
		Path: "Fashion > Ethnic Wear > Silk Sarees",
		Code: "FA-EW-SS",
		Products: []domain.PriceSample{
			{Name: "Banarasi Silk Saree (Zari Work)", Prices: []float64{2200, 2400, 2600, 2800, 3000, 3300, 3600}},
			{Name: "Kanjeevaram Silk Saree", Prices: []float64{4500, 5200, 6000, 6800, 7500}},
			{Name: "Tussar Silk Saree", Prices: []float64{1800, 2100, 2400, 2700}},
		},
		Monthly:    [12]int{145, 135, 100, 100, 100, 100, 100, 100, 110, 130, 150, 155},
		PeakSeason: "Oct-Feb (Wedding Season & Festivals)",
		GrowthYoY:  18.2,
		Regions: []region{
			{Name: "Gujarat", Aliases: gujarat, Growth: 32, Weight: 1},
			{Name: "Uttar Pradesh", Aliases: uttarPr, Growth: 30, Weight: 1},
			{Name: "Rajasthan", Aliases: rajasthan, Growth: 27, Weight: 1},
			{Name: "Maharashtra", Aliases: maharashtra, Growth: 25, Weight: 1},
			{Name: "Tamil Nadu", Aliases: tamilNadu, Growth: 20, Weight: 1},
			{Name: "Karnataka", Aliases: karnataka, Growth: 18, Weight: 1},
		},
	},
	{
		Path: "Food & Beverages > Spices > Organic Spices",
		Code: "FB-SP-OS",
		Products: []domain.PriceSample{
			{Name: "Organic Black Pepper", Prices: []float64{760, 820, 880, 920, 950, 980, 1020, 1100, 1200}},
			{Name: "Organic Cardamom", Prices: []float64{2200, 2400, 2600, 2900, 3100, 3300}},
			{Name: "Organic Turmeric", Prices: []float64{180, 210, 240, 260, 300}},
		},
		Monthly:    [12]int{100, 100, 100, 100, 100, 100, 100, 110, 125, 140, 145, 135},
		PeakSeason: "Sep-Dec (Festive Season & Winter Demand)",
		GrowthYoY:  22.4,
		Regions: []region{
			{Name: "Kerala", Aliases: kerala, Growth: 40, Weight: 1},
			{Name: "Delhi-NCR", Aliases: delhi, Growth: 35, Weight: 1},
			{Name: "Mumbai", Aliases: maharashtra, Growth: 30, Weight: 1},
			{Name: "Bangalore", Aliases: karnataka, Growth: 26, Weight: 1},
			{Name: "Hyderabad", Aliases: telangana, Growth: 22, Weight: 1},
			{Name: "Chennai", Aliases: tamilNadu, Growth: 20, Weight: 1},
		},
	},
	{
		Path: "Fashion > Ethnic Wear > Handloom Sarees",
		Code: "FA-EW-HS",
		Products: []domain.PriceSample{
			{Name: "Cotton Handloom Saree", Prices: []float64{900, 1100, 1200, 1400, 1500, 1800, 2100}},
			{Name: "Chanderi Saree", Prices: []float64{1800, 2200, 2500, 3000, 3400}},
		},
		Monthly:    [12]int{100, 100, 100, 100, 100, 100, 110, 125, 130, 140, 100, 100},
		PeakSeason: "Aug-Oct (Festive Season)",
		GrowthYoY:  9.8,
		Regions: []region{
			{Name: "West Bengal", Aliases: westBengal, Growth: 24, Weight: 1},
			{Name: "Maharashtra", Aliases: maharashtra, Growth: 21, Weight: 1},
			{Name: "Karnataka", Aliases: karnataka, Growth: 19, Weight: 1},
			{Name: "Delhi-NCR", Aliases: delhi, Growth: 17, Weight: 1},
		},
	},
	{
		Path: "Home & Decor > Wooden Furniture > Wooden Furniture",
		Code: "HD-WF-WF",
		Products: []domain.PriceSample{
			{Name: "Sheesham Coffee Table", Prices: []float64{4500, 5200, 5800, 6500, 7200, 8000}},
			{Name: "Wooden Chair", Prices: []float64{2200, 2600, 2900, 3300, 3800}},
		},
		Monthly:    [12]int{100, 100, 100, 100, 100, 100, 100, 100, 108, 120, 130, 125},
		PeakSeason: "Oct-Dec (Festive & Wedding Season)",
		GrowthYoY:  7.5,
		Regions: []region{
			{Name: "Karnataka", Aliases: karnataka, Growth: 20, Weight: 1},
			{Name: "Telangana", Aliases: telangana, Growth: 18, Weight: 1},
			{Name: "Maharashtra", Aliases: maharashtra, Growth: 16, Weight: 1},
			{Name: "Delhi-NCR", Aliases: delhi, Growth: 14, Weight: 0.8},
		},
	},
	{
		Path: "Fashion > Leather Goods > Leather Bags",
		Code: "FA-LG-LB",
		Products: []domain.PriceSample{
			{Name: "Leather Handbag", Prices: []float64{1200, 1450, 1600, 1800, 2100, 2500}},
			{Name: "Leather Wallet", Prices: []float64{350, 450, 500, 600, 750}},
		},
		Monthly:    [12]int{120, 100, 100, 100, 100, 100, 100, 100, 100, 110, 125, 145},
		PeakSeason: "Nov-Jan (Gifting Season)",
		GrowthYoY:  -3.2,
		Regions: []region{
			{Name: "Delhi-NCR", Aliases: delhi, Growth: 15, Weight: 1},
			{Name: "Maharashtra", Aliases: maharashtra, Growth: 12, Weight: 1},
			{Name: "Karnataka", Aliases: karnataka, Growth: 11, Weight: 1},
		},
	},
}
