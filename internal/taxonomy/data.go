package taxonomy

import "vyaparsetu-service/internal/domain"

func node(path []string, code, hsn, craft string, keywords ...string) domain.TaxonomyNode {
	return domain.TaxonomyNode{Path: path, Code: code, HSNCode: hsn, CraftType: craft, Keywords: keywords}
}

var defaultNodes = []domain.TaxonomyNode{
	// Home & Decor
	node([]string{"Home & Decor", "Metalware", "Brass Decoratives"}, "HD-MW-BD", "7418", "Handcrafted Metalware",
		"brass", "peetal", "pital", "पीतल", "flower vase", "vase", "diya", "diya stand", "दीया", "diyas",
		"decorative", "decoratives", "moradabad", "urli", "brassware"),
	node([]string{"Home & Decor", "Candles & Holders", "Candle Holders"}, "HD-CH-CH", "9405", "Handcrafted Decor",
		"candle", "candles", "candle holder", "candle stand", "mombatti", "मोमबत्ती", "tealight", "lantern"),
	node([]string{"Home & Decor", "Wooden Furniture", "Wooden Furniture"}, "HD-WF-WF", "9403", "Woodcraft",
		"wooden", "wood", "furniture", "table", "chair", "lakdi", "लकड़ी", "sheesham", "teak", "almirah", "stool"),
	node([]string{"Home & Decor", "Pottery", "Terracotta"}, "HD-PT-TC", "6912", "Pottery",
		"terracotta", "clay", "pottery", "mitti", "मिट्टी", "kulhad", "matka", "earthen", "planter"),

	// Art & Craft
	node([]string{"Art & Craft", "Metal Art", "Metal Art"}, "AC-MA-MA", "8306", "Metal Casting",
		"metal art", "sculpture", "statue", "idol", "murti", "मूर्ति", "bidri", "dhokra", "figurine"),
	node([]string{"Art & Craft", "Textile Art", "Textile Art"}, "AC-TA-TA", "6304", "Textile Craft",
		"weaving", "weaver", "embroidery", "zari work", "tapestry", "wall hanging", "kantha", "phulkari"),
	node([]string{"Art & Craft", "Jute Craft", "Jute Bags"}, "AC-JC-JB", "6305", "Jute Craft",
		"jute", "जूट", "tote", "jute bag", "eco friendly bag", "sack"),

	// Fashion
	node([]string{"Fashion", "Ethnic Wear", "Silk Sarees"}, "FA-EW-SS", "5007", "Handloom Weaving",
		"silk", "silk saree", "silk sarees", "resham", "रेशम", "banarasi", "बनारसी", "kanjeevaram", "zari", "ज़री", "patola"),
	node([]string{"Fashion", "Ethnic Wear", "Handloom Sarees"}, "FA-EW-HS", "5208", "Handloom Weaving",
		"saree", "sarees", "sari", "साड़ी", "handloom", "हथकरघा", "cotton saree", "chanderi", "tant"),
	node([]string{"Fashion", "Ethnic Wear", "Embroidered Kurtas"}, "FA-EW-EK", "6211", "Hand Embroidery",
		"kurta", "kurtas", "kurti", "कुर्ता", "chikankari", "embroidered", "salwar", "dupatta"),
	node([]string{"Fashion", "Accessories", "Shawls"}, "FA-AC-SH", "6214", "Handloom Weaving",
		"shawl", "shawls", "शॉल", "pashmina", "stole", "wool", "woollen", "kullu"),
	node([]string{"Fashion", "Leather Goods", "Leather Bags"}, "FA-LG-LB", "4202", "Leathercraft",
		"leather", "chamda", "चमड़ा", "bag", "bags", "wallet", "purse", "handbag", "belt"),
	node([]string{"Fashion", "Footwear", "Leather Footwear"}, "FA-FW-LF", "6403", "Leathercraft",
		"shoes", "footwear", "jutti", "juttis", "mojari", "kolhapuri", "chappal", "sandals", "जूते"),

	// Food & Beverages
	node([]string{"Food & Beverages", "Spices", "Organic Spices"}, "FB-SP-OS", "0904", "",
		"organic", "spices", "spice", "masala", "मसाले", "मसाला", "black pepper", "pepper", "kali mirch", "काली मिर्च",
		"turmeric", "haldi", "हल्दी", "fssai"),
	node([]string{"Food & Beverages", "Spices", "Whole Spices"}, "FB-SP-WS", "0908", "",
		"whole spices", "cardamom", "elaichi", "इलायची", "clove", "cloves", "laung", "cinnamon", "dalchini", "nutmeg"),
	node([]string{"Food & Beverages", "Preserves", "Pickles"}, "FB-PR-PK", "2001", "",
		"pickle", "pickles", "achar", "achaar", "अचार", "murabba", "chutney"),

	// Health & Beauty
	node([]string{"Health & Beauty", "Organic Products", "Organic Products"}, "HB-OP-OP", "3301", "",
		"natural", "herbal", "ayurvedic", "आयुर्वेदिक", "essential oil", "soap", "skincare", "chemical free"),
}
