package classifier

import (
	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/textutil"
)

// ONDC protocol constants for a retail on_search catalog.
const (
	ONDCDomain        = "nic2004:52110"
	ONDCAction        = "on_search"
	ONDCBppID         = "vyaparsetu.ai"
	ONDCFulfillmentID = "F1"
	ONDCLocationID    = "L1"
	ONDCCurrency      = "INR"
	defaultOrigin     = "India"
	shortDescRunes    = 100
)

// BuildCatalog renders the ONDC listing for a classified product. The tag order
// is fixed: origin, material, hsn, then the optional certification, craft_type,
// occasion and work_type when present.
func BuildCatalog(text string, top domain.CategoryScore, hsn string, attrs domain.ProductAttributes) *domain.ONDCCatalog {
	name := top.Category
	if len(attrs.ProductTypes) > 0 {
		name = attrs.ProductTypes[0]
	} else if labels := domain.SplitPath(top.Category); len(labels) > 0 {
		name = labels[len(labels)-1]
	}

	origin := attrs.Origin
	if origin == "" {
		origin = defaultOrigin
	}
	tags := []domain.ONDCTag{
		{Code: "origin", Value: origin},
		{Code: "material", Value: attrs.Material},
		{Code: "hsn", Value: hsn},
	}
	for _, opt := range []domain.ONDCTag{
		{Code: "certification", Value: attrs.Certification},
		{Code: "craft_type", Value: attrs.CraftType},
		{Code: "occasion", Value: attrs.Occasion},
		{Code: "work_type", Value: attrs.WorkType},
	} {
		if opt.Value != "" {
			tags = append(tags, opt)
		}
	}

	return &domain.ONDCCatalog{
		Context: domain.ONDCContext{
			Domain: ONDCDomain,
			Action: ONDCAction,
			BppID:  ONDCBppID,
		},
		Message: domain.ONDCMessage{
			Catalog: domain.ONDCCatalogBody{
				Descriptor: domain.ONDCDescriptor{
					Name:      name,
					ShortDesc: textutil.Truncate(text, shortDescRunes),
					LongDesc:  text,
				},
				CategoryID:    top.Code,
				FulfillmentID: ONDCFulfillmentID,
				LocationID:    ONDCLocationID,
				Price: domain.ONDCPrice{
					Currency:    ONDCCurrency,
					Value:       "0",
					ListedValue: "0",
				},
				Tags: tags,
			},
		},
	}
}
