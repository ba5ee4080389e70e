package domain

import (
	"time"
)

// Band is the trust tier derived from a classification confidence.
type Band string

const (
	BandGreen  Band = "GREEN"  // auto-accept
	BandYellow Band = "YELLOW" // needs review
	BandRed    Band = "RED"    // manual classification required
)

// Bands lists every band in display order.
var Bands = []Band{BandGreen, BandYellow, BandRed}

// Valid reports whether b is one of the known bands.
func (b Band) Valid() bool {
	return b == BandGreen || b == BandYellow || b == BandRed
}

// BandThresholds holds the lower confidence bounds of the GREEN and YELLOW bands.
// Anything below Yellow is RED.
type BandThresholds struct {
	Green  float64
	Yellow float64
}

// DefaultBandThresholds are the thresholds used when none are configured.
var DefaultBandThresholds = BandThresholds{Green: 0.85, Yellow: 0.5}

// BandFor maps a confidence onto a band. It is a pure function of its input.
func (t BandThresholds) BandFor(confidence float64) Band {
	switch {
	case confidence >= t.Green:
		return BandGreen
	case confidence >= t.Yellow:
		return BandYellow
	default:
		return BandRed
	}
}

// CategoryScore is one ranked candidate of a classification.
type CategoryScore struct {
	Category   string  `json:"category"`
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
	Band       Band    `json:"band"`
}

// ProductAttributes are the structured attributes pulled out of a product description.
// Empty values are omitted from the JSON form.
type ProductAttributes struct {
	Material      string   `json:"material,omitempty"`
	ProductTypes  []string `json:"product_types,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	CraftType     string   `json:"craft_type,omitempty"`
	Certification string   `json:"certification,omitempty"`
	Quality       string   `json:"quality,omitempty"`
	Occasion      string   `json:"occasion,omitempty"`
	WorkType      string   `json:"work_type,omitempty"`
}

// ONDCContext is the protocol context block of an ONDC on_search message.
type ONDCContext struct {
	Domain string `json:"domain"`
	Action string `json:"action"`
	BppID  string `json:"bpp_id"`
}

// ONDCDescriptor names a catalog item.
type ONDCDescriptor struct {
	Name      string `json:"name"`
	ShortDesc string `json:"short_desc"`
	LongDesc  string `json:"long_desc"`
}

// ONDCPrice is the listing price block. Values are strings per the protocol.
type ONDCPrice struct {
	Currency    string `json:"currency"`
	Value       string `json:"value"`
	ListedValue string `json:"listed_value"`
}

// ONDCTag is a single code/value tag on a catalog item.
type ONDCTag struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// ONDCCatalogBody is message.catalog.
type ONDCCatalogBody struct {
	Descriptor    ONDCDescriptor `json:"descriptor"`
	CategoryID    string         `json:"category_id"`
	FulfillmentID string         `json:"fulfillment_id"`
	LocationID    string         `json:"location_id"`
	Price         ONDCPrice      `json:"price"`
	Tags          []ONDCTag      `json:"tags"`
}

// ONDCMessage is the message block of an ONDC payload.
type ONDCMessage struct {
	Catalog ONDCCatalogBody `json:"catalog"`
}

// ONDCCatalog is the ONDC-shaped listing generated for a classification.
type ONDCCatalog struct {
	Context ONDCContext `json:"context"`
	Message ONDCMessage `json:"message"`
}

// ClassificationRecord is the result of one classify call, as persisted and as returned to callers.
type ClassificationRecord struct {
	ID               string            `json:"id"`
	Text             string            `json:"original_text"`
	TranslatedText   *string           `json:"translated_text"`
	Language         string            `json:"language_detected"`
	TopCategories    []CategoryScore   `json:"top_categories"`
	Attributes       ProductAttributes `json:"attributes"`
	HSNCode          string            `json:"hsn_code"`
	ONDCCatalog      *ONDCCatalog      `json:"ondc_catalog,omitempty"`
	ProcessingTimeMS float64           `json:"processing_time_ms"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Top returns the highest ranked category, or nil when there is none.
func (r *ClassificationRecord) Top() *CategoryScore {
	if r == nil || len(r.TopCategories) == 0 {
		return nil
	}
	return &r.TopCategories[0]
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *ClassificationRecord) Clone() *ClassificationRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.TopCategories = append([]CategoryScore(nil), r.TopCategories...)
	c.Attributes.ProductTypes = append([]string(nil), r.Attributes.ProductTypes...)
	if r.TranslatedText != nil {
		t := *r.TranslatedText
		c.TranslatedText = &t
	}
	if r.ONDCCatalog != nil {
		cat := *r.ONDCCatalog
		cat.Message.Catalog.Tags = append([]ONDCTag(nil), r.ONDCCatalog.Message.Catalog.Tags...)
		c.ONDCCatalog = &cat
	}
	return &c
}
