package store

import (
	"context"
	"fmt"
	"time"

	"vyaparsetu-service/internal/domain"
)

type demoEntry struct {
	text       string
	path       string
	code       string
	confidence float64
	hsn        string
	elapsedMS  float64
	material   string
}

// Synthetic onboarding history so the dashboard shows every band.
var demoEntries = []demoEntry{
	{"Hand-embroidered Lucknowi chikankari kurta", "Fashion > Ethnic Wear > Embroidered Kurtas", "FA-EW-EK", 0.915, "6211", 167.3, "Cotton"},
	{"Handmade terracotta pottery and clay pots", "Home & Decor > Pottery > Terracotta", "HD-PT-TC", 0.892, "6912", 189.1, "Terracotta"},
	{"Jute bags and eco-friendly accessories", "Art & Craft > Jute Craft > Jute Bags", "AC-JC-JB", 0.743, "6305", 201.5, "Jute"},
	{"Wooden carved furniture from Saharanpur", "Home & Decor > Wooden Furniture > Wooden Furniture", "HD-WF-WF", 0.878, "9403", 155.8, "Wood"},
	{"Pashmina shawls from Kashmir", "Fashion > Accessories > Shawls", "FA-AC-SH", 0.934, "6214", 132.4, "Pashmina Wool"},
	{"Handmade leather shoes", "Fashion > Footwear > Leather Footwear", "FA-FW-LF", 0.412, "6403", 245.7, "Leather"},
	{"Traditional pickles and preserves", "Food & Beverages > Preserves > Pickles", "FB-PR-PK", 0.812, "2001", 178.9, ""},
}

// DemoRecords returns the synthetic classifications, spaced one minute apart
// and ending at now. Bands are assigned with t.
func DemoRecords(now time.Time, t domain.BandThresholds) []*domain.ClassificationRecord {
	out := make([]*domain.ClassificationRecord, 0, len(demoEntries))
	start := now.Add(-time.Duration(len(demoEntries)) * time.Minute)
	for i, e := range demoEntries {
		out = append(out, &domain.ClassificationRecord{
			Text:     e.text,
			Language: "en",
			TopCategories: []domain.CategoryScore{{
				Category:   e.path,
				Code:       e.code,
				Confidence: e.confidence,
				Band:       t.BandFor(e.confidence),
			}},
			Attributes:       domain.ProductAttributes{Material: e.material},
			HSNCode:          e.hsn,
			ProcessingTimeMS: e.elapsedMS,
			CreatedAt:        start.Add(time.Duration(i) * time.Minute).UTC(),
		})
	}
	return out
}

// Seed records every entry of recs and returns the assigned ids.
func Seed(ctx context.Context, s ClassificationStorer, recs []*domain.ClassificationRecord) ([]string, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		id, err := s.Record(ctx, r)
		if err != nil {
			return ids, fmt.Errorf("store: seed failed after %d records: %w", len(ids), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
