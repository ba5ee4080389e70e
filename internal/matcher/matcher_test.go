package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/platform"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/textutil"
)

func newTestMatcher() *Matcher {
	return New(taxonomy.Default(), platform.Default(), domain.DefaultMatchWeights, nil)
}

func TestRecommend_Personas(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name          string
		req           domain.MatchRequest
		expectedTop   string
		expectedScore float64
	}{
		{
			name: "brass decoratives",
			req: domain.MatchRequest{
				Category:     "Home & Decor > Metalware > Brass Decoratives",
				Description:  "I make brass decorative items - flower vase, diya stand, candle holder",
				Location:     "India",
				Language:     "en",
				BusinessType: "B2C",
			},
			expectedTop:   "Amazon Karigar",
			expectedScore: 0.89,
		},
		{
			name: "silk sarees",
			req: domain.MatchRequest{
				Category:     "Fashion > Ethnic Wear > Silk Sarees",
				Description:  "I make Banarasi silk sarees with zari work, for weddings",
				Location:     "Varanasi, UP",
				Language:     "hi",
				BusinessType: "B2C",
			},
			expectedTop:   "Myntra",
			expectedScore: 0.91,
		},
		{
			name: "organic spices",
			req: domain.MatchRequest{
				Category:     "Food & Beverages > Spices > Organic Spices",
				Description:  "We produce organic black pepper and cardamom, export quality, FSSAI certified",
				Location:     "Kochi, Kerala",
				Language:     "en",
				BusinessType: "B2B",
			},
			expectedTop:   "IndiaMART",
			expectedScore: 0.87,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := m.Recommend(tt.req)
			require.NoError(t, err)
			require.Len(t, results, TopN)
			assert.Equal(t, tt.expectedTop, results[0].Platform)
			assert.InDelta(t, tt.expectedScore, results[0].Score, 0.005)
			assertRanked(t, results)
		})
	}
}

func TestRecommend_CategoryOnly(t *testing.T) {
	m := newTestMatcher()

	for _, cat := range []string{"HD-MW-BD", "Home & Decor", "Health & Beauty > Organic Products", "Art & Craft > Jute Craft > Jute Bags"} {
		results, err := m.Recommend(domain.MatchRequest{Category: cat})
		require.NoError(t, err, cat)
		require.Len(t, results, TopN, cat)
		assertRanked(t, results)
		for _, r := range results {
			assert.NotEmpty(t, r.ExplanationEN)
			assert.NotEmpty(t, r.ExplanationHI)
		}
	}
}

func TestRecommend_Errors(t *testing.T) {
	m := newTestMatcher()

	_, err := m.Recommend(domain.MatchRequest{Category: "  "})
	assert.ErrorIs(t, err, ErrCategoryRequired)

	_, err = m.Recommend(domain.MatchRequest{Category: "Unknown > Category > Foo"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRecommend_TiesBrokenByName(t *testing.T) {
	tax := taxonomy.Default()
	same := func(name string) domain.PlatformProfile {
		return domain.PlatformProfile{
			Name:             name,
			SupportedDomains: []string{"Home & Decor"},
			ServiceRegions:   []string{domain.RegionNational},
			CapacityScore:    0.5,
		}
	}
	reg := platform.NewRegistry([]domain.PlatformProfile{same("Zeta"), same("Alpha"), same("Mu"), same("Beta")}, nil)
	m := New(tax, reg, domain.DefaultMatchWeights, nil)

	results, err := m.Recommend(domain.MatchRequest{Category: "HD-MW-BD"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Alpha", "Beta", "Mu"}, []string{results[0].Platform, results[1].Platform, results[2].Platform})
}

func TestGeographyScore(t *testing.T) {
	m := newTestMatcher()
	goCoop, ok := platform.Default().ByName("GoCoop")
	require.True(t, ok)

	assert.Equal(t, regionalMatch, m.geographyScore(phrase("Varanasi, UP"), nil, goCoop))
	assert.Equal(t, regionalMismatch, m.geographyScore(phrase("Kochi, Kerala"), nil, goCoop))
	assert.Equal(t, regionalUnknown, m.geographyScore(phrase(""), nil, goCoop))

	// Hyderabad is the hub; Delhi is ~1250 km away.
	near := m.geographyScore(phrase(""), &domain.GeoPoint{Lat: 17.4, Lon: 78.5}, goCoop)
	far := m.geographyScore(phrase(""), &domain.GeoPoint{Lat: 28.6, Lon: 77.2}, goCoop)
	assert.InDelta(t, 1.0, near, 0.01)
	assert.Less(t, far, near)
	assert.GreaterOrEqual(t, far, minGeographyByRange)

	karigar, _ := platform.Default().ByName("Amazon Karigar")
	assert.Equal(t, nationalGeography, m.geographyScore(phrase("anywhere"), nil, karigar))
}

func TestSpecializationScore(t *testing.T) {
	p := domain.PlatformProfile{SpecializationTag: []string{"B2B", "export", "organic"}}

	assert.InDelta(t, 0.3, specializationScore("", phrase("brass vase"), p), 1e-9)
	assert.InDelta(t, 0.7, specializationScore("b2b", phrase("brass vase"), p), 1e-9)
	assert.InDelta(t, 1.0, specializationScore("B2B", phrase("organic pepper, export quality"), p), 1e-9)
}

func phrase(s string) textutil.Phrase {
	return textutil.NewPhrase(s)
}

func assertRanked(t *testing.T, results []domain.MatchResult) {
	t.Helper()
	for i, r := range results {
		assert.Greater(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
}
