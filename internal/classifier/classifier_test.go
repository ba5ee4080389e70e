package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/textutil"
	"vyaparsetu-service/internal/translate"
)

// MockRecorder is a mock implementation of Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, rec *domain.ClassificationRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func newTestClassifier(t *testing.T, tr translate.Translator, rec Recorder) *Classifier {
	t.Helper()
	return New(taxonomy.Default(), tr, rec, Config{
		WorkingLanguage:  "en",
		TranslateTimeout: 50 * time.Millisecond,
		Thresholds:       domain.DefaultBandThresholds,
	})
}

func recordAny(m *MockRecorder) {
	m.On("Record", mock.Anything, mock.AnythingOfType("*domain.ClassificationRecord")).Return("rec-1", nil)
}

func TestClassify_ReplayPersonas(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		language   string
		category   string
		code       string
		confidence float64
		hsn        string
		translated bool
	}{
		{"brass english", "I make brass decorative items - flower vase, diya stand, candle holder", "en",
			"Home & Decor > Metalware > Brass Decoratives", "HD-MW-BD", 0.923, "7418", false},
		{"brass hinglish", "Main peetal ke decorative items banata hoon - flower vase, diya stand, candle holder", "hi",
			"Home & Decor > Metalware > Brass Decoratives", "HD-MW-BD", 0.923, "7418", true},
		{"silk hinglish", "Banarasi silk saree banati hoon, zari work ke saath, shaadi ke liye", "hi",
			"Fashion > Ethnic Wear > Silk Sarees", "FA-EW-SS", 0.961, "5007", true},
		{"spices english", "We produce organic black pepper and cardamom, export quality, FSSAI certified", "en",
			"Food & Beverages > Spices > Organic Spices", "FB-SP-OS", 0.947, "0904", false},
		{"spices with spacing and case", "  we PRODUCE organic black pepper and cardamom,   export quality, fssai certified ", "",
			"Food & Beverages > Spices > Organic Spices", "FB-SP-OS", 0.947, "0904", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := new(MockRecorder)
			recordAny(rec)
			c := newTestClassifier(t, nil, rec)

			res, err := c.Classify(context.Background(), Request{Text: tt.text, Language: tt.language})
			require.NoError(t, err)
			require.Len(t, res.TopCategories, 3)

			top := res.TopCategories[0]
			assert.Equal(t, tt.category, top.Category)
			assert.Equal(t, tt.code, top.Code)
			assert.Equal(t, tt.confidence, top.Confidence)
			assert.Equal(t, domain.BandGreen, top.Band)
			assert.Equal(t, tt.hsn, res.HSNCode)
			assert.Equal(t, "rec-1", res.ID)
			assert.GreaterOrEqual(t, res.ProcessingTimeMS, 0.0)
			assertNonIncreasing(t, res.TopCategories)

			if tt.translated {
				require.NotNil(t, res.TranslatedText)
				assert.Equal(t, "hi", res.Language)
			} else {
				assert.Nil(t, res.TranslatedText)
			}
			rec.AssertExpectations(t)
		})
	}
}

func TestClassify_ReplayIsIdempotent(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := newTestClassifier(t, nil, rec)
	req := Request{Text: "I make brass decorative items - flower vase, diya stand, candle holder", Language: "en"}

	first, err := c.Classify(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.TopCategories, second.TopCategories)
	assert.Equal(t, first.HSNCode, second.HSNCode)
	assert.Equal(t, first.Attributes, second.Attributes)

	// Mutating a result must not leak into the cache.
	first.TopCategories[0].Confidence = 0.1
	first.Attributes.ProductTypes[0] = "changed"
	third, err := c.Classify(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.923, third.TopCategories[0].Confidence)
	assert.Equal(t, "Flower Vase", third.Attributes.ProductTypes[0])
	rec.AssertNumberOfCalls(t, "Record", 3)
}

func TestClassify_CustomReplayCacheAndClock(t *testing.T) {
	lamp := &Replay{
		English: "I make brass oil lamps",
		Categories: []domain.CategoryScore{
			{Category: "Home & Decor > Metalware > Brass Decoratives", Code: "HD-MW-BD", Confidence: 0.81},
		},
		HSNCode:    "7418",
		Attributes: domain.ProductAttributes{Material: "Brass", ProductTypes: []string{"Oil Lamp"}},
	}
	fixed := time.Date(2024, time.October, 2, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	c := New(taxonomy.Default(), nil, nil, Config{Thresholds: domain.DefaultBandThresholds},
		WithReplayCache(NewReplayCache(map[*Replay][]string{lamp: {"Main peetal ke diye banata hoon"}})),
		WithClock(func() time.Time { return fixed }),
	)

	rec, err := c.Classify(context.Background(), Request{Text: "  main PEETAL ke diye banata hoon ", Language: "hi"})
	require.NoError(t, err)
	require.Len(t, rec.TopCategories, 1)
	assert.Equal(t, 0.81, rec.TopCategories[0].Confidence)
	assert.Equal(t, domain.BandYellow, rec.TopCategories[0].Band)
	assert.Equal(t, []string{"Oil Lamp"}, rec.Attributes.ProductTypes)
	require.NotNil(t, rec.TranslatedText)
	assert.Equal(t, "I make brass oil lamps", *rec.TranslatedText)
	assert.Equal(t, fixed.UTC(), rec.CreatedAt)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())

	// The built-in personas are not consulted once the cache is replaced.
	persona, err := c.Classify(context.Background(), Request{
		Text:     "I make brass decorative items - flower vase, diya stand, candle holder",
		Language: "en",
	})
	require.NoError(t, err)
	assert.NotEqual(t, 0.923, persona.TopCategories[0].Confidence)
	assert.Equal(t, fixed.UTC(), persona.CreatedAt)
}

func TestClassify_LiveScoring(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := newTestClassifier(t, nil, rec)

	res, err := c.Classify(context.Background(), Request{
		Text:     "Handmade wooden furniture - table and chair",
		Language: "en",
		Location: "Saharanpur, UP",
	})
	require.NoError(t, err)
	require.Len(t, res.TopCategories, 3)
	assertNonIncreasing(t, res.TopCategories)

	top := res.TopCategories[0]
	assert.Equal(t, "HD-WF-WF", top.Code)
	assert.Equal(t, domain.BandGreen, top.Band)
	assert.Equal(t, "9403", res.HSNCode)
	assert.Equal(t, "Wood", res.Attributes.Material)
	assert.Equal(t, []string{"Table", "Chair"}, res.Attributes.ProductTypes)
	assert.Equal(t, "Saharanpur", res.Attributes.Origin)
	assert.Equal(t, "Woodcraft", res.Attributes.CraftType)
	assert.Equal(t, "Handmade", res.Attributes.Quality)

	// Zero-relevance padding is ordered by path.
	assert.Equal(t, 0.0, res.TopCategories[1].Confidence)
	assert.Less(t, res.TopCategories[1].Category, res.TopCategories[2].Category)
}

func TestClassify_WeakMatchIsYellow(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := newTestClassifier(t, nil, rec)

	res, err := c.Classify(context.Background(), Request{Text: "candle", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "HD-CH-CH", res.TopCategories[0].Code)
	assert.Equal(t, domain.BandYellow, res.TopCategories[0].Band)
}

func TestClassify_TranslatesHinglish(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := newTestClassifier(t, translate.NewGlossaryTranslator(nil), rec)

	res, err := c.Classify(context.Background(), Request{Text: "Main lakdi ki kursi banata hoon", Language: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Language)
	require.NotNil(t, res.TranslatedText)
	assert.Contains(t, *res.TranslatedText, "wood")
	assert.Equal(t, "HD-WF-WF", res.TopCategories[0].Code)
}

func TestClassify_TranslationTimeoutIsNotFatal(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	slow := translate.Func(func(ctx context.Context, text, source, target string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	c := newTestClassifier(t, slow, rec)

	res, err := c.Classify(context.Background(), Request{Text: "lakdi ki almirah banata hoon", Language: "hi"})
	require.NoError(t, err)
	assert.Nil(t, res.TranslatedText)
	assert.Equal(t, "HD-WF-WF", res.TopCategories[0].Code)
}

func TestClassify_AdversarialInputDegradesToRed(t *testing.T) {
	for _, text := range []string{"!!!@@@###", "qwerty zxcvb", "1234567890"} {
		rec := new(MockRecorder)
		recordAny(rec)
		c := newTestClassifier(t, nil, rec)

		res, err := c.Classify(context.Background(), Request{Text: text, Language: "en"})
		require.NoError(t, err, text)
		require.Len(t, res.TopCategories, 1)
		assert.Equal(t, Unclassified(), res.TopCategories[0])
		assert.Equal(t, domain.FallbackHSNCode, res.HSNCode)
		require.NotNil(t, res.ONDCCatalog)
		assert.Equal(t, domain.UnclassifiedCode, res.ONDCCatalog.Message.Catalog.CategoryID)
	}
}

func TestClassify_InferencePanicDegradesToRed(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := newTestClassifier(t, nil, rec)
	c.scorer = nil

	res, err := c.Classify(context.Background(), Request{Text: "brass vase", Language: "en"})
	require.NoError(t, err)
	require.Len(t, res.TopCategories, 1)
	assert.Equal(t, domain.BandRed, res.TopCategories[0].Band)
}

func TestClassify_Errors(t *testing.T) {
	rec := new(MockRecorder)
	c := newTestClassifier(t, nil, rec)

	_, err := c.Classify(context.Background(), Request{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyText)

	storeErr := errors.New("disk full")
	rec.On("Record", mock.Anything, mock.Anything).Return("", storeErr).Once()
	_, err = c.Classify(context.Background(), Request{Text: "brass vase"})
	assert.ErrorIs(t, err, storeErr)
}

func TestClassify_CustomThresholds(t *testing.T) {
	rec := new(MockRecorder)
	recordAny(rec)
	c := New(taxonomy.Default(), nil, rec, Config{Thresholds: domain.BandThresholds{Green: 0.95, Yellow: 0.5}})

	res, err := c.Classify(context.Background(), Request{Text: "I make brass decorative items - flower vase, diya stand, candle holder"})
	require.NoError(t, err)
	assert.Equal(t, domain.BandYellow, res.TopCategories[0].Band, "0.923 is below a 0.95 green threshold")
}

func TestBuildCatalog(t *testing.T) {
	attrs := domain.ProductAttributes{
		Material:     "Silk (Banarasi)",
		ProductTypes: []string{"Banarasi Silk Saree"},
		CraftType:    "Handloom Weaving",
		WorkType:     "Zari",
		Occasion:     "Wedding",
	}
	top := domain.CategoryScore{Category: "Fashion > Ethnic Wear > Silk Sarees", Code: "FA-EW-SS"}
	long := "I make Banarasi silk sarees with zari work, for weddings, and also dupattas and stoles for festive seasons across India"

	cat := BuildCatalog(long, top, "5007", attrs)

	assert.Equal(t, "nic2004:52110", cat.Context.Domain)
	assert.Equal(t, "on_search", cat.Context.Action)
	assert.Equal(t, "vyaparsetu.ai", cat.Context.BppID)
	body := cat.Message.Catalog
	assert.Equal(t, "Banarasi Silk Saree", body.Descriptor.Name)
	assert.Len(t, []rune(body.Descriptor.ShortDesc), 100)
	assert.Equal(t, long, body.Descriptor.LongDesc)
	assert.Equal(t, "FA-EW-SS", body.CategoryID)
	assert.Equal(t, "F1", body.FulfillmentID)
	assert.Equal(t, "INR", body.Price.Currency)

	codes := make([]string, 0, len(body.Tags))
	for _, tag := range body.Tags {
		codes = append(codes, tag.Code)
	}
	assert.Equal(t, []string{"origin", "material", "hsn", "craft_type", "occasion", "work_type"}, codes)
	assert.Equal(t, "India", body.Tags[0].Value)
	assert.Equal(t, "5007", body.Tags[2].Value)
}

func TestExtractAttributes(t *testing.T) {
	tax := taxonomy.Default()
	spices, _ := tax.ByCode("FB-SP-OS")

	attrs := extractAttributes(phraseOf("We produce organic black pepper and cardamom, export quality, FSSAI certified"), spices, "")
	assert.Equal(t, "Organic Spices", attrs.Material)
	assert.Equal(t, []string{"Black Pepper", "Cardamom"}, attrs.ProductTypes)
	assert.Equal(t, "FSSAI", attrs.Certification)
	assert.Equal(t, "Export Grade", attrs.Quality)
	assert.Empty(t, attrs.Origin)

	brass, _ := tax.ByCode("HD-MW-BD")
	attrs = extractAttributes(phraseOf("peetal flower vase aur diya stand, Moradabad"), brass, "India")
	assert.Equal(t, "Brass (Peetal)", attrs.Material)
	assert.Equal(t, []string{"Flower Vase", "Diya Stand"}, attrs.ProductTypes)
	assert.Equal(t, "Moradabad", attrs.Origin)
	assert.Equal(t, "Handcrafted Metalware", attrs.CraftType)
}

func phraseOf(s string) textutil.Phrase {
	return textutil.NewPhrase(s)
}

func assertNonIncreasing(t *testing.T, cats []domain.CategoryScore) {
	t.Helper()
	for i := 1; i < len(cats); i++ {
		assert.GreaterOrEqual(t, cats[i-1].Confidence, cats[i].Confidence)
	}
}
