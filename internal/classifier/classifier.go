// Package classifier turns a free-text product description into a ranked
// taxonomy classification with trust bands, attributes, HSN code and an ONDC
// catalog payload.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/textutil"
	"vyaparsetu-service/internal/translate"
)

var (
	ErrEmptyText    = errors.New("classifier: text is required")
	errNoCandidates = errors.New("classifier: no candidate categories")
)

// TopN is the number of ranked categories returned.
const TopN = 3

// Recorder persists classification records and returns the assigned id.
type Recorder interface {
	Record(ctx context.Context, rec *domain.ClassificationRecord) (string, error)
}

// Config tunes the pipeline.
type Config struct {
	WorkingLanguage  string
	TranslateTimeout time.Duration
	Thresholds       domain.BandThresholds
}

// Request is one classification call.
type Request struct {
	Text     string
	Language string // empty or "auto" triggers detection
	Location string // optional; used as origin when the text names none
}

// Classifier runs the classification pipeline. It is safe for concurrent use.
type Classifier struct {
	taxonomy   *taxonomy.Store
	scorer     *scorer
	replays    *ReplayCache
	translator translate.Translator
	recorder   Recorder
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

// Option customises a Classifier.
type Option func(*Classifier)

// WithReplayCache replaces the built-in demo replay cache.
func WithReplayCache(c *ReplayCache) Option {
	return func(cl *Classifier) { cl.replays = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Classifier) { cl.logger = l }
}

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(cl *Classifier) { cl.now = now }
}

// New creates a Classifier. A nil translator disables translation.
func New(tax *taxonomy.Store, tr translate.Translator, rec Recorder, cfg Config, opts ...Option) *Classifier {
	if cfg.WorkingLanguage == "" {
		cfg.WorkingLanguage = translate.LangEnglish
	}
	if cfg.TranslateTimeout <= 0 {
		cfg.TranslateTimeout = 3 * time.Second
	}
	if cfg.Thresholds == (domain.BandThresholds{}) {
		cfg.Thresholds = domain.DefaultBandThresholds
	}
	if tr == nil {
		tr = translate.Unavailable{}
	}
	c := &Classifier{
		taxonomy:   tax,
		scorer:     newScorer(tax),
		replays:    DefaultReplayCache(),
		translator: tr,
		recorder:   rec,
		cfg:        cfg,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the pipeline and records the result. Only an empty input or a
// persistence failure is reported as an error; every other failure degrades.
func (c *Classifier) Classify(ctx context.Context, req Request) (*domain.ClassificationRecord, error) {
	start := time.Now()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	lang := translate.ResolveLanguage(text, req.Language)

	rec := &domain.ClassificationRecord{
		Text:     req.Text,
		Language: lang,
	}
	if hit, ok := c.replays.Lookup(text); ok {
		c.applyReplay(rec, hit)
		c.logger.Debug("classification replayed", zap.String("code", rec.TopCategories[0].Code))
	} else {
		c.classifyLive(ctx, rec, text, lang, req.Location)
	}
	rec.ONDCCatalog = c.catalog(text, rec)
	rec.CreatedAt = c.now().UTC()
	rec.ProcessingTimeMS = math.Round(float64(time.Since(start).Microseconds())/100) / 10

	if c.recorder != nil {
		id, err := c.recorder.Record(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("classifier: failed to record classification: %w", err)
		}
		rec.ID = id
	}
	return rec, nil
}

func (c *Classifier) applyReplay(rec *domain.ClassificationRecord, hit ReplayHit) {
	cats := make([]domain.CategoryScore, len(hit.Categories))
	for i, cs := range hit.Categories {
		cs.Band = c.cfg.Thresholds.BandFor(cs.Confidence)
		cats[i] = cs
	}
	rec.TopCategories = cats
	rec.HSNCode = hit.HSNCode
	if !c.taxonomy.ValidHSN(rec.HSNCode) {
		rec.HSNCode = domain.FallbackHSNCode
	}
	rec.Attributes = hit.Attributes
	rec.Attributes.ProductTypes = append([]string(nil), hit.Attributes.ProductTypes...)
	if hit.Translated {
		en := hit.English
		rec.TranslatedText = &en
	}
}

func (c *Classifier) classifyLive(ctx context.Context, rec *domain.ClassificationRecord, text, lang, location string) {
	matchText := text
	if lang != c.cfg.WorkingLanguage {
		if translated, ok := c.translate(ctx, text, lang); ok {
			rec.TranslatedText = &translated
			matchText = text + " " + translated
		}
	}

	cats, attrs, err := c.infer(textutil.NewPhrase(matchText), location)
	if err != nil {
		c.logger.Warn("classification degraded to unclassified", zap.Error(err))
		cats = []domain.CategoryScore{Unclassified()}
		attrs = domain.ProductAttributes{}
	}
	rec.TopCategories = cats
	rec.Attributes = attrs
	rec.HSNCode = c.taxonomy.HSN(cats[0].Code)
}

// translate calls the provider under the configured timeout. Failures are
// logged and reported as !ok.
func (c *Classifier) translate(ctx context.Context, text, lang string) (string, bool) {
	tctx, cancel := context.WithTimeout(ctx, c.cfg.TranslateTimeout)
	defer cancel()

	out, err := c.translator.Translate(tctx, text, lang, c.cfg.WorkingLanguage)
	if err != nil {
		c.logger.Warn("translation skipped", zap.String("language", lang), zap.Error(err))
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" || out == text {
		return "", false
	}
	return out, true
}

// infer scores categories and extracts attributes. A panic in either step is
// converted into an error.
func (c *Classifier) infer(text textutil.Phrase, location string) (cats []domain.CategoryScore, attrs domain.ProductAttributes, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier: inference panicked: %v", r)
		}
	}()

	cats = c.scorer.score(text, TopN, c.cfg.Thresholds)
	if len(cats) == 0 || cats[0].Confidence <= 0 {
		return nil, domain.ProductAttributes{}, errNoCandidates
	}
	top, _ := c.taxonomy.ByCode(cats[0].Code)
	attrs = extractAttributes(text, top, location)
	return cats, attrs, nil
}

// catalog builds the ONDC payload, returning nil if generation fails.
func (c *Classifier) catalog(text string, rec *domain.ClassificationRecord) (cat *domain.ONDCCatalog) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("ondc catalog generation failed", zap.Any("panic", r))
			cat = nil
		}
	}()
	return BuildCatalog(text, rec.TopCategories[0], rec.HSNCode, rec.Attributes)
}

// Unclassified is the RED placeholder used when no category can be assigned.
func Unclassified() domain.CategoryScore {
	return domain.CategoryScore{
		Category:   domain.UnclassifiedPath,
		Code:       domain.UnclassifiedCode,
		Confidence: 0,
		Band:       domain.BandRed,
	}
}
