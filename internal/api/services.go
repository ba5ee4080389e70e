package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vyaparsetu-service/internal/classifier"
	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/pricing"
	"vyaparsetu-service/internal/store"
	"vyaparsetu-service/internal/translate"
)

// Classifier classifies a product description and records the result.
type Classifier interface {
	Classify(ctx context.Context, req classifier.Request) (*domain.ClassificationRecord, error)
}

// Recommender ranks marketplaces for a merchant.
type Recommender interface {
	Recommend(req domain.MatchRequest) ([]domain.MatchResult, error)
}

// Benchmarker answers pricing questions for a category.
type Benchmarker interface {
	Benchmark(q pricing.Query) (*domain.PricingBenchmark, error)
}

// pinger is implemented by stores backed by a remote database.
type pinger interface {
	Ping(ctx context.Context) error
}

// Services are the engine components the transport handlers call.
type Services struct {
	Classifier Classifier
	Translator translate.Translator
	Matcher    Recommender
	Pricing    Benchmarker
	Store      store.Store
}

// Options tune the transport handlers.
type Options struct {
	ServiceName      string
	RecentLimit      int
	TranslateTimeout time.Duration
	AdminSecret      string
	Logger           *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.ServiceName == "" {
		o.ServiceName = "VyaparSetu AI"
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = store.DefaultRecentLimit
	}
	if o.TranslateTimeout <= 0 {
		o.TranslateTimeout = 3 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()/100) / 10
}
