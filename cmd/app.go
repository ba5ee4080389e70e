package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vyaparsetu-service/internal/api"
	"vyaparsetu-service/internal/classifier"
	"vyaparsetu-service/internal/config"
	"vyaparsetu-service/internal/logger"
	"vyaparsetu-service/internal/matcher"
	"vyaparsetu-service/internal/platform"
	"vyaparsetu-service/internal/pricing"
	"vyaparsetu-service/internal/store"
	"vyaparsetu-service/internal/taxonomy"
	"vyaparsetu-service/internal/translate"
)

// app is the fully wired engine shared by every command.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      store.Store
	translator translate.Translator
	classifier *classifier.Classifier
	matcher    *matcher.Matcher
	pricing    *pricing.Service
	closers    []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	log := logger.New(logger.ForEnvironment(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat))
	zap.ReplaceGlobals(log)
	log.Info("configuration loaded",
		zap.String("app_env", cfg.AppEnv),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("translate_provider", cfg.Translate.Provider))

	a := &app{cfg: cfg, logger: log}

	a.store, err = openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.store.Close)

	a.translator, err = a.openTranslator(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	tax := taxonomy.Default()
	a.classifier = classifier.New(tax, a.translator, a.store, classifier.Config{
		WorkingLanguage:  cfg.Translate.WorkingLanguage,
		TranslateTimeout: cfg.Translate.Timeout,
		Thresholds:       cfg.Engine.Thresholds(),
	}, classifier.WithLogger(log.Named("classifier")))
	a.matcher = matcher.New(tax, platform.Default(), cfg.Engine.Weights(), log.Named("matcher"))
	a.pricing = pricing.New(log.Named("pricing"))
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		s, err := store.OpenPostgres(ctx, cfg.Postgres.DSN(), log.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		log.Info("database connection established", zap.String("host", cfg.Postgres.Host))
		return s, nil
	default:
		log.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}
}

// openTranslator builds the provider and wraps it in a cache. A Redis failure
// falls back to the in-process cache.
func (a *app) openTranslator(ctx context.Context) (translate.Translator, error) {
	cfg := a.cfg
	log := a.logger.Named("translate")

	var provider translate.Translator
	switch cfg.Translate.Provider {
	case config.ProviderNone:
		return translate.Unavailable{}, nil
	case config.ProviderAWS:
		t, err := translate.NewAWSTranslator(ctx, cfg.Translate.AWSRegion, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS translator: %w", err)
		}
		provider = t
	default:
		provider = translate.NewGlossaryTranslator(nil)
	}

	var cache translate.Cache = translate.NewMemoryCache()
	if cfg.Redis.Addr != "" {
		rc, err := translate.NewRedisCache(ctx, translate.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis cache unavailable, using in-process cache", zap.Error(err))
		} else {
			cache = rc
			a.closers = append(a.closers, rc.Close)
		}
	}
	return translate.NewCachingTranslator(provider, cache, cfg.Redis.CacheTTL, log), nil
}

func (a *app) services() api.Services {
	return api.Services{
		Classifier: a.classifier,
		Translator: a.translator,
		Matcher:    a.matcher,
		Pricing:    a.pricing,
		Store:      a.store,
	}
}

func (a *app) apiOptions() api.Options {
	return api.Options{
		ServiceName:      a.cfg.ServiceName,
		RecentLimit:      a.cfg.Store.RecentLimit,
		TranslateTimeout: a.cfg.Translate.Timeout,
		AdminSecret:      a.cfg.Admin.JWTSecret,
		Logger:           a.logger.Named("api"),
	}
}

// Close releases the store and cache connections in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
