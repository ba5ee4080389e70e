package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"vyaparsetu-service/internal/domain"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Translation providers.
const (
	ProviderGlossary = "glossary"
	ProviderAWS      = "aws"
	ProviderNone     = "none"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_ENV"` name the environment variable and
// `default:""` provides the value used when it is not set.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT"` // json or console; empty picks by APP_ENV
	ServiceName string `envconfig:"SERVICE_NAME" default:"VyaparSetu AI"`
	HttpServer  ServerConfig
	GrpcServer  GrpcServerConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Translate   TranslateConfig
	Engine      EngineConfig
	Admin       AdminConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8000"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	CORSOrigins  []string      `envconfig:"HTTP_CORS_ORIGINS" default:"*"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Enabled bool   `envconfig:"GRPC_ENABLED" default:"true"`
	Port    string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// StoreConfig selects the classification store backend.
type StoreConfig struct {
	Driver       string `envconfig:"STORE_DRIVER" default:"memory"`
	RecentLimit  int    `envconfig:"DASHBOARD_RECENT_LIMIT" default:"10"`
	SeedDemoData bool   `envconfig:"SEED_DEMO_DATA" default:"false"`
}

// PostgresConfig holds PostgreSQL database connection details. Only used when
// STORE_DRIVER=postgres.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DBName   string `envconfig:"POSTGRES_DBNAME"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// RedisConfig configures the translation cache. An empty address keeps the
// cache in process memory.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"TRANSLATE_CACHE_TTL" default:"24h"`
}

// TranslateConfig selects and bounds the translation capability.
type TranslateConfig struct {
	Provider        string        `envconfig:"TRANSLATE_PROVIDER" default:"glossary"`
	Timeout         time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"3s"`
	AWSRegion       string        `envconfig:"AWS_REGION" default:"ap-south-1"`
	WorkingLanguage string        `envconfig:"WORKING_LANGUAGE" default:"en"`
}

// EngineConfig holds the classification bands and matcher weights.
type EngineConfig struct {
	BandGreen            float64 `envconfig:"BAND_GREEN_THRESHOLD" default:"0.85"`
	BandYellow           float64 `envconfig:"BAND_YELLOW_THRESHOLD" default:"0.5"`
	WeightDomain         float64 `envconfig:"MATCH_WEIGHT_DOMAIN" default:"0.35"`
	WeightGeography      float64 `envconfig:"MATCH_WEIGHT_GEOGRAPHY" default:"0.20"`
	WeightCapacity       float64 `envconfig:"MATCH_WEIGHT_CAPACITY" default:"0.15"`
	WeightHistory        float64 `envconfig:"MATCH_WEIGHT_HISTORY" default:"0.20"`
	WeightSpecialization float64 `envconfig:"MATCH_WEIGHT_SPECIALIZATION" default:"0.10"`
}

// Thresholds returns the configured confidence bands.
func (e EngineConfig) Thresholds() domain.BandThresholds {
	return domain.BandThresholds{Green: e.BandGreen, Yellow: e.BandYellow}
}

// Weights returns the configured matcher weights.
func (e EngineConfig) Weights() domain.MatchWeights {
	return domain.MatchWeights{
		Domain:         e.WeightDomain,
		Geography:      e.WeightGeography,
		Capacity:       e.WeightCapacity,
		History:        e.WeightHistory,
		Specialization: e.WeightSpecialization,
	}
}

// AdminConfig protects the admin routes. An empty secret disables auth.
type AdminConfig struct {
	JWTSecret string `envconfig:"ADMIN_JWT_SECRET"`
}

const weightTolerance = 1e-6

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine; the environment may be set otherwise

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "" {
			errs = append(errs, errors.New("POSTGRES_HOST, POSTGRES_USER and POSTGRES_DBNAME are required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORE_DRIVER %q", c.Store.Driver))
	}

	switch c.Translate.Provider {
	case ProviderGlossary, ProviderAWS, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("invalid TRANSLATE_PROVIDER %q", c.Translate.Provider))
	}
	if c.Translate.Timeout <= 0 {
		errs = append(errs, errors.New("TRANSLATE_TIMEOUT must be positive"))
	}

	e := c.Engine
	if !(0 < e.BandYellow && e.BandYellow < e.BandGreen && e.BandGreen <= 1) {
		errs = append(errs, fmt.Errorf("band thresholds must satisfy 0 < yellow < green <= 1, got yellow=%v green=%v", e.BandYellow, e.BandGreen))
	}
	w := e.Weights()
	for _, v := range []float64{w.Domain, w.Geography, w.Capacity, w.History, w.Specialization} {
		if v < 0 {
			errs = append(errs, errors.New("match weights must not be negative"))
			break
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("match weights must sum to 1, got %v", w.Sum()))
	}

	if c.Store.RecentLimit <= 0 {
		errs = append(errs, errors.New("DASHBOARD_RECENT_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}
