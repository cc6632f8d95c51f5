// Package config loads catalog-service configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName     = "catalog-service"
	defaultServicePort     = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second

	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBName          = "whpcodes"
	defaultDBUser          = "postgres"
	defaultDBSSLMode       = "disable"
	defaultDBMaxOpenConns  = 20
	defaultDBMaxIdleConns  = 10
	defaultDBConnLifetime  = time.Hour
	defaultLoggingLevel    = "info"
	defaultLoggingFmt      = "json"
	defaultTokenTTL        = 12 * time.Hour
	defaultBufferSize      = 1000
	defaultFlushInterval   = time.Second
	defaultFlushThreshold  = 200
	defaultTrackingRate    = 5
	defaultTrackingBurst   = 20
	defaultAllTimeRowCap   = 10000
	defaultMaxCustomDays   = 366
	defaultStrategy        = "holistic"
	defaultLabel           = "Other"
	defaultMinScore        = 3
	defaultMinPrimary      = 1
	defaultOverridesPath   = "price_overrides.yml"
	defaultRecommendLimit  = 4
	defaultRecommendMin    = 20
	defaultRecommendTTL    = time.Hour
	defaultSameCategory    = 100
	defaultSameTopTopic    = 80
	defaultSharedTopic     = 25
	defaultSamePrice       = 10
	defaultKeywordEach     = 3
	defaultKeywordCap      = 30
	defaultRatingFloor     = 4.0
	defaultRatingMultiple  = 2
	defaultImportSheetName = "Sheet1"
)

// Config holds the application configuration.
type Config struct {
	Service         ServiceConfig         `yaml:"service"`
	Database        DatabaseConfig        `yaml:"database"`
	Redis           RedisConfig           `yaml:"redis"`
	Auth            AuthConfig            `yaml:"auth"`
	Logging         LoggingConfig         `yaml:"logging"`
	Tracking        TrackingConfig        `yaml:"tracking"`
	Analytics       AnalyticsConfig       `yaml:"analytics"`
	Classifier      ClassifierConfig      `yaml:"classifier"`
	Pricing         PricingConfig         `yaml:"pricing"`
	Recommendations RecommendationsConfig `yaml:"recommendations"`
	Import          ImportConfig          `yaml:"import"`
}

// ServiceConfig holds HTTP server settings.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Port            int           `env:"CATALOG_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"    yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns the listen address.
func (s *ServiceConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	Database        string        `env:"DB_NAME"     yaml:"database"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// DSN returns the lib/pq keyword/value connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// RedisConfig holds the response cache connection. An empty address
// disables Redis and the service falls back to an in-process cache.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
}

// AuthConfig holds admin authentication settings.
type AuthConfig struct {
	JWTSecret string        `env:"ADMIN_JWT_SECRET" yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// TrackingConfig controls the tracking event buffer and rate limit.
type TrackingConfig struct {
	BufferSize     int           `yaml:"buffer_size"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
	FlushThreshold int           `yaml:"flush_threshold"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	Burst          int           `yaml:"burst"`
}

// AnalyticsConfig bounds analytics queries.
type AnalyticsConfig struct {
	AllTimeRowCap int `yaml:"alltime_row_cap"`
	MaxCustomDays int `yaml:"max_custom_days"`
}

// ClassifierConfig selects the category scoring strategy.
type ClassifierConfig struct {
	Strategy     string `env:"CLASSIFIER_STRATEGY" yaml:"strategy"`
	DefaultLabel string `yaml:"default_label"`
	MinScore     int    `yaml:"min_score"`
	MinPrimary   int    `yaml:"min_primary"`
}

// PricingConfig locates the manual price override table.
type PricingConfig struct {
	OverridesPath  string `env:"PRICE_OVERRIDES_PATH" yaml:"overrides_path"`
	WatchOverrides bool   `yaml:"watch_overrides"`
}

// RecommendationsConfig tunes the recommendation ranker.
type RecommendationsConfig struct {
	Limit    int                   `yaml:"limit"`
	MinScore float64               `yaml:"min_score"`
	CacheTTL time.Duration         `yaml:"cache_ttl"`
	Weights  RecommendationWeights `yaml:"weights"`
}

// RecommendationWeights are the similarity weights.
type RecommendationWeights struct {
	SameCategory     float64 `yaml:"same_category"`
	SameTopTopic     float64 `yaml:"same_top_topic"`
	SharedTopic      float64 `yaml:"shared_topic"`
	SamePrice        float64 `yaml:"same_price"`
	KeywordEach      float64 `yaml:"keyword_each"`
	KeywordCap       float64 `yaml:"keyword_cap"`
	RatingFloor      float64 `yaml:"rating_floor"`
	RatingMultiplier float64 `yaml:"rating_multiplier"`
}

// ImportConfig controls spreadsheet imports.
type ImportConfig struct {
	SheetName string `yaml:"sheet_name"`
}

// Load reads the config file at path, applies defaults, then environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadYAML[Config](path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
	setTrackingDefaults(&cfg.Tracking)
	setClassifierDefaults(&cfg.Classifier)
	setRecommendationDefaults(&cfg.Recommendations)

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.Analytics.AllTimeRowCap == 0 {
		cfg.Analytics.AllTimeRowCap = defaultAllTimeRowCap
	}
	if cfg.Analytics.MaxCustomDays == 0 {
		cfg.Analytics.MaxCustomDays = defaultMaxCustomDays
	}
	if cfg.Pricing.OverridesPath == "" {
		cfg.Pricing.OverridesPath = defaultOverridesPath
	}
	if cfg.Import.SheetName == "" {
		cfg.Import.SheetName = defaultImportSheetName
	}
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.ReadTimeout == 0 {
		svc.ReadTimeout = defaultReadTimeout
	}
	if svc.WriteTimeout == 0 {
		svc.WriteTimeout = defaultWriteTimeout
	}
	if svc.IdleTimeout == 0 {
		svc.IdleTimeout = defaultIdleTimeout
	}
	if svc.ShutdownTimeout == 0 {
		svc.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultDBMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultDBMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultDBConnLifetime
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = defaultLoggingFmt
	}
}

func setTrackingDefaults(t *TrackingConfig) {
	if t.BufferSize == 0 {
		t.BufferSize = defaultBufferSize
	}
	if t.FlushInterval == 0 {
		t.FlushInterval = defaultFlushInterval
	}
	if t.FlushThreshold == 0 {
		t.FlushThreshold = defaultFlushThreshold
	}
	if t.RatePerSecond == 0 {
		t.RatePerSecond = defaultTrackingRate
	}
	if t.Burst == 0 {
		t.Burst = defaultTrackingBurst
	}
}

func setClassifierDefaults(c *ClassifierConfig) {
	if c.Strategy == "" {
		c.Strategy = defaultStrategy
	}
	if c.DefaultLabel == "" {
		c.DefaultLabel = defaultLabel
	}
	if c.MinScore == 0 {
		c.MinScore = defaultMinScore
	}
	if c.MinPrimary == 0 {
		c.MinPrimary = defaultMinPrimary
	}
}

func setRecommendationDefaults(r *RecommendationsConfig) {
	if r.Limit == 0 {
		r.Limit = defaultRecommendLimit
	}
	if r.MinScore == 0 {
		r.MinScore = defaultRecommendMin
	}
	if r.CacheTTL == 0 {
		r.CacheTTL = defaultRecommendTTL
	}

	w := &r.Weights
	if w.SameCategory == 0 {
		w.SameCategory = defaultSameCategory
	}
	if w.SameTopTopic == 0 {
		w.SameTopTopic = defaultSameTopTopic
	}
	if w.SharedTopic == 0 {
		w.SharedTopic = defaultSharedTopic
	}
	if w.SamePrice == 0 {
		w.SamePrice = defaultSamePrice
	}
	if w.KeywordEach == 0 {
		w.KeywordEach = defaultKeywordEach
	}
	if w.KeywordCap == 0 {
		w.KeywordCap = defaultKeywordCap
	}
	if w.RatingFloor == 0 {
		w.RatingFloor = defaultRatingFloor
	}
	if w.RatingMultiplier == 0 {
		w.RatingMultiplier = defaultRatingMultiple
	}
}

// ValidationError is a configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	if c.Auth.JWTSecret == "" {
		return &ValidationError{Field: "auth.jwt_secret", Message: "is required"}
	}
	switch c.Classifier.Strategy {
	case "holistic", "contextual":
	default:
		return &ValidationError{Field: "classifier.strategy", Message: "must be one of: holistic, contextual"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
	return nil
}
