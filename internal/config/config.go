package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"screening-service/internal/domain"
	"screening-service/internal/screening"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Screening ScreeningConfig `yaml:"screening"`
}

type ServerConfig struct {
	Port           string   `yaml:"port" env:"PORT"`
	ReadTimeout    string   `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout   string   `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
	AllowedOrigins []string `yaml:"allowedOrigins" env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`

	// RateLimit is requests per minute per client IP; zero disables limiting.
	RateLimit int `yaml:"rateLimit" env:"SERVER_RATE_LIMIT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`

	// TTL applies to stored screening records; empty keeps them forever.
	TTL string `yaml:"ttl" env:"REDIS_TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type CatalogConfig struct {
	TTL string `yaml:"ttl" env:"CATALOG_TTL"`

	// QuestionsFile and TherapistsFile replace the embedded seed data when Postgres is not configured.
	QuestionsFile  string `yaml:"questionsFile" env:"CATALOG_QUESTIONS_FILE"`
	TherapistsFile string `yaml:"therapistsFile" env:"CATALOG_THERAPISTS_FILE"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// ScreeningConfig recalibrates the interpretation and matching engines. Map keys are
// condition and tier names.
type ScreeningConfig struct {
	NoteworthyTier      string                                   `yaml:"noteworthyTier" env:"SCREENING_NOTEWORTHY_TIER"`
	RecommendationLimit int                                      `yaml:"recommendationLimit" env:"SCREENING_RECOMMENDATION_LIMIT"`
	Thresholds          map[string]ThresholdSettings             `yaml:"thresholds"`
	Texts               map[string]screening.TierText            `yaml:"texts"`
	ConditionTexts      map[string]map[string]screening.TierText `yaml:"conditionTexts"`
}

// ThresholdSettings recalibrates one condition. Omitted values keep the default calibration,
// and an omitted unit keeps the default unit. Changing the unit requires all three values.
type ThresholdSettings struct {
	Low      *int                    `yaml:"low"`
	Moderate *int                    `yaml:"moderate"`
	High     *int                    `yaml:"high"`
	Unit     screening.ThresholdUnit `yaml:"unit"`
}

func (s ThresholdSettings) apply(base screening.Thresholds) (screening.Thresholds, error) {
	if s.Unit != "" && s.Unit != base.Unit {
		if s.Low == nil || s.Moderate == nil || s.High == nil {
			return base, fmt.Errorf("%w: unit %s set without low, moderate and high", domain.ErrInvalidThresholds, s.Unit)
		}
		base.Unit = s.Unit
	}
	if s.Low != nil {
		base.Low = *s.Low
	}
	if s.Moderate != nil {
		base.Moderate = *s.Moderate
	}
	if s.High != nil {
		base.High = *s.High
	}
	return base, nil
}

// Load reads the YAML config at path, then applies .env and environment overrides.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Interpreter builds the interpretation config, overlaying configured values on the defaults.
func (c ScreeningConfig) Interpreter() (screening.InterpreterConfig, error) {
	out := screening.DefaultInterpreterConfig()
	for name, settings := range c.Thresholds {
		condition := domain.ParseCondition(name)
		base, ok := out.Thresholds[condition]
		if !ok {
			base = screening.DefaultThresholds()
		}
		t, err := settings.apply(base)
		if err != nil {
			return out, fmt.Errorf("%s: %w", condition, err)
		}
		out.Thresholds[condition] = t
	}

	texts, err := tierTexts(c.Texts)
	if err != nil {
		return out, err
	}
	for tier, text := range texts {
		out.Texts[tier] = overlay(out.Texts[tier], text)
	}

	if len(c.ConditionTexts) > 0 {
		out.ConditionTexts = make(map[domain.Condition]map[domain.Tier]screening.TierText, len(c.ConditionTexts))
		for name, byTier := range c.ConditionTexts {
			texts, err := tierTexts(byTier)
			if err != nil {
				return out, fmt.Errorf("%s: %w", name, err)
			}
			for tier, text := range texts {
				texts[tier] = overlay(out.Texts[tier], text)
			}
			out.ConditionTexts[domain.ParseCondition(name)] = texts
		}
	}
	return out, nil
}

// MinTier is the configured noteworthy tier, Moderate when unset.
func (c ScreeningConfig) MinTier() (domain.Tier, error) {
	if strings.TrimSpace(c.NoteworthyTier) == "" {
		return domain.TierModerate, nil
	}
	var tier domain.Tier
	if err := tier.UnmarshalText([]byte(c.NoteworthyTier)); err != nil {
		return domain.TierLow, err
	}
	return tier, nil
}

func tierTexts(in map[string]screening.TierText) (map[domain.Tier]screening.TierText, error) {
	out := make(map[domain.Tier]screening.TierText, len(in))
	for name, text := range in {
		var tier domain.Tier
		if err := tier.UnmarshalText([]byte(name)); err != nil {
			return nil, err
		}
		out[tier] = text
	}
	return out, nil
}

// overlay keeps base values for fields left empty in over.
func overlay(base, over screening.TierText) screening.TierText {
	if over.Severity != "" {
		base.Severity = over.Severity
	}
	if over.Message != "" {
		base.Message = over.Message
	}
	if over.Recommendation != "" {
		base.Recommendation = over.Recommendation
	}
	return base
}
