package cli

import (
	"database/sql"
	"fmt"

	"screening-service/internal/app"
	"screening-service/internal/config"
	"screening-service/internal/logger"
	"screening-service/internal/screening"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	return logger.New(level, cfg.Log.Development)
}

// serviceConfig builds the engine configuration from the screening section.
func serviceConfig(cfg config.Config, log *zap.Logger) (app.Config, error) {
	ic, err := cfg.Screening.Interpreter()
	if err != nil {
		return app.Config{}, fmt.Errorf("screening texts: %w", err)
	}
	interpreter, err := screening.NewInterpreter(ic)
	if err != nil {
		return app.Config{}, fmt.Errorf("screening thresholds: %w", err)
	}
	minTier, err := cfg.Screening.MinTier()
	if err != nil {
		return app.Config{}, err
	}
	matcher, err := screening.NewMatcher(minTier)
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		Interpreter:         interpreter,
		Matcher:             matcher,
		RecommendationLimit: cfg.Screening.RecommendationLimit,
		Logger:              log,
	}, nil
}

func openBun(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}
