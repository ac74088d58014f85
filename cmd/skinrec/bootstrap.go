package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kalambet/skinrec/internal/catalog"
	"github.com/kalambet/skinrec/internal/config"
	"github.com/kalambet/skinrec/internal/recommend"
	"github.com/kalambet/skinrec/internal/scoring"
	"github.com/kalambet/skinrec/internal/skin"
)

func newLogger(w io.Writer, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func loadSymptoms(cfg config.Config) (*skin.SymptomMap, error) {
	if cfg.Catalog.SymptomsPath == "" {
		return skin.DefaultSymptoms(), nil
	}
	m, err := skin.LoadSymptoms(cfg.Catalog.SymptomsPath)
	if err != nil {
		return nil, fmt.Errorf("loading symptoms: %w", err)
	}
	return m, nil
}

// buildEngine loads the catalog, the symptom map and the configured scoring
// strategy. Everything it returns is immutable and shared across requests.
func buildEngine(cfg config.Config, logger *slog.Logger) (*recommend.Engine, *skin.SymptomMap, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	symptoms, err := loadSymptoms(cfg)
	if err != nil {
		return nil, nil, err
	}
	strategy, err := scoring.Load(cfg.Scoring.Strategy, cfg.StrategyPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s strategy: %w", cfg.Scoring.Strategy, err)
	}
	policy, err := scoring.PolicyByName(cfg.Scoring.ContraindicationPolicy)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("engine ready",
		"templates", cat.Len(),
		"strategy", strategy.Name(),
		"policy", cfg.Scoring.ContraindicationPolicy,
	)
	engine := recommend.NewEngine(cat, scoring.NewScorer(strategy, policy), recommend.Options{
		TopPerProblem: cfg.Recommend.TopPerProblem,
		Parallelism:   cfg.Recommend.Parallelism,
		Logger:        logger,
	})
	return engine, symptoms, nil
}
