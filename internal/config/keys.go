package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "SKINREC_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.max_conns", typ: kInt, env: "SKINREC_SERVER_MAX_CONNS",
		apply:   func(cfg *Config, v any) { cfg.Server.MaxConns = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.MaxConns },
	},
	{
		key: "server.rate_limit", typ: kInt, env: "SKINREC_SERVER_RATE_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Server.RateLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.RateLimit },
	},
	{
		key: "server.api_token", typ: kString, env: "SKINREC_API_TOKEN",
		secret: true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "storage.data_dir", typ: kString, env: "SKINREC_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.snapshots_enabled", typ: kBool, env: "SKINREC_STORAGE_SNAPSHOTS_ENABLED",
		apply:   func(cfg *Config, v any) { cfg.Storage.SnapshotsEnabled = v.(bool) },
		extract: func(cfg Config) any { return cfg.Storage.SnapshotsEnabled },
	},
	{
		key: "catalog.path", typ: kString, env: "SKINREC_CATALOG_PATH",
		apply:   func(cfg *Config, v any) { cfg.Catalog.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Catalog.Path },
	},
	{
		key: "catalog.symptoms_path", typ: kString, env: "SKINREC_CATALOG_SYMPTOMS_PATH",
		apply:   func(cfg *Config, v any) { cfg.Catalog.SymptomsPath = v.(string) },
		extract: func(cfg Config) any { return cfg.Catalog.SymptomsPath },
	},
	{
		key: "scoring.strategy", typ: kString, env: "SKINREC_SCORING_STRATEGY",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Strategy = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.Strategy },
	},
	{
		key: "scoring.rules_path", typ: kString, env: "SKINREC_SCORING_RULES_PATH",
		apply:   func(cfg *Config, v any) { cfg.Scoring.RulesPath = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.RulesPath },
	},
	{
		key: "scoring.model_path", typ: kString, env: "SKINREC_SCORING_MODEL_PATH",
		apply:   func(cfg *Config, v any) { cfg.Scoring.ModelPath = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.ModelPath },
	},
	{
		key: "scoring.contraindication_policy", typ: kString, env: "SKINREC_SCORING_CONTRAINDICATION_POLICY",
		apply:   func(cfg *Config, v any) { cfg.Scoring.ContraindicationPolicy = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.ContraindicationPolicy },
	},
	{
		key: "recommend.top_per_problem", typ: kInt, env: "SKINREC_RECOMMEND_TOP_PER_PROBLEM",
		apply:   func(cfg *Config, v any) { cfg.Recommend.TopPerProblem = v.(int) },
		extract: func(cfg Config) any { return cfg.Recommend.TopPerProblem },
	},
	{
		key: "recommend.parallelism", typ: kInt, env: "SKINREC_RECOMMEND_PARALLELISM",
		apply:   func(cfg *Config, v any) { cfg.Recommend.Parallelism = v.(int) },
		extract: func(cfg Config) any { return cfg.Recommend.Parallelism },
	},
	{
		key: "log.level", typ: kString, env: "SKINREC_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetBool(s.key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] could not read bool config key %s: %v. Using default value.\n", s.key, err)
				continue
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
