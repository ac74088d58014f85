package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Catalog   CatalogConfig
	Scoring   ScoringConfig
	Recommend RecommendConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port     int
	MaxConns int
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int
	APIToken  string
}

type StorageConfig struct {
	DataDir          string
	SnapshotsEnabled bool
}

type CatalogConfig struct {
	Path         string
	SymptomsPath string // empty selects the built-in questionnaire map
}

type ScoringConfig struct {
	Strategy               string // "rules" or "model"
	RulesPath              string
	ModelPath              string
	ContraindicationPolicy string // "substring" or "exact"
}

type RecommendConfig struct {
	TopPerProblem int
	Parallelism   int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:      4100,
			MaxConns:  256,
			RateLimit: 120,
		},
		Storage: StorageConfig{
			DataDir:          defaultDataDir(),
			SnapshotsEnabled: true,
		},
		Scoring: ScoringConfig{
			Strategy:               "rules",
			ContraindicationPolicy: "substring",
		},
		Recommend: RecommendConfig{
			TopPerProblem: 3,
			Parallelism:   4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ErrMissingRequired is wrapped by Load when a required key has no value.
var ErrMissingRequired = errors.New("missing required config")

// Load reads configuration from the platform-native backend, environment
// variables, and the platform secret store, then checks required keys.
//
// On macOS the backend is UserDefaults (domain: com.skinrec.app) and the API
// token falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/skinrec/config.json
// and the token falls back to $XDG_DATA_HOME/skinrec/secrets.json.
//
// Environment variables (SKINREC_*) override backend values on all platforms.
func Load() (Config, error) {
	cfg, err := loadWith(newPlatformBackend(), platformSecrets{})
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without the required-key check, for commands that only
// inspect or edit configuration.
func Read() (Config, error) {
	return loadWith(newPlatformBackend(), platformSecrets{})
}

func loadWith(b Backend, secrets secretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.APIToken == "" {
		if tok, err := secrets.Lookup(apiTokenSecret); err == nil && tok != "" {
			cfg.Server.APIToken = tok
		}
	}

	return cfg, nil
}

// Validate checks that the catalog and the selected strategy's artifact are
// configured.
func (cfg Config) Validate() error {
	var missing []string
	if cfg.Catalog.Path == "" {
		missing = append(missing, "catalog.path (SKINREC_CATALOG_PATH)")
	}
	switch cfg.Scoring.Strategy {
	case "rules":
		if cfg.Scoring.RulesPath == "" {
			missing = append(missing, "scoring.rules_path (SKINREC_SCORING_RULES_PATH)")
		}
	case "model":
		if cfg.Scoring.ModelPath == "" {
			missing = append(missing, "scoring.model_path (SKINREC_SCORING_MODEL_PATH)")
		}
	default:
		return fmt.Errorf("invalid scoring.strategy %q: want rules or model", cfg.Scoring.Strategy)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s. Set them with `skinrec config set` or environment variables",
			ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

// StrategyPath returns the artifact path for the configured strategy.
func (cfg Config) StrategyPath() string {
	if cfg.Scoring.Strategy == "model" {
		return cfg.Scoring.ModelPath
	}
	return cfg.Scoring.RulesPath
}
