package config

import (
	"errors"
	"strings"
	"testing"
)

// fakeSecrets is a secretStore that records the refs it was asked for.
type fakeSecrets struct {
	value string
	err   error
	asked *[]secretRef
}

func (f fakeSecrets) Lookup(ref secretRef) (string, error) {
	if f.asked != nil {
		*f.asked = append(*f.asked, ref)
	}
	return f.value, f.err
}

// memBackend is an in-memory Backend.
type memBackend struct {
	strs  map[string]string
	ints  map[string]int
	bools map[string]bool
}

func newMemBackend() *memBackend {
	return &memBackend{strs: map[string]string{}, ints: map[string]int{}, bools: map[string]bool{}}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strs[key]
	return v, ok, nil
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *memBackend) GetBool(key string) (bool, bool, error) {
	v, ok := m.bools[key]
	return v, ok, nil
}

func (m *memBackend) SetString(key, val string) error { m.strs[key] = val; return nil }
func (m *memBackend) SetInt(key string, val int) error { m.ints[key] = val; return nil }
func (m *memBackend) SetBool(key string, val bool) error { m.bools[key] = val; return nil }

func (m *memBackend) Delete(key string) error {
	delete(m.strs, key)
	delete(m.ints, key)
	delete(m.bools, key)
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied for an empty backend.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMemBackend(), fakeSecrets{err: errors.New("none")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Server.MaxConns != 256 {
		t.Errorf("Server.MaxConns = %d, want 256", cfg.Server.MaxConns)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("Server.RateLimit = %d, want 120", cfg.Server.RateLimit)
	}
	if cfg.Scoring.Strategy != "rules" {
		t.Errorf("Scoring.Strategy = %q, want rules", cfg.Scoring.Strategy)
	}
	if cfg.Scoring.ContraindicationPolicy != "substring" {
		t.Errorf("Scoring.ContraindicationPolicy = %q, want substring", cfg.Scoring.ContraindicationPolicy)
	}
	if cfg.Recommend.TopPerProblem != 3 || cfg.Recommend.Parallelism != 4 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if !cfg.Storage.SnapshotsEnabled {
		t.Error("Storage.SnapshotsEnabled = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

// TestBackendValues verifies values are read from the backend.
func TestBackendValues(t *testing.T) {
	clearEnv(t)
	b := newMemBackend()
	b.ints["server.port"] = 5000
	b.strs["catalog.path"] = "/srv/catalog.yaml"
	b.strs["scoring.strategy"] = "model"
	b.strs["scoring.model_path"] = "/srv/model.json"
	b.bools["storage.snapshots_enabled"] = false

	cfg, err := loadWith(b, fakeSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/srv/catalog.yaml" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Storage.SnapshotsEnabled {
		t.Error("Storage.SnapshotsEnabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if cfg.StrategyPath() != "/srv/model.json" {
		t.Errorf("StrategyPath = %q", cfg.StrategyPath())
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	b := newMemBackend()
	b.ints["server.port"] = 5000
	t.Setenv("SKINREC_SERVER_PORT", "6000")
	t.Setenv("SKINREC_RECOMMEND_PARALLELISM", "not-a-number")
	t.Setenv("SKINREC_API_TOKEN", "env-token")

	cfg, err := loadWith(b, fakeSecrets{value: "keychain-token"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000", cfg.Server.Port)
	}
	if cfg.Recommend.Parallelism != 4 {
		t.Errorf("unparsable env should keep default, got %d", cfg.Recommend.Parallelism)
	}
	if cfg.Server.APIToken != "env-token" {
		t.Errorf("APIToken = %q, want env-token", cfg.Server.APIToken)
	}
}

// TestSecretStoreFallback verifies the secret store is consulted for the API
// token when SKINREC_API_TOKEN is unset.
func TestSecretStoreFallback(t *testing.T) {
	clearEnv(t)

	var asked []secretRef
	cfg, err := loadWith(newMemBackend(), fakeSecrets{value: "keychain-secret", asked: &asked})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIToken != "keychain-secret" {
		t.Errorf("APIToken = %q, want %q", cfg.Server.APIToken, "keychain-secret")
	}
	if len(asked) != 1 || asked[0] != apiTokenSecret {
		t.Errorf("secret lookups = %+v, want [%+v]", asked, apiTokenSecret)
	}

	asked = nil
	t.Setenv("SKINREC_API_TOKEN", "env-token")
	if _, err := loadWith(newMemBackend(), fakeSecrets{value: "unused", asked: &asked}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asked) != 0 {
		t.Errorf("secret store consulted despite env token: %+v", asked)
	}

	t.Setenv("SKINREC_API_TOKEN", "")
	cfg, err = loadWith(newMemBackend(), fakeSecrets{err: errSecretNotFound})
	if err != nil {
		t.Fatalf("missing secret should not fail Load: %v", err)
	}
	if cfg.Server.APIToken != "" {
		t.Errorf("APIToken = %q, want empty", cfg.Server.APIToken)
	}
}

// TestMissingRequiredField verifies a clear error when the catalog or the
// strategy artifact is not configured.
func TestMissingRequiredField(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
		want string
	}{
		{"no catalog", func(c *Config) { c.Scoring.RulesPath = "r.json" }, "catalog.path"},
		{"no rules", func(c *Config) { c.Catalog.Path = "c.json" }, "scoring.rules_path"},
		{"no model", func(c *Config) {
			c.Catalog.Path = "c.json"
			c.Scoring.Strategy = "model"
			c.Scoring.RulesPath = "r.json"
		}, "scoring.model_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.cfg(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrMissingRequired) {
				t.Fatalf("err = %v, want ErrMissingRequired", err)
			}
			if !strings.Contains(err.Error(), "missing required config") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to name %q", err, tt.want)
			}
		})
	}

	cfg := defaults()
	cfg.Catalog.Path = "c.json"
	cfg.Scoring.Strategy = "oracle"
	if err := cfg.Validate(); err == nil || errors.Is(err, ErrMissingRequired) {
		t.Errorf("unknown strategy: err = %v", err)
	}
}

func TestSetKey(t *testing.T) {
	b := newMemBackend()

	if err := setKey(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKey int: %v", err)
	}
	if b.ints["server.port"] != 4200 {
		t.Errorf("server.port = %d", b.ints["server.port"])
	}
	if err := setKey(b, "catalog.path", "/data/catalog.json"); err != nil {
		t.Fatalf("setKey string: %v", err)
	}
	if err := setKey(b, "storage.snapshots_enabled", "0"); err != nil {
		t.Fatalf("setKey bool: %v", err)
	}
	if v, ok := b.bools["storage.snapshots_enabled"]; !ok || v {
		t.Errorf("snapshots_enabled = %v, %v; want false, true", v, ok)
	}

	for _, tc := range []struct{ key, value string }{
		{"server.port", "abc"},
		{"storage.snapshots_enabled", "maybe"},
		{"server.api_token", "secret"},
		{"no.such.key", "x"},
	} {
		if err := setKey(b, tc.key, tc.value); err == nil {
			t.Errorf("setKey(%q, %q) succeeded, want error", tc.key, tc.value)
		}
	}
}

func TestUnsetKey(t *testing.T) {
	clearEnv(t)
	b := newMemBackend()
	if err := setKey(b, "recommend.top_per_problem", "5"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := setKey(b, "storage.snapshots_enabled", "false"); err != nil {
		t.Fatalf("setKey: %v", err)
	}

	for _, key := range []string{"recommend.top_per_problem", "storage.snapshots_enabled"} {
		if err := unsetKey(b, key); err != nil {
			t.Fatalf("unsetKey(%s): %v", key, err)
		}
	}
	cfg, err := loadWith(b, fakeSecrets{err: errSecretNotFound})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Recommend.TopPerProblem != 3 {
		t.Errorf("TopPerProblem = %d, want default 3", cfg.Recommend.TopPerProblem)
	}
	if !cfg.Storage.SnapshotsEnabled {
		t.Error("SnapshotsEnabled = false, want default true")
	}

	if err := unsetKey(b, "server.api_token"); err == nil || !strings.Contains(err.Error(), "SKINREC_API_TOKEN") {
		t.Errorf("unset secret: err = %v", err)
	}
	if err := unsetKey(b, "no.such.key"); err == nil {
		t.Error("unset unknown key succeeded")
	}
}

func TestShowAllMasksSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Server.APIToken = "tok"
	for _, k := range ShowAll(cfg) {
		if k.Key == "server.api_token" && k.Value != "********" {
			t.Errorf("api token shown as %q", k.Value)
		}
		if k.Key == "server.port" && k.Value != "4100" {
			t.Errorf("server.port shown as %q", k.Value)
		}
	}
	for _, k := range ValidKeys() {
		if k == "server.api_token" {
			t.Error("ValidKeys lists a secret")
		}
	}
}
