//go:build !darwin

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skinrec", "config.json")

	b := newFileBackend(path)
	if err := b.SetInt("server.port", 4200); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := b.SetString("catalog.path", "/data/catalog.yaml"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	reloaded := newFileBackend(path)
	port, ok, err := reloaded.GetInt("server.port")
	if err != nil || !ok || port != 4200 {
		t.Errorf("GetInt = %d, %v, %v; want 4200", port, ok, err)
	}
	p, ok, err := reloaded.GetString("catalog.path")
	if err != nil || !ok || p != "/data/catalog.yaml" {
		t.Errorf("GetString = %q, %v, %v", p, ok, err)
	}

	if err := reloaded.Delete("catalog.path"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := newFileBackend(path).GetString("catalog.path"); ok {
		t.Error("deleted key still present")
	}
}

func TestFileBackendInvalidInt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server.port": 1.5, "server.max_conns": "many"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	b := newFileBackend(path)
	if _, _, err := b.GetInt("server.port"); err == nil {
		t.Error("expected error for fractional port")
	}
	if _, _, err := b.GetInt("server.max_conns"); err == nil {
		t.Error("expected error for non-numeric max_conns")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	if err := SetKey("catalog.path", "/data/catalog.json"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if err := SetKey("scoring.rules_path", "/data/rules.json"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Path != "/data/catalog.json" || cfg.Scoring.RulesPath != "/data/rules.json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Storage.DataDir != filepath.Join(dir, "skinrec") {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
}

func TestFileBackendBool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"legacy": "false", "broken": "maybe"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	b := newFileBackend(path)
	if err := b.SetBool("storage.snapshots_enabled", false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	reloaded := newFileBackend(path)
	if v, ok, err := reloaded.GetBool("storage.snapshots_enabled"); err != nil || !ok || v {
		t.Errorf("GetBool = %v, %v, %v; want false, true, nil", v, ok, err)
	}
	if v, ok, err := reloaded.GetBool("legacy"); err != nil || !ok || v {
		t.Errorf("string bool = %v, %v, %v", v, ok, err)
	}
	if _, _, err := reloaded.GetBool("broken"); err == nil {
		t.Error("expected error for unparsable bool")
	}
	if _, ok, err := reloaded.GetBool("absent"); ok || err != nil {
		t.Errorf("absent key: ok=%v err=%v", ok, err)
	}
	if err := reloaded.Delete("absent"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestLookupSecretFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	if _, err := lookupSecret(apiTokenSecret); !errors.Is(err, errSecretNotFound) {
		t.Errorf("no secrets file: err = %v, want errSecretNotFound", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "skinrec"), 0o700); err != nil {
		t.Fatal(err)
	}
	body := `{"skinrec": {"api_token": " file-token\n"}, "other": {"api_token": "x"}}`
	if err := os.WriteFile(filepath.Join(dir, "skinrec", "secrets.json"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	tok, err := lookupSecret(apiTokenSecret)
	if err != nil || tok != "file-token" {
		t.Errorf("lookupSecret = %q, %v; want file-token", tok, err)
	}
	if _, err := lookupSecret(secretRef{service: "skinrec", account: "missing"}); !errors.Is(err, errSecretNotFound) {
		t.Errorf("missing account: err = %v, want errSecretNotFound", err)
	}

	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Server.APIToken != "file-token" {
		t.Errorf("APIToken = %q, want file-token from secrets.json", cfg.Server.APIToken)
	}
}
