//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultsDomain = "com.skinrec.app"

func defaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Library", "Application Support", "skinrec")
	}
	return "skinrec-data"
}

// defaultsBackend keeps settings in UserDefaults through defaults(1).
type defaultsBackend struct {
	domain string
}

func newPlatformBackend() Backend {
	return defaultsBackend{domain: defaultsDomain}
}

func (b defaultsBackend) run(args ...string) (string, error) {
	out, err := exec.Command("defaults", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// lookup returns ok=false when the key is absent; defaults exits 1 then.
func (b defaultsBackend) lookup(key string) (string, bool, error) {
	s, err := b.run("read", b.domain, key)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("defaults read %s: %w: %s", key, err, s)
	}
	return s, true, nil
}

func (b defaultsBackend) write(key, kind, val string) error {
	if s, err := b.run("write", b.domain, key, kind, val); err != nil {
		return fmt.Errorf("defaults write %s: %w: %s", key, err, s)
	}
	return nil
}

func (b defaultsBackend) GetString(key string) (string, bool, error) {
	return b.lookup(key)
}

func (b defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.lookup(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, true, nil
}

// GetBool accepts both -bool values (printed as 1/0) and strings.
func (b defaultsBackend) GetBool(key string) (bool, bool, error) {
	s, ok, err := b.lookup(key)
	if !ok || err != nil {
		return false, ok, err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, true, fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	return v, true, nil
}

func (b defaultsBackend) SetString(key, val string) error {
	return b.write(key, "-string", val)
}

func (b defaultsBackend) SetInt(key string, val int) error {
	return b.write(key, "-int", strconv.Itoa(val))
}

func (b defaultsBackend) SetBool(key string, val bool) error {
	return b.write(key, "-bool", strconv.FormatBool(val))
}

func (b defaultsBackend) Delete(key string) error {
	s, err := b.run("delete", b.domain, key)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil
		}
		return fmt.Errorf("defaults delete %s: %w: %s", key, err, s)
	}
	return nil
}
