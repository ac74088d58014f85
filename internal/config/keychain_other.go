//go:build !darwin

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// secretsFilePath is $XDG_DATA_HOME/skinrec/secrets.json, a JSON object of
// service -> account -> value.
func secretsFilePath() string {
	return filepath.Join(defaultDataDir(), "secrets.json")
}

func lookupSecret(ref secretRef) (string, error) {
	data, err := os.ReadFile(secretsFilePath())
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s/%s: %w", ref.service, ref.account, errSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading secrets file: %w", err)
	}
	var secrets map[string]map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("parsing secrets file: %w", err)
	}
	val, ok := secrets[ref.service][ref.account]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", ref.service, ref.account, errSecretNotFound)
	}
	return strings.TrimSpace(val), nil
}
