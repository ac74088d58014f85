//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// security(1) exits with errSecItemNotFound when no item matches.
const secItemNotFound = 44

func lookupSecret(ref secretRef) (string, error) {
	out, err := exec.Command(
		"security", "find-generic-password",
		"-s", ref.service,
		"-a", ref.account,
		"-w",
	).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == secItemNotFound {
			return "", fmt.Errorf("%s/%s: %w", ref.service, ref.account, errSecretNotFound)
		}
		return "", fmt.Errorf("reading keychain item %s/%s: %w", ref.service, ref.account, err)
	}
	return strings.TrimSpace(string(out)), nil
}
