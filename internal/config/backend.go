package config

import "errors"

// Backend persists the non-secret settings listed in specs under their
// dotted key names, e.g. "scoring.rules_path".
type Backend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetBool(key string) (val bool, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetBool(key string, val bool) error
	Delete(key string) error
}

// secretRef names an entry in the platform secret store.
type secretRef struct {
	service string
	account string
}

// apiTokenSecret holds the bearer token for the HTTP API when
// SKINREC_API_TOKEN is not set.
var apiTokenSecret = secretRef{service: "skinrec", account: "api_token"}

var errSecretNotFound = errors.New("secret not found")

type secretStore interface {
	Lookup(ref secretRef) (string, error)
}

// platformSecrets is the Keychain on macOS and secrets.json elsewhere.
type platformSecrets struct{}

func (platformSecrets) Lookup(ref secretRef) (string, error) {
	return lookupSecret(ref)
}
