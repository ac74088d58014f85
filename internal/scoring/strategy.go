// Package scoring turns a (profile, template) pair into a success probability.
// A Strategy supplies the base probability; the Scorer applies the fixed
// safety corrections on top of it.
package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Features is everything a strategy may look at. Symptoms are space-joined.
type Features struct {
	Problem          string
	SkinType         string
	AgeRange         string
	Symptoms         string
	Method           string
	Type             string
	MethodComplexity int
}

// Strategy predicts the base success probability for one candidate treatment.
// Implementations are immutable after loading and safe for concurrent use.
type Strategy interface {
	Name() string
	Predict(Features) (float64, error)
}

// Strategy names accepted by config key scoring.strategy.
const (
	StrategyRules = "rules"
	StrategyModel = "model"
)

// Load reads the artifact for the named strategy.
func Load(name, path string) (Strategy, error) {
	switch name {
	case StrategyRules:
		return LoadRules(path)
	case StrategyModel:
		return LoadModel(path)
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q (valid: %s, %s)", name, StrategyRules, StrategyModel)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())
