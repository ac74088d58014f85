package scoring

import (
	"fmt"
	"strings"

	"github.com/kalambet/skinrec/internal/skin"
)

// ContraindicationPolicy decides whether a declared contraindication conflicts
// with a template's contraindication text.
type ContraindicationPolicy func(declared, templateText string) bool

// Policy names accepted by config key scoring.contraindication_policy.
const (
	PolicySubstring = "substring"
	PolicyExact     = "exact"
)

// SubstringPolicy matches when the declared text occurs anywhere in the
// template text, ignoring case.
func SubstringPolicy(declared, templateText string) bool {
	d := skin.Normalize(declared)
	return d != "" && strings.Contains(skin.Normalize(templateText), d)
}

// ExactPolicy matches when the declared text equals one of the newline- or
// comma-separated items of the template text, ignoring case.
func ExactPolicy(declared, templateText string) bool {
	d := skin.Normalize(declared)
	if d == "" {
		return false
	}
	items := strings.FieldsFunc(templateText, func(r rune) bool { return r == '\n' || r == ',' })
	for _, item := range items {
		if skin.Normalize(item) == d {
			return true
		}
	}
	return false
}

// PolicyByName resolves a configured policy name; empty selects substring.
func PolicyByName(name string) (ContraindicationPolicy, error) {
	switch name {
	case "", PolicySubstring:
		return SubstringPolicy, nil
	case PolicyExact:
		return ExactPolicy, nil
	default:
		return nil, fmt.Errorf("unknown contraindication policy %q (valid: %s, %s)", name, PolicySubstring, PolicyExact)
	}
}
