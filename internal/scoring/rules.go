package scoring

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/kalambet/skinrec/internal/skin"
)

// Rule assigns a base probability to every candidate whose non-empty fields
// match. Empty fields are wildcards.
type Rule struct {
	Problem  string  `json:"problem,omitempty"`
	SkinType string  `json:"skin_type,omitempty"`
	AgeRange string  `json:"age_range,omitempty"`
	Method   string  `json:"method,omitempty"`
	Type     string  `json:"type,omitempty"`
	Base     float64 `json:"base" validate:"gte=0,lte=1"`
}

func (r Rule) specificity() int {
	n := 0
	for _, f := range []string{r.Problem, r.SkinType, r.AgeRange, r.Method, r.Type} {
		if f != "" {
			n++
		}
	}
	return n
}

func (r Rule) matches(f Features) bool {
	return fieldMatches(r.Problem, f.Problem) &&
		fieldMatches(r.SkinType, f.SkinType) &&
		fieldMatches(r.AgeRange, f.AgeRange) &&
		fieldMatches(r.Method, f.Method) &&
		fieldMatches(r.Type, f.Type)
}

func fieldMatches(rule, value string) bool {
	return rule == "" || rule == skin.Normalize(value)
}

// RuleSet is the rules strategy artifact.
type RuleSet struct {
	Default float64 `json:"default" validate:"gte=0,lte=1"`
	// ComplexityPenalty is subtracted per complexity point above 1.
	ComplexityPenalty float64 `json:"complexity_penalty" validate:"gte=0,lte=1"`
	Rules             []Rule  `json:"rules" validate:"dive"`
}

// ParseRules decodes and validates a rules artifact. Match fields are
// normalized, and method names resolve to their canonical form.
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := validate.Struct(rs); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if r.Method != "" {
			m, err := skin.ParseMethod(r.Method)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			r.Method = m.String()
			if r.Type != "" {
				typ, ok := m.CanonicalType(r.Type)
				if !ok {
					return nil, fmt.Errorf("rule %d: type %q is not a %s type", i, r.Type, m)
				}
				r.Type = typ
			}
		} else if r.Type != "" {
			typ, ok := skin.CanonicalTypeName(r.Type)
			if !ok {
				return nil, fmt.Errorf("rule %d: unknown type %q", i, r.Type)
			}
			r.Type = typ
		}
		if st, err := skin.ParseSkinType(r.SkinType); err == nil {
			r.SkinType = string(st)
		}
		r.Problem = skin.Normalize(r.Problem)
		r.SkinType = skin.Normalize(r.SkinType)
		r.AgeRange = skin.Normalize(r.AgeRange)
		r.Method = skin.Normalize(r.Method)
		r.Type = skin.Normalize(r.Type)
	}
	return &rs, nil
}

// LoadRules reads a rules artifact from disk.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

func (rs *RuleSet) Name() string { return StrategyRules }

// Predict picks the most specific matching rule, the first one on ties, and
// falls back to the default.
func (rs *RuleSet) Predict(f Features) (float64, error) {
	base := rs.Default
	best := -1
	for _, r := range rs.Rules {
		if s := r.specificity(); s > best && r.matches(f) {
			base, best = r.Base, s
		}
	}
	if f.MethodComplexity > 1 {
		base -= rs.ComplexityPenalty * float64(f.MethodComplexity-1)
	}
	return base, nil
}
