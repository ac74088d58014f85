package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kalambet/skinrec/internal/skin"
)

// Categorical feature names a linear model may weight.
var categoricalFeatures = map[string]func(Features) string{
	"problem":   func(f Features) string { return f.Problem },
	"skin_type": func(f Features) string { return f.SkinType },
	"age_range": func(f Features) string { return f.AgeRange },
	"method":    func(f Features) string { return f.Method },
	"type":      func(f Features) string { return f.Type },
}

// Numeric feature names a linear model may weight.
var numericFeatures = map[string]func(Features) float64{
	"method_complexity": func(f Features) float64 { return float64(f.MethodComplexity) },
}

// Link functions.
const (
	LinkIdentity = "identity"
	LinkLogistic = "logistic"
)

var errNonFinite = errors.New("model produced a non-finite score")

// Model is a linear regressor exported from the offline training pipeline:
// one-hot categorical weights, bag-of-words symptom weights and numeric
// weights summed with an intercept.
type Model struct {
	Version     string                        `json:"version"`
	Intercept   float64                       `json:"intercept"`
	Categorical map[string]map[string]float64 `json:"categorical"`
	Tokens      map[string]float64            `json:"tokens"`
	Numeric     map[string]float64            `json:"numeric"`
	Link        string                        `json:"link" validate:"omitempty,oneof=identity logistic"`

	// Sorted feature names so the sum is evaluated in a fixed order.
	categoricalOrder []string
	numericOrder     []string
}

// ParseModel decodes and validates a model artifact; category values and
// tokens are normalized.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("validating model: %w", err)
	}
	if m.Link == "" {
		m.Link = LinkIdentity
	}

	cat := make(map[string]map[string]float64, len(m.Categorical))
	for feature, weights := range m.Categorical {
		if _, ok := categoricalFeatures[feature]; !ok {
			return nil, fmt.Errorf("model: unknown categorical feature %q", feature)
		}
		norm := make(map[string]float64, len(weights))
		for value, w := range weights {
			norm[categoryKey(feature, value)] += w
		}
		cat[feature] = norm
		m.categoricalOrder = append(m.categoricalOrder, feature)
	}
	sort.Strings(m.categoricalOrder)
	m.Categorical = cat

	tokens := make(map[string]float64, len(m.Tokens))
	for tok, w := range m.Tokens {
		tokens[skin.Normalize(tok)] += w
	}
	m.Tokens = tokens

	for feature := range m.Numeric {
		if _, ok := numericFeatures[feature]; !ok {
			return nil, fmt.Errorf("model: unknown numeric feature %q", feature)
		}
		m.numericOrder = append(m.numericOrder, feature)
	}
	sort.Strings(m.numericOrder)
	return &m, nil
}

// categoryKey canonicalizes method, type and skin type values so artifacts may
// use either the canonical names or the Russian labels.
func categoryKey(feature, value string) string {
	switch feature {
	case "method":
		if m, err := skin.ParseMethod(value); err == nil {
			return skin.Normalize(m.String())
		}
	case "type":
		if name, ok := skin.CanonicalTypeName(value); ok {
			return skin.Normalize(name)
		}
	case "skin_type":
		if st, err := skin.ParseSkinType(value); err == nil {
			return skin.Normalize(string(st))
		}
	}
	return skin.Normalize(value)
}

// LoadModel reads a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return ParseModel(data)
}

func (m *Model) Name() string { return StrategyModel }

// Predict evaluates the model. Unknown category values and tokens contribute
// nothing.
func (m *Model) Predict(f Features) (float64, error) {
	sum := m.Intercept
	for _, feature := range m.categoricalOrder {
		sum += m.Categorical[feature][categoryKey(feature, categoricalFeatures[feature](f))]
	}
	for _, tok := range strings.Fields(skin.Normalize(f.Symptoms)) {
		sum += m.Tokens[tok]
	}
	for _, feature := range m.numericOrder {
		sum += m.Numeric[feature] * numericFeatures[feature](f)
	}
	if m.Link == LinkLogistic {
		sum = 1 / (1 + math.Exp(-sum))
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, errNonFinite
	}
	return sum, nil
}
