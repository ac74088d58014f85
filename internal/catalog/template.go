package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kalambet/skinrec/internal/skin"
)

// ErrMissingField is wrapped by Template.Validate when a required field is empty.
var ErrMissingField = errors.New("missing required field")

// Template is one catalog entry: a treatment (method + type) that applies to a
// problem / skin type / age range combination. Templates are never mutated after
// the catalog is built.
type Template struct {
	Problem  string
	SkinType string
	AgeRange string

	Method skin.Method
	Type   string

	ActiveIngredients              []string
	ContraindicatedDuringPregnancy bool
	// Contraindications is free text, one item per line (commas also occur).
	Contraindications string
	Effects           []string
	CourseDuration    string
	// Description is the "Label: value" text block shown to the user.
	Description string
}

// Validate reports the required fields the template lacks.
func (t Template) Validate() error {
	var missing []string
	if t.Method == skin.MethodUnknown {
		missing = append(missing, "method")
	}
	if strings.TrimSpace(t.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// ContraindicationList splits the contraindication text into its lines.
func (t Template) ContraindicationList() []string {
	var out []string
	for _, line := range strings.Split(t.Contraindications, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
