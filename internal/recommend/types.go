// Package recommend selects, scores and ranks treatments per problem and fans a
// profile's problem list out across the catalog.
package recommend

import "github.com/kalambet/skinrec/internal/scoring"

// NotSpecified fills descriptive fields the template leaves empty.
const NotSpecified = "Not specified"

// Recommendation is an immutable result record for one selected template.
type Recommendation struct {
	Method            string               `json:"method"`
	Type              string               `json:"type"`
	SuccessProb       int                  `json:"success_prob"`
	Template          string               `json:"template"`
	ExpectedEffect    string               `json:"expected_effect"`
	CourseDuration    string               `json:"course_duration"`
	ActiveIngredients []string             `json:"active_ingredients"`
	Contraindications []string             `json:"contraindications"`
	BaseProb          float64              `json:"base_prob"`
	Warning           string               `json:"warning,omitempty"`
	Corrections       []scoring.Correction `json:"corrections,omitempty"`
}

// ProblemResult is one slot of a multi-problem response: either
// recommendations or an error, never both.
type ProblemResult struct {
	Problem         string           `json:"problem"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
	ErrorKind       Kind             `json:"error_kind,omitempty"`

	Err error `json:"-"`
}

// OK reports whether the slot holds recommendations.
func (r ProblemResult) OK() bool { return r.Err == nil && r.Error == "" }
