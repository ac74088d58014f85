package recommend

import (
	"errors"
	"fmt"
)

// Kind classifies a per-problem failure.
type Kind string

const (
	KindNoTemplates       Kind = "no_templates"
	KindMalformedTemplate Kind = "malformed_template"
	KindNoRecommendations Kind = "no_recommendations"
	KindScoringFailure    Kind = "scoring_failure"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNoTemplates       = errors.New("no templates found")
	ErrMalformedTemplate = errors.New("malformed template")
	ErrNoRecommendations = errors.New("no recommendations selected")
	ErrScoringFailure    = errors.New("scoring failed")
)

var kindSentinels = map[Kind]error{
	KindNoTemplates:       ErrNoTemplates,
	KindMalformedTemplate: ErrMalformedTemplate,
	KindNoRecommendations: ErrNoRecommendations,
	KindScoringFailure:    ErrScoringFailure,
}

// Error is the structured failure for one problem. A missing template for a
// profile is an expected outcome, not a fault.
type Error struct {
	Kind     Kind
	Problem  string
	SkinType string
	AgeRange string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoTemplates:
		return fmt.Sprintf("no templates found for problem %q, skin type %q, age range %q", e.Problem, e.SkinType, e.AgeRange)
	case KindNoRecommendations:
		return fmt.Sprintf("no recommendations selected for problem %q", e.Problem)
	case KindMalformedTemplate:
		return fmt.Sprintf("malformed template for problem %q: %v", e.Problem, e.Err)
	case KindScoringFailure:
		return fmt.Sprintf("scoring failed for problem %q: %v", e.Problem, e.Err)
	default:
		return fmt.Sprintf("problem %q: %v", e.Problem, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
