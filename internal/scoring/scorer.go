package scoring

import (
	"fmt"
	"math"

	"github.com/kalambet/skinrec/internal/catalog"
	"github.com/kalambet/skinrec/internal/profile"
	"github.com/kalambet/skinrec/internal/skin"
)

// Correction factors, probability bounds and the warning threshold.
const (
	AllergyFactor          = 0.6
	PregnancyFactor        = 0.7
	ContraindicationFactor = 0.8

	MaxBaseProb  = 0.95
	MinFinalProb = 0.10

	// WarningThreshold is in percent.
	WarningThreshold = 30
)

// LowEffectivenessWarning is attached to results below WarningThreshold.
const LowEffectivenessWarning = "Low effectiveness due to contraindications"

// Correction names a safety signal that reduced a score.
type Correction string

const (
	CorrectionAllergy          Correction = "allergy"
	CorrectionPregnancy        Correction = "pregnancy"
	CorrectionContraindication Correction = "contraindication"
)

// Result is the outcome of scoring one template for one profile.
type Result struct {
	// SuccessProb is the final probability in whole percent, 10..95.
	SuccessProb int
	// BaseProb is the clamped strategy output rounded to two decimals.
	BaseProb    float64
	Corrections []Correction
	Warning     string
}

// Scorer combines a strategy with the fixed correction rules.
type Scorer struct {
	strategy Strategy
	policy   ContraindicationPolicy
}

// NewScorer returns a Scorer. A nil policy selects SubstringPolicy.
func NewScorer(strategy Strategy, policy ContraindicationPolicy) *Scorer {
	if policy == nil {
		policy = SubstringPolicy
	}
	return &Scorer{strategy: strategy, policy: policy}
}

// Strategy returns the underlying strategy.
func (s *Scorer) Strategy() Strategy { return s.strategy }

// Score rates template t for problem under profile p.
func (s *Scorer) Score(p profile.Profile, problem string, t catalog.Template) (Result, error) {
	f := Features{
		Problem:          problem,
		SkinType:         string(p.SkinType),
		AgeRange:         string(p.AgeRange),
		Symptoms:         p.SymptomText(),
		Method:           t.Method.String(),
		Type:             t.Type,
		MethodComplexity: t.Method.Complexity(),
	}
	base, err := s.strategy.Predict(f)
	if err != nil {
		return Result{}, fmt.Errorf("%s strategy: %w", s.strategy.Name(), err)
	}
	if math.IsNaN(base) || math.IsInf(base, 0) {
		return Result{}, fmt.Errorf("%s strategy: %w", s.strategy.Name(), errNonFinite)
	}
	base = math.Min(math.Max(base, 0), MaxBaseProb)

	var corrections []Correction
	prob := base
	if allergyConflict(p.Allergens(), t.ActiveIngredients) {
		prob *= AllergyFactor
		corrections = append(corrections, CorrectionAllergy)
	}
	if p.IsPregnant && t.ContraindicatedDuringPregnancy {
		prob *= PregnancyFactor
		corrections = append(corrections, CorrectionPregnancy)
	}
	if s.contraindicationConflict(p.DeclaredContraindications(), t.Contraindications) {
		prob *= ContraindicationFactor
		corrections = append(corrections, CorrectionContraindication)
	}
	prob = math.Max(prob, MinFinalProb)

	r := Result{
		// Halves round away from zero: 12.5 becomes 13, not 12.
		SuccessProb: int(math.Round(prob * 100)),
		BaseProb:    math.Round(base*100) / 100,
		Corrections: corrections,
	}
	if r.SuccessProb < WarningThreshold {
		r.Warning = LowEffectivenessWarning
	}
	return r, nil
}

func allergyConflict(allergens, ingredients []string) bool {
	for _, a := range allergens {
		for _, ing := range ingredients {
			if a == skin.Normalize(ing) {
				return true
			}
		}
	}
	return false
}

func (s *Scorer) contraindicationConflict(declared []string, templateText string) bool {
	for _, d := range declared {
		if s.policy(d, templateText) {
			return true
		}
	}
	return false
}
