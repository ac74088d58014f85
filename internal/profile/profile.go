package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kalambet/skinrec/internal/skin"
)

// Answers that mean "nothing declared".
var noneAnswers = map[string]bool{
	"none": true,
	"нет":  true,
}

var allergyPrefixes = []string{
	skin.Normalize("Allergy to") + " ",
	skin.Normalize("Аллергия на") + " ",
}

// IsNone reports whether an answer is empty or the None sentinel.
func IsNone(answer string) bool {
	a := skin.Normalize(answer)
	return a == "" || noneAnswers[a]
}

// Allergen extracts the normalized ingredient name from an allergy answer.
// Answers without the "Allergy to " prefix are taken as the ingredient itself.
func Allergen(answer string) (string, bool) {
	if IsNone(answer) {
		return "", false
	}
	a := skin.Normalize(answer)
	for _, prefix := range allergyPrefixes {
		if a == strings.TrimSpace(prefix) {
			return "", false
		}
		if strings.HasPrefix(a, prefix) {
			a = strings.TrimSpace(strings.TrimPrefix(a, prefix))
			break
		}
	}
	return a, a != ""
}

// Allergens returns the normalized ingredient names the user is allergic to.
func (p Profile) Allergens() []string {
	var out []string
	for _, a := range p.Allergies {
		if ing, ok := Allergen(a); ok {
			out = append(out, ing)
		}
	}
	return out
}

// DeclaredContraindications drops sentinel and blank answers.
func (p Profile) DeclaredContraindications() []string {
	var out []string
	for _, c := range p.Contraindications {
		if !IsNone(c) {
			out = append(out, strings.TrimSpace(c))
		}
	}
	return out
}

// SymptomText joins symptoms with single spaces, the form scoring models see.
func (p Profile) SymptomText() string {
	return strings.Join(p.Symptoms, " ")
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	cp := p
	cp.Problems = cloneStrings(p.Problems)
	cp.Symptoms = cloneStrings(p.Symptoms)
	cp.Allergies = cloneStrings(p.Allergies)
	cp.Contraindications = cloneStrings(p.Contraindications)
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// maxSummaryChars keeps the one-line summary readable in logs and terminals.
const maxSummaryChars = 400

// Summary renders a compact one-line description of the profile.
func (p Profile) Summary() string {
	var parts []string
	if p.SkinType != "" {
		parts = append(parts, fmt.Sprintf("Skin: %s.", p.SkinType))
	}
	if p.AgeRange != "" {
		parts = append(parts, fmt.Sprintf("Age: %s.", p.AgeRange))
	}
	if len(p.Problems) > 0 {
		parts = append(parts, fmt.Sprintf("Problems: %s.", strings.Join(p.Problems, ", ")))
	}
	if allergens := p.Allergens(); len(allergens) > 0 {
		parts = append(parts, fmt.Sprintf("Allergic to: %s.", strings.Join(allergens, ", ")))
	}
	if c := p.DeclaredContraindications(); len(c) > 0 {
		parts = append(parts, fmt.Sprintf("Contraindications: %s.", strings.Join(c, ", ")))
	}
	if p.IsPregnant {
		parts = append(parts, "Pregnant.")
	}
	if len(parts) == 0 {
		return "Profile: empty."
	}

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		end := maxSummaryChars
		for end > 0 && !utf8.RuneStart(summary[end]) {
			end--
		}
		if idx := strings.LastIndex(summary[:end], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:end]
		}
	}
	return summary
}
