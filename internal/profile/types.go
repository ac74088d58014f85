// Package profile models the questionnaire answers a recommendation request is
// computed from.
package profile

import "github.com/kalambet/skinrec/internal/skin"

// Profile is built once per request and never mutated afterwards.
type Profile struct {
	SkinType skin.SkinType `json:"skin_type"`
	AgeRange skin.AgeRange `json:"age_range"`
	Problems []string      `json:"problems"`
	Symptoms []string      `json:"symptoms"`
	// Allergies hold "Allergy to <ingredient>" answers or the None sentinel.
	Allergies []string `json:"allergies"`
	// Contraindications hold declared conditions or the None sentinel.
	Contraindications []string `json:"contraindications"`
	IsPregnant        bool     `json:"is_pregnant"`
}
