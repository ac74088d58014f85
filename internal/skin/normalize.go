// Package skin holds the closed vocabularies shared by the catalog, the scorer and
// the request surfaces: skin types, age ranges, treatment methods and the
// symptom-to-problem dictionary.
package skin

import "strings"

var (
	yoFolder     = strings.NewReplacer("ё", "е")
	yoCaseFolder = strings.NewReplacer("ё", "е", "Ё", "Е")
)

// Normalize folds a key for comparison: surrounding space trimmed, lower-cased,
// and the Cyrillic ё folded to е. Every catalog lookup goes through it.
func Normalize(s string) string {
	return yoFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// foldYo replaces ё/Ё with е/Е and keeps the original case otherwise.
func foldYo(s string) string {
	return yoCaseFolder.Replace(s)
}
