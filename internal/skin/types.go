package skin

import "fmt"

// SkinType is the self-reported skin type.
type SkinType string

const (
	SkinNormal SkinType = "Normal"
	SkinDry    SkinType = "Dry"
	SkinOily   SkinType = "Oily"
	SkinUnsure SkinType = "Unsure"
)

// SkinTypes lists every skin type in questionnaire order.
var SkinTypes = []SkinType{SkinNormal, SkinDry, SkinOily, SkinUnsure}

var skinTypeLabels = map[SkinType]string{
	SkinNormal: "Нормальная",
	SkinDry:    "Сухая",
	SkinOily:   "Жирная",
	SkinUnsure: "Не уверен(а)",
}

// Label returns the Russian questionnaire label.
func (t SkinType) Label() string { return skinTypeLabels[t] }

// ParseSkinType accepts the canonical name or the Russian label.
func ParseSkinType(s string) (SkinType, error) {
	key := Normalize(s)
	for _, t := range SkinTypes {
		if key == Normalize(string(t)) || key == Normalize(t.Label()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown skin type %q", s)
}

// AgeRange is one of the fixed age buckets.
type AgeRange string

const (
	Age18to25 AgeRange = "18-25"
	Age25to35 AgeRange = "25-35"
	Age35to45 AgeRange = "35-45"
	Age45Plus AgeRange = "45+"
)

// AgeRanges lists every age bucket in ascending order.
var AgeRanges = []AgeRange{Age18to25, Age25to35, Age35to45, Age45Plus}

// ParseAgeRange accepts a bucket name; surrounding space is ignored.
func ParseAgeRange(s string) (AgeRange, error) {
	key := Normalize(s)
	for _, r := range AgeRanges {
		if key == string(r) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown age range %q", s)
}
