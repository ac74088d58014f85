package catalog

import "strings"

// Field is one "Label: value" line of a template description.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ParseDescription splits a template description into its labelled lines.
// Lines without a "Label: " prefix come back with an empty label.
func ParseDescription(text string) []Field {
	var fields []Field
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if label, value, ok := strings.Cut(line, ": "); ok {
			fields = append(fields, Field{Label: strings.TrimSpace(label), Value: strings.TrimSpace(value)})
			continue
		}
		fields = append(fields, Field{Value: line})
	}
	return fields
}

// FieldValues returns the comma-separated items of the first field with the
// given label, trailing period dropped.
func FieldValues(text, label string) []string {
	for _, f := range ParseDescription(text) {
		if !strings.EqualFold(f.Label, label) {
			continue
		}
		v := strings.TrimSuffix(f.Value, ".")
		var out []string
		for _, item := range strings.Split(v, ", ") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}
