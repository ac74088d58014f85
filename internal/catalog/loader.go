package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/skinrec/internal/skin"
)

// Format is a persisted catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the codec from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

// RecordError points at the catalog record that failed to load.
type RecordError struct {
	Index   int
	Problem string
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("template #%d (%s): %v", e.Index, e.Problem, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// record is the persisted template shape. Field names are the compatibility
// contract for every storage format.
type record struct {
	Problem                        string     `json:"problem" yaml:"problem"`
	SkinType                       string     `json:"skin_type" yaml:"skin_type"`
	AgeRange                       string     `json:"age_range" yaml:"age_range"`
	Method                         string     `json:"method" yaml:"method"`
	Type                           string     `json:"type" yaml:"type"`
	ActiveIngredients              []string   `json:"active_ingredients" yaml:"active_ingredients"`
	ContraindicatedDuringPregnancy bool       `json:"contraindicated_during_pregnancy" yaml:"contraindicated_during_pregnancy"`
	Contraindications              textOrList `json:"contraindications" yaml:"contraindications"`
	Effects                        []string   `json:"effects" yaml:"effects"`
	CourseDuration                 scalarText `json:"course_duration" yaml:"course_duration"`
	Template                       string     `json:"template" yaml:"template"`
}

// textOrList accepts either a text block or a list of lines.
type textOrList string

func (t *textOrList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = textOrList(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("contraindications: want text or list of text")
	}
	*t = textOrList(strings.Join(list, "\n"))
	return nil
}

func (t *textOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = textOrList(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = textOrList(strings.Join(list, "\n"))
		return nil
	default:
		return fmt.Errorf("contraindications: want text or list of text")
	}
}

// scalarText accepts a string or a number (course durations are often day counts).
type scalarText string

func (s *scalarText) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = scalarText(val)
	case float64:
		*s = scalarText(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return fmt.Errorf("course_duration: want text or number, got %T", v)
	}
	return nil
}

func (s *scalarText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("course_duration: want text or number")
	}
	*s = scalarText(node.Value)
	return nil
}

// Load reads a catalog file, choosing the codec from its extension.
func Load(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a sequence of template records. Every record naming an unknown
// method, or a type outside its method's vocabulary, is reported; records with
// an empty method or type are kept so selection can flag them per problem.
func Decode(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var records []record
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	templates := make([]Template, 0, len(records))
	var errs []error
	for i, rec := range records {
		t, err := rec.template()
		if err != nil {
			errs = append(errs, &RecordError{Index: i, Problem: rec.Problem, Err: err})
			continue
		}
		templates = append(templates, t)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(templates), nil
}

func (rec record) template() (Template, error) {
	t := Template{
		Problem:                        strings.TrimSpace(rec.Problem),
		SkinType:                       canonicalSkinType(rec.SkinType),
		AgeRange:                       canonicalAgeRange(rec.AgeRange),
		Type:                           strings.TrimSpace(rec.Type),
		ActiveIngredients:              rec.ActiveIngredients,
		ContraindicatedDuringPregnancy: rec.ContraindicatedDuringPregnancy,
		Contraindications:              string(rec.Contraindications),
		Effects:                        rec.Effects,
		CourseDuration:                 strings.TrimSpace(string(rec.CourseDuration)),
		Description:                    rec.Template,
	}

	if strings.TrimSpace(rec.Method) == "" {
		return t, nil
	}
	m, err := skin.ParseMethod(rec.Method)
	if err != nil {
		return Template{}, err
	}
	t.Method = m

	if t.Type == "" {
		return t, nil
	}
	typ, ok := m.CanonicalType(t.Type)
	if !ok {
		return Template{}, fmt.Errorf("type %q is not a %s type", t.Type, m)
	}
	t.Type = typ
	return t, nil
}

func canonicalSkinType(s string) string {
	if st, err := skin.ParseSkinType(s); err == nil {
		return string(st)
	}
	return strings.TrimSpace(s)
}

func canonicalAgeRange(s string) string {
	if ar, err := skin.ParseAgeRange(s); err == nil {
		return string(ar)
	}
	return strings.TrimSpace(s)
}
