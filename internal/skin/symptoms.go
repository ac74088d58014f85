package skin

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
)

//go:embed symptoms.json
var defaultSymptomsJSON []byte

// SymptomGroup lists the symptoms that point to one problem.
type SymptomGroup struct {
	Problem  string   `json:"problem" yaml:"problem"`
	Symptoms []string `json:"symptoms" yaml:"symptoms"`
}

// SymptomMap is the fixed many-to-one symptom → problem dictionary. It is
// immutable once built and safe for concurrent use.
type SymptomMap struct {
	groups []SymptomGroup
	index  map[string]string
}

// NewSymptomMap builds the dictionary. Problem names have ё folded to е so they
// line up with catalog keys. A symptom listed under two problems is an error.
func NewSymptomMap(groups []SymptomGroup) (*SymptomMap, error) {
	m := &SymptomMap{index: make(map[string]string)}
	for _, g := range groups {
		problem := foldYo(g.Problem)
		if Normalize(problem) == "" {
			return nil, fmt.Errorf("symptom group with empty problem")
		}
		symptoms := make([]string, 0, len(g.Symptoms))
		for _, s := range g.Symptoms {
			key := Normalize(s)
			if key == "" {
				continue
			}
			if prev, ok := m.index[key]; ok && prev != problem {
				return nil, fmt.Errorf("symptom %q maps to both %q and %q", s, prev, problem)
			}
			m.index[key] = problem
			symptoms = append(symptoms, s)
		}
		m.groups = append(m.groups, SymptomGroup{Problem: problem, Symptoms: symptoms})
	}
	return m, nil
}

// ParseSymptoms decodes a JSON array of symptom groups.
func ParseSymptoms(data []byte) (*SymptomMap, error) {
	var groups []SymptomGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parsing symptom groups: %w", err)
	}
	return NewSymptomMap(groups)
}

// LoadSymptoms reads a symptom dictionary file.
func LoadSymptoms(path string) (*SymptomMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symptoms file: %w", err)
	}
	return ParseSymptoms(data)
}

var defaultSymptoms = sync.OnceValues(func() (*SymptomMap, error) {
	return ParseSymptoms(defaultSymptomsJSON)
})

// DefaultSymptoms returns the dictionary shipped with the binary.
func DefaultSymptoms() *SymptomMap {
	m, err := defaultSymptoms()
	if err != nil {
		panic(fmt.Sprintf("embedded symptoms.json: %v", err))
	}
	return m
}

// Problem returns the problem a symptom points to.
func (m *SymptomMap) Problem(symptom string) (string, bool) {
	p, ok := m.index[Normalize(symptom)]
	return p, ok
}

// Problems maps symptoms to their distinct problems in first-seen order.
// Symptoms without a mapping are dropped.
func (m *SymptomMap) Problems(symptoms []string) []string {
	seen := make(map[string]bool)
	var problems []string
	for _, s := range symptoms {
		p, ok := m.Problem(s)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		problems = append(problems, p)
	}
	return problems
}

// SymptomsFor returns the subset of symptoms that point to problem.
func (m *SymptomMap) SymptomsFor(problem string, symptoms []string) []string {
	var out []string
	for _, s := range symptoms {
		if p, ok := m.Problem(s); ok && Normalize(p) == Normalize(problem) {
			out = append(out, s)
		}
	}
	return out
}

// Groups returns a copy of the dictionary in its declared order.
func (m *SymptomMap) Groups() []SymptomGroup {
	out := make([]SymptomGroup, len(m.groups))
	for i, g := range m.groups {
		out[i] = SymptomGroup{Problem: g.Problem, Symptoms: append([]string(nil), g.Symptoms...)}
	}
	return out
}
