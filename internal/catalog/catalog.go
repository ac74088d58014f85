// Package catalog holds the read-only set of treatment templates and answers
// applicability queries against it.
package catalog

import (
	"sort"

	"github.com/kalambet/skinrec/internal/skin"
)

type key struct {
	problem  string
	skinType string
	ageRange string
}

func makeKey(problem, skinType, ageRange string) key {
	return key{
		problem:  skin.Normalize(problem),
		skinType: skin.Normalize(skinType),
		ageRange: skin.Normalize(ageRange),
	}
}

// Catalog is an immutable, indexed template collection. It is built once at
// startup and shared by every request; all methods are safe for concurrent use.
type Catalog struct {
	templates []Template
	index     map[key][]int
}

// New indexes templates, keeping their order.
func New(templates []Template) *Catalog {
	c := &Catalog{
		templates: append([]Template(nil), templates...),
		index:     make(map[key][]int),
	}
	for i, t := range c.templates {
		k := makeKey(t.Problem, t.SkinType, t.AgeRange)
		c.index[k] = append(c.index[k], i)
	}
	return c
}

// Applicable returns the templates whose problem, skin type and age range all
// equal the query after normalization, in catalog order. No match yields an
// empty slice.
func (c *Catalog) Applicable(problem, skinType, ageRange string) []Template {
	idx := c.index[makeKey(problem, skinType, ageRange)]
	out := make([]Template, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.templates[i])
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// Templates returns a copy of every template in catalog order.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

// Stats summarizes the catalog for operators.
type Stats struct {
	Templates int            `json:"templates"`
	Problems  map[string]int `json:"problems"`
	Methods   map[string]int `json:"methods"`
	Malformed int            `json:"malformed"`
}

// Stats counts templates per problem and per method.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Templates: len(c.templates),
		Problems:  make(map[string]int),
		Methods:   make(map[string]int),
	}
	for _, t := range c.templates {
		s.Problems[t.Problem]++
		if t.Validate() != nil {
			s.Malformed++
			continue
		}
		s.Methods[t.Method.String()]++
	}
	return s
}

// Problems returns the distinct problem names, sorted.
func (c *Catalog) Problems() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.templates {
		if !seen[t.Problem] {
			seen[t.Problem] = true
			out = append(out, t.Problem)
		}
	}
	sort.Strings(out)
	return out
}
