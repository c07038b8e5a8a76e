// Package catalog loads assignment definitions and the category weight
// table from a YAML file.
package catalog

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

type file struct {
	Categories  categories   `yaml:"categories"`
	Assignments []assignment `yaml:"assignments"`
}

type categories struct {
	Names   []string  `yaml:"names"`
	Weights []float64 `yaml:"weights"`
}

type assignment struct {
	Label    string   `yaml:"label"`
	Due      dueDate  `yaml:"due"`
	Category string   `yaml:"category"`
	Points   *float64 `yaml:"points"`
	Grader   string   `yaml:"grader"`
}

type dueDate struct {
	time.Time
}

// UnmarshalYAML accepts the catalog layout in UTC, or RFC3339.
func (d *dueDate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(domain.DueDateLayout, s, time.UTC); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid due date %q", s)
	}
	d.Time = t.UTC()
	return nil
}

type Catalog struct {
	assignments []domain.Assignment
	byLabel     map[string]int
	weights     map[string]float64
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // configured path
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %v: %w", err, errdefs.ErrMalformed)
	}

	weights, err := zipWeights(f.Categories)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.Assignment, 0, len(f.Assignments))
	for i, a := range f.Assignments {
		if a.Points == nil {
			return nil, fmt.Errorf("assignment %d (%q): points missing: %w", i+1, a.Label, errdefs.ErrMalformed)
		}
		if a.Due.IsZero() {
			return nil, fmt.Errorf("assignment %d (%q): due date missing: %w", i+1, a.Label, errdefs.ErrMalformed)
		}
		assignments = append(assignments, domain.Assignment{
			Label:    strings.TrimSpace(a.Label),
			DueDate:  a.Due.Time,
			Category: a.Category,
			Points:   *a.Points,
			GraderID: a.Grader,
		})
	}

	return New(assignments, weights)
}

func zipWeights(c categories) (map[string]float64, error) {
	if len(c.Names) != len(c.Weights) {
		return nil, fmt.Errorf("%d categories but %d weights: %w",
			len(c.Names), len(c.Weights), errdefs.ErrMalformed)
	}
	weights := make(map[string]float64, len(c.Names))
	for i, name := range c.Names {
		if _, dup := weights[name]; dup {
			return nil, fmt.Errorf("duplicate category %q: %w", name, errdefs.ErrMalformed)
		}
		if !finite(c.Weights[i]) {
			return nil, fmt.Errorf("category %q: weight is not a finite number: %w", name, errdefs.ErrMalformed)
		}
		weights[name] = c.Weights[i]
	}
	return weights, nil
}

// New validates and indexes assignments. Order is kept as given.
func New(assignments []domain.Assignment, weights map[string]float64) (*Catalog, error) {
	c := &Catalog{
		assignments: make([]domain.Assignment, 0, len(assignments)),
		byLabel:     make(map[string]int, len(assignments)),
		weights:     make(map[string]float64, len(weights)),
	}
	for k, v := range weights {
		if !finite(v) {
			return nil, fmt.Errorf("category %q: weight is not a finite number: %w", k, errdefs.ErrMalformed)
		}
		c.weights[k] = v
	}

	for _, a := range assignments {
		if a.Label == "" {
			return nil, fmt.Errorf("assignment with empty label: %w", errdefs.ErrMalformed)
		}
		if _, dup := c.byLabel[a.Label]; dup {
			return nil, fmt.Errorf("duplicate assignment %q: %w", a.Label, errdefs.ErrMalformed)
		}
		if !finite(a.Points) {
			return nil, fmt.Errorf("assignment %q: points are not a finite number: %w", a.Label, errdefs.ErrMalformed)
		}
		if a.Points < 0 {
			return nil, fmt.Errorf("assignment %q: negative points: %w", a.Label, errdefs.ErrMalformed)
		}
		if _, ok := c.weights[a.Category]; !ok {
			return nil, fmt.Errorf("assignment %q: unknown category %q: %w", a.Label, a.Category, errdefs.ErrMalformed)
		}
		c.byLabel[a.Label] = len(c.assignments)
		c.assignments = append(c.assignments, a)
	}
	return c, nil
}

func (c *Catalog) Assignments() []domain.Assignment {
	out := make([]domain.Assignment, len(c.assignments))
	copy(out, c.assignments)
	return out
}

func (c *Catalog) Assignment(label string) (domain.Assignment, error) {
	i, ok := c.byLabel[label]
	if !ok {
		return domain.Assignment{}, fmt.Errorf("assignment %q: %w", label, errdefs.ErrNotFound)
	}
	return c.assignments[i], nil
}

// Weight returns the category weight. Unknown categories weigh nothing.
func (c *Catalog) Weight(category string) float64 {
	return c.weights[category]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
