// Package rubric loads grading rubrics from YAML.
package rubric

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-autograder/internal/grading"
)

//go:embed hr_lab.yaml
var hrLab []byte

// File models a rubric YAML document.
type File struct {
	Title         string          `yaml:"title"`
	PassThreshold int             `yaml:"pass_threshold"`
	MaxPoints     *int            `yaml:"max_points,omitempty"`
	Criteria      []CriterionSpec `yaml:"criteria"`
}

type CriterionSpec struct {
	Label       string     `yaml:"label"`
	Points      int        `yaml:"points"`
	Require     []string   `yaml:"require,omitempty"`
	Store       *StoreSpec `yaml:"store,omitempty"`
	PassMessage string     `yaml:"pass_message,omitempty"`
	FailMessage string     `yaml:"fail_message,omitempty"`
}

type StoreSpec struct {
	Collection    string `yaml:"collection"`
	ExpectedCount int64  `yaml:"expected_count"`
}

// Default returns the built-in HR lab rubric.
func Default() (*grading.Rubric, error) {
	return Parse(bytes.NewReader(hrLab))
}

// Load reads a rubric file; an empty path selects the default rubric.
func Load(path string) (*grading.Rubric, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rubric: %w", err)
	}
	defer f.Close()
	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a rubric document. Unknown keys are rejected.
func Parse(r io.Reader) (*grading.Rubric, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty rubric")
		}
		return nil, fmt.Errorf("parse rubric: %w", err)
	}
	return f.Build()
}

// Build converts the document into an immutable grading.Rubric.
func (f File) Build() (*grading.Rubric, error) {
	criteria := make([]grading.Criterion, 0, len(f.Criteria))
	for _, cs := range f.Criteria {
		c := grading.Criterion{
			Label:       cs.Label,
			Points:      cs.Points,
			Require:     cs.Require,
			PassMessage: cs.PassMessage,
			FailMessage: cs.FailMessage,
		}
		if cs.Store != nil {
			c.Store = &grading.StoreAssertion{
				Collection:    cs.Store.Collection,
				ExpectedCount: cs.Store.ExpectedCount,
			}
		}
		criteria = append(criteria, c)
	}
	r, err := grading.NewRubric(f.Title, criteria, f.PassThreshold)
	if err != nil {
		return nil, err
	}
	if f.MaxPoints != nil && *f.MaxPoints != r.Max() {
		return nil, fmt.Errorf("max_points is %d but criteria sum to %d", *f.MaxPoints, r.Max())
	}
	return r, nil
}
