package grading

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

type Kind string

const (
	KindStatic  Kind = "static"  // submission text only
	KindDynamic Kind = "dynamic" // submission text plus live store state
)

// StoreAssertion is the live-state half of a dynamic criterion: the named
// collection must currently hold exactly ExpectedCount rows/documents.
type StoreAssertion struct {
	Collection    string
	ExpectedCount int64
}

// Criterion is one scored rubric item. It awards Points when every token in
// Require is present in the submission and, if Store is set, the store
// assertion holds. There is no partial credit.
type Criterion struct {
	Label       string
	Points      int
	Require     []string
	Store       *StoreAssertion
	PassMessage string
	// FailMessage is an optional text/template rendered on failure. It sees
	// the fields of MessageData.
	FailMessage string
}

func (c Criterion) Kind() Kind {
	if c.Store != nil {
		return KindDynamic
	}
	return KindStatic
}

// MessageData is the input to a criterion's FailMessage template.
type MessageData struct {
	Label      string
	Outcome    Outcome
	Reason     string // the built-in diagnostic
	Missing    []string
	Collection string
	Expected   int64
	Found      int64
}

var messageFuncs = template.FuncMap{"join": strings.Join}

type compiled struct {
	Criterion
	matcher *Matcher
	failT   *template.Template
}

// Rubric is the fixed, ordered set of criteria for a grading run plus the
// pass threshold. It is immutable once built.
type Rubric struct {
	title     string
	criteria  []compiled
	threshold int
	max       int
}

// NewRubric validates and compiles criteria. The maximum score is fixed here.
func NewRubric(title string, criteria []Criterion, threshold int) (*Rubric, error) {
	if len(criteria) == 0 {
		return nil, errors.New("rubric has no criteria")
	}
	r := &Rubric{title: title, threshold: threshold}
	seen := make(map[string]struct{}, len(criteria))
	for i, c := range criteria {
		cc, err := compile(c)
		if err != nil {
			return nil, fmt.Errorf("criterion %d (%q): %w", i+1, c.Label, err)
		}
		if _, dup := seen[c.Label]; dup {
			return nil, fmt.Errorf("criterion %d: duplicate label %q", i+1, c.Label)
		}
		seen[c.Label] = struct{}{}
		r.criteria = append(r.criteria, cc)
		r.max += c.Points
	}
	if threshold < 0 {
		return nil, fmt.Errorf("negative pass threshold %d", threshold)
	}
	if threshold > r.max {
		return nil, fmt.Errorf("pass threshold %d exceeds maximum score %d", threshold, r.max)
	}
	return r, nil
}

func compile(c Criterion) (compiled, error) {
	if strings.TrimSpace(c.Label) == "" {
		return compiled{}, errors.New("missing label")
	}
	if c.Points < 0 {
		return compiled{}, fmt.Errorf("negative points %d", c.Points)
	}
	if c.Store == nil && len(c.Require) == 0 {
		return compiled{}, errors.New("static criterion requires at least one token")
	}
	if c.Store != nil {
		if c.Store.Collection == "" {
			return compiled{}, errors.New("store assertion missing collection")
		}
		if c.Store.ExpectedCount < 0 {
			return compiled{}, fmt.Errorf("negative expected count %d", c.Store.ExpectedCount)
		}
		s := *c.Store
		c.Store = &s
	}
	m, err := NewMatcher(c.Require)
	if err != nil {
		return compiled{}, err
	}
	c.Require = m.Tokens()
	out := compiled{Criterion: c, matcher: m}
	if c.FailMessage != "" {
		t, err := template.New(c.Label).Funcs(messageFuncs).Option("missingkey=error").Parse(c.FailMessage)
		if err != nil {
			return compiled{}, fmt.Errorf("fail message: %w", err)
		}
		out.failT = t
	}
	return out, nil
}

func (r *Rubric) Title() string  { return r.title }
func (r *Rubric) Threshold() int { return r.threshold }
func (r *Rubric) Max() int       { return r.max }
func (r *Rubric) Len() int       { return len(r.criteria) }

// Criteria returns copies of the rubric's criteria in order.
func (r *Rubric) Criteria() []Criterion {
	out := make([]Criterion, 0, len(r.criteria))
	for _, c := range r.criteria {
		cp := c.Criterion
		cp.Require = append([]string(nil), c.Require...)
		if c.Store != nil {
			s := *c.Store
			cp.Store = &s
		}
		out = append(out, cp)
	}
	return out
}
