package grading

import "fmt"

// Outcome classifies why a criterion passed or failed.
type Outcome string

const (
	OutcomePass                 Outcome = "pass"
	OutcomeMissingCommands      Outcome = "missing_commands"
	OutcomeStoreState           Outcome = "store_state"
	OutcomeMissingAndStoreState Outcome = "missing_commands_and_store_state"
	OutcomeStoreUnreachable     Outcome = "store_unreachable"
	OutcomeEvaluationError      Outcome = "evaluation_error"
)

// Result is the outcome of grading a single criterion.
type Result struct {
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Passed  bool     `json:"passed"`
	Awarded int      `json:"awarded"`
	Points  int      `json:"points"`
	Outcome Outcome  `json:"outcome"`
	Missing []string `json:"missing,omitempty"`
	Found   *int64   `json:"found,omitempty"` // store count, when one was read
	Message string   `json:"message,omitempty"`
}

// Report is the terminal artifact of one grading run.
type Report struct {
	Title     string   `json:"title"`
	Results   []Result `json:"results"`
	Total     int      `json:"total"`
	Max       int      `json:"max"`
	Threshold int      `json:"threshold"`
	Passed    bool     `json:"passed"`
}

// LoadError means the submission could not be read. It is the only error that
// aborts a run; no report exists when it is returned.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load submission: %v", e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }
