package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Source yields the submission text. An error from Load is fatal to the run.
type Source interface {
	Load(ctx context.Context) (string, error)
}

type SourceFunc func(ctx context.Context) (string, error)

func (f SourceFunc) Load(ctx context.Context) (string, error) { return f(ctx) }

// Dialer opens the single data-store connection used by a run.
type Dialer interface {
	Dial(ctx context.Context) (Store, error)
}

type DialerFunc func(ctx context.Context) (Store, error)

func (f DialerFunc) Dial(ctx context.Context) (Store, error) { return f(ctx) }

var errNoDialer = errors.New("no data store configured")

type State int

const (
	StateIdle State = iota
	StateLoadingSubmission
	StateEvaluatingStatic
	StateConnectingDataStore
	StateEvaluatingDynamic
	StateAggregating
	StateReporting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateLoadingSubmission:   "loading_submission",
	StateEvaluatingStatic:    "evaluating_static",
	StateConnectingDataStore: "connecting_data_store",
	StateEvaluatingDynamic:   "evaluating_dynamic",
	StateAggregating:         "aggregating",
	StateReporting:           "reporting",
	StateDone:                "done",
	StateFailed:              "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Engine options

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }
func WithDialer(d Dialer) Option       { return func(e *Engine) { e.dialer = d } }

// Engine grades one submission against a rubric. Criteria are evaluated
// sequentially and independently; a failing or panicking criterion never
// stops the others. Run may be called repeatedly but not concurrently.
type Engine struct {
	rubric *Rubric
	source Source
	dialer Dialer
	logger *slog.Logger
	state  State
}

func NewEngine(r *Rubric, src Source, opts ...Option) *Engine {
	e := &Engine{
		rubric: r,
		source: src,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// State reports where the last Run stopped.
func (e *Engine) State() State { return e.state }

// Run loads the submission, evaluates every criterion and aggregates the
// result. The only error it returns is a *LoadError.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	e.state = StateIdle
	e.transition(StateLoadingSubmission)
	text, err := e.source.Load(ctx)
	if err != nil {
		e.transition(StateFailed)
		return Report{}, &LoadError{Err: err}
	}

	results := make([]Result, len(e.rubric.criteria))
	var dynamic []int

	e.transition(StateEvaluatingStatic)
	for i := range e.rubric.criteria {
		c := &e.rubric.criteria[i]
		if c.Kind() == KindDynamic {
			dynamic = append(dynamic, i)
			continue
		}
		results[i] = e.evaluate(c, func() Result { return staticCheck(c, text) })
	}

	if len(dynamic) > 0 {
		e.evaluateDynamic(ctx, text, dynamic, results)
	}

	e.transition(StateAggregating)
	rep := Aggregate(e.rubric, results)

	e.transition(StateReporting)
	e.logger.Info("graded submission",
		slog.Int("total", rep.Total),
		slog.Int("max", rep.Max),
		slog.Bool("passed", rep.Passed))
	e.transition(StateDone)
	return rep, nil
}

// evaluateDynamic owns the store connection: it is opened once and closed
// before returning, on every path.
func (e *Engine) evaluateDynamic(ctx context.Context, text string, idx []int, results []Result) {
	e.transition(StateConnectingDataStore)
	store, connErr := e.dial(ctx)
	if connErr != nil {
		e.logger.Warn("data store unavailable", slog.Any("error", connErr))
	} else {
		defer func() {
			if err := store.Close(ctx); err != nil {
				e.logger.Warn("closing data store", slog.Any("error", err))
			}
		}()
	}

	e.transition(StateEvaluatingDynamic)
	for _, i := range idx {
		c := &e.rubric.criteria[i]
		results[i] = e.evaluate(c, func() Result { return dynamicCheck(ctx, c, text, store, connErr) })
	}
}

func (e *Engine) dial(ctx context.Context) (store Store, err error) {
	if e.dialer == nil {
		return nil, errNoDialer
	}
	defer func() {
		if r := recover(); r != nil {
			store, err = nil, fmt.Errorf("dial panicked: %v", r)
		}
	}()
	store, err = e.dialer.Dial(ctx)
	if err == nil && store == nil {
		err = errNoDialer
	}
	return store, err
}

func (e *Engine) evaluate(c *compiled, check func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("criterion evaluation panicked",
				slog.String("criterion", c.Label), slog.Any("panic", r))
			res = c.base()
			res.Outcome = OutcomeEvaluationError
			res.Message = fmt.Sprintf("evaluation error: %v", r)
		}
	}()
	res = check()
	e.logger.Debug("criterion evaluated",
		slog.String("criterion", c.Label),
		slog.String("outcome", string(res.Outcome)),
		slog.Int("awarded", res.Awarded))
	return res
}

func (e *Engine) transition(to State) {
	e.logger.Debug("engine state", slog.String("from", e.state.String()), slog.String("to", to.String()))
	e.state = to
}

// Aggregate sums awarded points in rubric order and applies the threshold.
func Aggregate(r *Rubric, results []Result) Report {
	rep := Report{
		Title:     r.title,
		Results:   slices.Clone(results),
		Max:       r.max,
		Threshold: r.threshold,
	}
	for _, res := range rep.Results {
		rep.Total += res.Awarded
	}
	if rep.Total > rep.Max {
		rep.Total = rep.Max
	}
	rep.Passed = rep.Total >= rep.Threshold
	return rep
}
