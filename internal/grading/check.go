package grading

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Store is the read-only view of the live data store the grader needs.
type Store interface {
	Count(ctx context.Context, collection string) (int64, error)
	Close(ctx context.Context) error
}

// staticCheck passes only if every required token is present.
func staticCheck(c *compiled, text string) Result {
	missing := c.matcher.Missing(text)
	if len(missing) == 0 {
		return c.pass(nil)
	}
	return c.fail(OutcomeMissingCommands, MessageData{
		Reason:  missingReason(missing),
		Missing: missing,
	}, nil)
}

// dynamicCheck combines the static sub-check with the store assertion.
// connErr is the error from opening the store, if any; store is nil then.
func dynamicCheck(ctx context.Context, c *compiled, text string, store Store, connErr error) Result {
	missing := c.matcher.Missing(text)
	a := c.Store
	data := MessageData{
		Missing:    missing,
		Collection: a.Collection,
		Expected:   a.ExpectedCount,
	}

	if connErr != nil {
		data.Reason = joinReasons(missing, "data store unreachable: "+connErr.Error())
		return c.fail(OutcomeStoreUnreachable, data, nil)
	}
	found, err := store.Count(ctx, a.Collection)
	if err != nil {
		data.Reason = joinReasons(missing, fmt.Sprintf("data store query on %q failed: %v", a.Collection, err))
		return c.fail(OutcomeStoreUnreachable, data, nil)
	}
	data.Found = found

	stateOK := found == a.ExpectedCount
	switch {
	case stateOK && len(missing) == 0:
		return c.pass(&found)
	case stateOK:
		data.Reason = missingReason(missing)
		return c.fail(OutcomeMissingCommands, data, &found)
	case len(missing) == 0:
		data.Reason = stateReason(a, found)
		return c.fail(OutcomeStoreState, data, &found)
	default:
		data.Reason = joinReasons(missing, stateReason(a, found))
		return c.fail(OutcomeMissingAndStoreState, data, &found)
	}
}

func missingReason(missing []string) string {
	return "missing: " + strings.Join(missing, ", ")
}

func stateReason(a *StoreAssertion, found int64) string {
	if a.ExpectedCount == 0 {
		return fmt.Sprintf("data store not empty, found %d records in %q", found, a.Collection)
	}
	return fmt.Sprintf("expected %d records in %q, found %d", a.ExpectedCount, a.Collection, found)
}

func joinReasons(missing []string, reason string) string {
	if len(missing) == 0 {
		return reason
	}
	return missingReason(missing) + "; " + reason
}

func (c *compiled) base() Result {
	return Result{
		Label:  c.Label,
		Kind:   c.Kind(),
		Points: c.Points,
	}
}

func (c *compiled) pass(found *int64) Result {
	r := c.base()
	r.Passed = true
	r.Awarded = c.Points
	r.Outcome = OutcomePass
	r.Found = found
	r.Message = c.PassMessage
	return r
}

func (c *compiled) fail(outcome Outcome, data MessageData, found *int64) Result {
	r := c.base()
	r.Outcome = outcome
	r.Missing = data.Missing
	r.Found = found
	r.Message = data.Reason
	if c.failT != nil {
		data.Label = c.Label
		data.Outcome = outcome
		var buf bytes.Buffer
		if err := c.failT.Execute(&buf, data); err == nil {
			r.Message = buf.String()
		}
	}
	return r
}
