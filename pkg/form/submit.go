package form

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// State is the position of a submit pipeline.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateErroring
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateErroring:
		return "erroring"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Outcome tells how a submit run ended.
type Outcome int

const (
	// OutcomeFailed means validation or the submit handler returned an error.
	OutcomeFailed Outcome = iota
	// OutcomeInvalid means validation produced field errors; they were
	// written into the model and the handler did not run.
	OutcomeInvalid
	// OutcomeCommitted means the handler succeeded and the model stored its
	// values as the new baseline.
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeCommitted:
		return "committed"
	default:
		return "failed"
	}
}

type pipeline struct {
	state  atomic.Int32
	submit SubmitHandler
	logger *slog.Logger
}

func newPipeline(submit SubmitHandler, logger *slog.Logger) *pipeline {
	return &pipeline{submit: submit, logger: logger}
}

func (p *pipeline) transition(next State) {
	prev := State(p.state.Swap(int32(next)))
	if prev != next {
		p.logger.Debug("form submit transition",
			slog.String("from", prev.String()),
			slog.String("to", next.String()),
		)
	}
}

// State reports where the shared submit pipeline currently is.
func (c *Context) State() State {
	return State(c.pipeline.state.Load())
}

// Submit runs the pipeline and reports only failures. Validation errors are
// a normal outcome: they end up in the model and Submit returns nil.
func (c *Context) Submit(ctx context.Context) error {
	_, err := c.Run(ctx)
	return err
}

// Run validates the model's current values, then either writes the field
// errors into the model, or clears errors, calls the submit handler and
// commits. Errors from the schema or the handler are returned as is, and no
// later step runs after one.
func (c *Context) Run(ctx context.Context) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := c.pipeline
	defer p.transition(StateIdle)

	values, err := c.form.Values()
	if err != nil {
		return OutcomeFailed, err
	}

	if c.schemas != nil {
		p.transition(StateValidating)
		schema, err := c.schemas.Schema()
		if err != nil {
			return OutcomeFailed, err
		}
		result, err := schema.Validate(ctx, values)
		if err != nil {
			return OutcomeFailed, err
		}
		if result.Failed() {
			p.transition(StateErroring)
			if err := c.form.SetErrors(result.Errors); err != nil {
				return OutcomeFailed, err
			}
			c.logger.Debug("form submit rejected",
				slog.String("handle", c.handle.String()),
				slog.Int("errors", len(result.Errors)),
			)
			return OutcomeInvalid, nil
		}
		if result.Values != nil {
			values = result.Values
		}
	}

	p.transition(StateCommitting)
	c.form.ClearErrors()
	if err := p.submit(ctx, values, c.form); err != nil {
		return OutcomeFailed, err
	}
	c.form.Store()
	c.logger.Debug("form submit committed", slog.String("handle", c.handle.String()))
	return OutcomeCommitted, nil
}
