// Package pipeline drives a fuel import batch through its five steps:
// validate, stage, resolve_assets, create_transactions, finalize.
//
// Steps are sequential and resumable. Row-level problems accumulate as
// import errors without aborting sibling rows; infrastructure failures abort
// the running step and leave the batch where it stopped.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/progress"
	"github.com/rcaamano/fuelmigrate/internal/store"
)

// Step names, in execution order.
const (
	StepValidate           = "validate"
	StepStage              = "stage"
	StepResolveAssets      = "resolve_assets"
	StepCreateTransactions = "create_transactions"
	StepFinalize           = "finalize"
)

// StepError wraps an error with the step where it occurred.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// MeterResolutionNeeded is the distinguished pause raised by the
// create_transactions step: not a failure, but a gate. The batch keeps its
// staged and resolved state; once every conflict reaches a terminal
// resolution the step is re-invoked from scratch.
type MeterResolutionNeeded struct {
	Conflicts []*model.MeterConflict
}

func (e *MeterResolutionNeeded) Error() string {
	return fmt.Sprintf("%d meter conflicts need resolution", len(e.Conflicts))
}

// IsMeterResolutionNeeded unwraps err to the pause signal, if that is what
// it is.
func IsMeterResolutionNeeded(err error) (*MeterResolutionNeeded, bool) {
	var m *MeterResolutionNeeded
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}

// Pipeline holds the collaborators shared by every step.
type Pipeline struct {
	Store    *store.Store
	Log      zerolog.Logger
	Reporter progress.Reporter
}

// New builds a Pipeline. A nil reporter is replaced with a no-op.
func New(st *store.Store, log zerolog.Logger, rep progress.Reporter) *Pipeline {
	if rep == nil {
		rep = progress.Nop{}
	}
	return &Pipeline{Store: st, Log: log, Reporter: rep}
}

func (p *Pipeline) report(step string, percent int, details ...string) {
	p.Reporter.Progress(progress.Event{Step: step, Percent: percent, Details: details})
}

func (p *Pipeline) notify(level progress.Level, title, message string) {
	p.Reporter.Notify(progress.Notification{Type: level, Title: title, Message: message})
}
