// Package pipeline orchestrates a correction from raw essay text to a
// persisted record: validate input, call the grader, append the result
// to the store, and keep the live history feed flowing to the UI.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lfreitas/redator/internal/correction"
)

// State is the controller's submission state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidationError rejects a submission before it reaches the grader.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ErrBusy is returned when a submit arrives while another correction
// is in flight. Rejected submits are not queued.
var ErrBusy = errors.New("a correction is already in progress")

// Grader produces a structured correction from essay text.
type Grader interface {
	Grade(ctx context.Context, essayText, proposedTheme string) (*correction.Result, error)
}

// RecordStore persists corrections and feeds live history snapshots.
type RecordStore interface {
	Append(ctx context.Context, ownerID, essayText string, corr correction.Result) (string, error)
	Subscribe(ctx context.Context, ownerID string, onChange func([]correction.Record)) (func(), error)
}

// Controller drives the submission state machine and owns the history
// subscription for the bound owner.
type Controller struct {
	grader Grader
	store  RecordStore

	mu        sync.Mutex
	state     State
	ownerID   string
	result    *correction.Result
	errMsg    string
	subErrMsg string
	records   []correction.Record
	cancelSub func()

	// onRecords, when set, is invoked with every history snapshot the
	// subscription delivers.
	onRecords func([]correction.Record)
}

// New creates a Controller over the given grader and store.
func New(grader Grader, store RecordStore) *Controller {
	return &Controller{grader: grader, store: store}
}

// SetOnRecords registers a callback for history snapshots. Snapshots
// delivered before registration are still available via Records.
func (c *Controller) SetOnRecords(fn func([]correction.Record)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRecords = fn
}

// Bind scopes the controller to an owner and opens the live history
// subscription. Rebinding to a different owner tears down the previous
// subscription first, so no stale callbacks outlive the switch.
func (c *Controller) Bind(ctx context.Context, ownerID string) error {
	c.mu.Lock()
	prevCancel := c.cancelSub
	c.cancelSub = nil
	c.ownerID = ownerID
	c.records = nil
	c.subErrMsg = ""
	c.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}

	cancel, err := c.store.Subscribe(ctx, ownerID, func(records []correction.Record) {
		c.mu.Lock()
		if c.ownerID != ownerID {
			c.mu.Unlock()
			return
		}
		c.records = records
		onRecords := c.onRecords
		c.mu.Unlock()
		if onRecords != nil {
			onRecords(records)
		}
	})
	if err != nil {
		c.mu.Lock()
		c.subErrMsg = "live history unavailable: " + err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.cancelSub = cancel
	c.mu.Unlock()
	return nil
}

// Submit runs one correction end to end: validate, grade, persist.
// It blocks until the terminal state is reached; run it off the UI
// goroutine. Empty text fails synchronously without touching the
// grader. While a submission is in flight, further submits are
// rejected with ErrBusy.
//
// On a store write failure after successful grading the returned
// result is still non-nil: the correction is shown to the user even
// though it may not persist.
func (c *Controller) Submit(ctx context.Context, essayText, proposedTheme string) (*correction.Result, error) {
	if strings.TrimSpace(essayText) == "" {
		return nil, &ValidationError{Reason: "essay text is empty"}
	}
	if c.grader == nil {
		return nil, &ValidationError{Reason: "grading is unavailable: no LLM provider configured"}
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = StateSubmitting
	c.result = nil
	c.errMsg = ""
	ownerID := c.ownerID
	c.mu.Unlock()

	result, err := c.grader.Grade(ctx, essayText, proposedTheme)
	if err != nil {
		c.fail(err.Error())
		return nil, err
	}

	if _, err := c.store.Append(ctx, ownerID, essayText, *result); err != nil {
		// Grading succeeded; the result stays visible, but the user
		// must know it may not persist.
		c.mu.Lock()
		c.state = StateFailed
		c.result = result
		c.errMsg = "your correction could not be saved: " + err.Error()
		c.mu.Unlock()
		return result, err
	}

	c.mu.Lock()
	c.state = StateSuccess
	c.result = result
	c.mu.Unlock()
	return result, nil
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.state = StateFailed
	c.errMsg = msg
	c.mu.Unlock()
}

// Reset returns a terminal state to Idle. Submitting is left alone.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSuccess || c.state == StateFailed {
		c.state = StateIdle
	}
}

// Close tears down the history subscription. Safe to call more than
// once.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancelSub
	c.cancelSub = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a correction is in flight.
func (c *Controller) Busy() bool {
	return c.State() == StateSubmitting
}

// Result returns the last displayed correction, or nil.
func (c *Controller) Result() *correction.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// ErrMsg returns the last submission error message, or "".
func (c *Controller) ErrMsg() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// SubscriptionErrMsg returns the standing subscription banner, or "".
// A broken history feed does not block new submissions.
func (c *Controller) SubscriptionErrMsg() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subErrMsg
}

// Records returns the last delivered history snapshot.
func (c *Controller) Records() []correction.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}
