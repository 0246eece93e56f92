package store

import "fmt"

// WriteError indicates a correction record failed to persist. Grading may
// still have succeeded; the caller reports that the result may not persist.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SubscriptionError indicates the live history feed failed. It is surfaced
// as a standing banner and does not block new submissions.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("history subscription failed: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
