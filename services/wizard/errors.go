package wizard

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound means the session key is gone from the cache:
// never started, expired, or explicitly cancelled.
var ErrSessionNotFound = errors.New("wizard session not found or expired")

// ErrInvalidTransition means the requested action does not apply to the
// session's current step.
var ErrInvalidTransition = errors.New("action not valid for current step")

// errPaymentNotCompleted is wrapped in a SubmissionError when the
// provider reports the intent in any state other than succeeded.
var errPaymentNotCompleted = errors.New("payment has not completed")

// ValidationError blocks submission locally; no network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmissionError wraps a failed booking creation, reschedule commit or
// payment action. The wizard stays on its current step and the message
// is surfaced inline; nothing is retried automatically.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// SettingsLoadError is fatal for the session: the wizard cannot proceed
// without the agent's settings.
type SettingsLoadError struct {
	AgentID string
	Err     error
}

func (e *SettingsLoadError) Error() string {
	return fmt.Sprintf("cannot load settings for agent %s: %v", e.AgentID, e.Err)
}

func (e *SettingsLoadError) Unwrap() error {
	return e.Err
}
