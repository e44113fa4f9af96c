package generation

import (
	"context"

	"github.com/ekisa-team/ttsform/internal/audio"
)

// Status is the lifecycle state of the current generation.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Result is the outcome of a submission. Handle is set only when Status is
// StatusReady; Failure only when Status is StatusFailed.
type Result struct {
	Handle     *audio.Handle
	Failure    *Failure
	Status     Status
	Submission uint64
}

// Locator returns the playable locator of a ready result, or "" otherwise.
func (r Result) Locator() string {
	if r.Status != StatusReady || r.Handle == nil || r.Handle.Released() {
		return ""
	}
	return r.Handle.Locator()
}

// FailureNotice is the message shown to the user for every kind of failure.
const FailureNotice = "Failed to generate audio"

// Notifier surfaces failures to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}
