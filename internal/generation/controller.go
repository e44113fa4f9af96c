package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ekisa-team/ttsform/internal/audio"
	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/params"
)

// Controller runs submissions against a speech backend and owns the audio handle
// of the current result.
//
// Overlapping submissions are not cancelled. Whichever settles last determines the
// current result, and any handle it supersedes is released. Loading stays true
// while at least one submission is in flight.
type Controller struct {
	backend  backend.Backend
	store    *audio.Store
	notifier Notifier
	logger   *slog.Logger
	result   Result
	inFlight int
	seq      uint64
	mu       sync.Mutex
	closed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the notifier used to surface failures.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController creates a controller in the idle state.
func NewController(b backend.Backend, store *audio.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:  b,
		store:    store,
		notifier: NotifierFunc(func(context.Context, string) {}),
		logger:   slog.Default(),
		result:   Result{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one generation and blocks until it settles. The result is already
// pending when the backend call starts.
func (c *Controller) Submit(ctx context.Context, p params.Parameters) Result {
	id, b, err := c.begin()
	if err != nil {
		return Result{Status: StatusFailed, Failure: &Failure{Kind: KindRequestConstruction, Err: err}}
	}
	return c.run(ctx, id, b, p)
}

// SubmitAsync starts one generation and returns once the result is pending. The
// settled result is delivered on the returned channel, which is then closed.
func (c *Controller) SubmitAsync(ctx context.Context, p params.Parameters) <-chan Result {
	ch := make(chan Result, 1)

	id, b, err := c.begin()
	if err != nil {
		ch <- Result{Status: StatusFailed, Failure: &Failure{Kind: KindRequestConstruction, Err: err}}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		ch <- c.run(ctx, id, b, p)
	}()

	return ch
}

// Result returns the current result.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.result
}

// Loading reports whether a submission is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inFlight > 0
}

// SetNotifier replaces the notifier used to surface failures.
func (c *Controller) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notifier = n
}

// SetBackend swaps the backend used by later submissions and returns the previous one.
// Submissions already in flight keep the backend they started with.
func (c *Controller) SetBackend(b backend.Backend) backend.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.backend
	c.backend = b
	return prev
}

// Close releases the current audio handle. Submissions that settle afterwards
// release their own handle immediately. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.replace(Result{Status: StatusIdle})

	return nil
}

// begin moves the controller to pending. The previous audio is released here so
// a new submission never shows a stale locator.
func (c *Controller) begin() (uint64, backend.Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, nil, ErrClosed
	}

	c.seq++
	c.inFlight++
	c.replace(Result{Status: StatusPending, Submission: c.seq})

	return c.seq, c.backend, nil
}

func (c *Controller) run(ctx context.Context, id uint64, b backend.Backend, p params.Parameters) Result {
	start := time.Now()
	c.logger.Debug("Submitting speech request",
		"submission", id,
		"voice", p.Voice,
		"language", p.Language,
		"format", p.ResponseFormat,
		"model", p.Model,
		"speed", p.Speed,
		"chars", len([]rune(p.Text)),
	)

	handle, failure := c.attempt(ctx, b, p)
	res, closed := c.settle(id, handle, failure)

	if res.Failure != nil {
		c.logger.Error("Speech generation failed",
			"submission", id,
			"kind", res.Failure.Kind,
			"status", res.Failure.StatusCode,
			"error", res.Failure.Err,
			"elapsed", time.Since(start),
		)
		if !closed {
			c.currentNotifier().Notify(ctx, FailureNotice)
		}
		return res
	}

	c.logger.Info("Speech generation ready",
		"submission", id,
		"locator", res.Handle.Locator(),
		"bytes", res.Handle.Size(),
		"content_type", res.Handle.ContentType(),
		"elapsed", time.Since(start),
	)
	return res
}

// attempt performs the request. A panic anywhere below is turned into a failure so
// the in-flight counter is always settled.
func (c *Controller) attempt(ctx context.Context, b backend.Backend, p params.Parameters) (handle *audio.Handle, failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			handle.Release()
			handle = nil
			failure = &Failure{Kind: KindRequestConstruction, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if b == nil {
		return nil, &Failure{Kind: KindTransport, Err: backend.ErrNotFound}
	}

	req, err := backend.NewRequest(p)
	if err != nil {
		return nil, classify(err)
	}

	resp, err := b.Synthesize(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = req.Format().ContentType()
	}

	handle, err = c.store.Create(resp.Audio, contentType)
	if err != nil {
		return nil, &Failure{Kind: KindResource, Err: err}
	}

	return handle, nil
}

// settle installs the outcome of submission id as the current result. It reports
// whether the controller was already closed, in which case nothing is installed.
func (c *Controller) settle(id uint64, handle *audio.Handle, failure *Failure) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--

	if c.closed {
		handle.Release()
		if failure == nil {
			failure = &Failure{Kind: KindResource, Err: ErrClosed}
		}
		return Result{Status: StatusFailed, Failure: failure, Submission: id}, true
	}

	res := Result{Status: StatusReady, Handle: handle, Submission: id}
	if failure != nil {
		res = Result{Status: StatusFailed, Failure: failure, Submission: id}
	}

	c.replace(res)
	return res, false
}

func (c *Controller) currentNotifier() Notifier {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.notifier
}

// replace sets the current result, releasing the handle it supersedes.
// c.mu must be held.
func (c *Controller) replace(next Result) {
	if prev := c.result.Handle; prev != nil && prev != next.Handle {
		prev.Release()
	}
	c.result = next
}
