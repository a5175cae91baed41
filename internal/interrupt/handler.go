package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Behavior reports how far an interrupt sequence has progressed.
type Behavior int

const (
	// Continue means no interrupt was received.
	Continue Behavior = iota
	// Drain means stop starting new work and let in-flight work finish.
	Drain
	// Abort means cancel in-flight work.
	Abort
)

// String returns the string representation of the Behavior.
func (b Behavior) String() string {
	switch b {
	case Continue:
		return "Continue"
	case Drain:
		return "Drain"
	case Abort:
		return "Abort"
	default:
		return fmt.Sprintf("Behavior(%d)", b)
	}
}

// ExitInterrupt is the exit code for interrupt (130 = 128 + SIGINT).
const ExitInterrupt = 130

// interruptWindow is the time window for a second Ctrl+C to trigger abort.
const interruptWindow = 2 * time.Second

// DefaultHint is printed on the first Ctrl+C.
const DefaultHint = "\nFinishing in-flight requests. Press Ctrl+C again to abort."

// abortMessage is the message displayed when the user aborts via double Ctrl+C.
const abortMessage = "\nAborted."

// Handler manages graceful interrupt handling with double Ctrl+C detection.
// First Ctrl+C closes Draining so callers stop scheduling work.
// Second Ctrl+C within the window cancels the work context.
// A second Ctrl+C after the window has passed starts a new window.
type Handler struct {
	mu             sync.Mutex
	firstInterrupt time.Time
	interrupted    bool
	aborted        bool
	stopped        bool
	draining       chan struct{}
	cancelWork     context.CancelFunc
	done           chan struct{} // Signals listen goroutine to exit
	notified       chan os.Signal // registered with signal.Notify, nil in tests

	// Injected dependencies (for testing)
	nowFunc func() time.Time
	stderr  io.Writer
	hint    string
}

// Options holds injectable dependencies for testing.
type Options struct {
	SigCh   <-chan os.Signal
	NowFunc func() time.Time
	// Stderr is the writer for user-facing messages.
	// Must be safe for concurrent writes from multiple goroutines.
	// Defaults to os.Stderr which is safe at the OS level.
	Stderr io.Writer
	// Hint replaces DefaultHint.
	Hint string
}

// NewHandler creates a handler that listens for SIGINT/SIGTERM.
// Returns the handler and a work context that is canceled on abort.
func NewHandler(parent context.Context) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	h, ctx := newHandler(parent, Options{SigCh: sigCh})
	h.notified = sigCh
	return h, ctx
}

// NewHandlerWithOptions creates a handler with injectable dependencies.
// Used by tests to inject mock signal channels and clocks.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	return newHandler(parent, opts)
}

func newHandler(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	nowFunc := opts.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	hint := opts.Hint
	if hint == "" {
		hint = DefaultHint
	}

	h := &Handler{
		draining:   make(chan struct{}),
		cancelWork: cancel,
		done:       make(chan struct{}),
		nowFunc:    nowFunc,
		stderr:     stderr,
		hint:       hint,
	}

	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}

	return h, ctx
}

// listen handles incoming signals.
func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return // Channel closed
			}
			if h.handle() {
				return
			}
		}
	}
}

// handle processes one signal and reports whether listening should end.
func (h *Handler) handle() bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return true
	}
	now := h.nowFunc()

	if !h.interrupted || now.Sub(h.firstInterrupt) > interruptWindow {
		first := !h.interrupted
		h.interrupted = true
		h.firstInterrupt = now
		if first {
			close(h.draining)
		}
		h.mu.Unlock()
		fmt.Fprintln(h.stderr, h.hint)
		return false
	}

	h.aborted = true
	h.mu.Unlock()
	fmt.Fprintln(h.stderr, abortMessage)
	h.cancelWork()
	return true
}

// Draining is closed on the first interrupt.
func (h *Handler) Draining() <-chan struct{} {
	return h.draining
}

// WasInterrupted returns true if at least one interrupt was received.
func (h *Handler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// State returns the current Behavior.
func (h *Handler) State() Behavior {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.aborted:
		return Abort
	case h.interrupted:
		return Drain
	}
	return Continue
}

// Stop cleans up the handler. Should be called when done.
// The work context is released as well.
func (h *Handler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	// Only this handler's channel: other Notify users keep their signals.
	if h.notified != nil {
		signal.Stop(h.notified)
	}
	close(h.done) // Signal listen goroutine to exit
	h.cancelWork()
}
