package diffract

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Result is the outcome of one submitted request: either an image or an
// error, never both. Exactly one Result is delivered per request unless the
// request was abandoned by a newer submission, in which case nothing is
// delivered for it.
type Result struct {
	// ID is the request identifier returned by Submit.
	ID string

	Image *Pixmap
	Err   error
}

// Renderer runs simulation requests off the caller's goroutine so heavy
// FFT and convolution work never blocks an interactive host.
//
// Submissions follow last-writer-wins semantics: submitting a new request
// while a previous one is still running abandons the previous one. An
// abandoned request's partial or finished result is discarded — it is never
// merged into, or reported for, a later request.
type Renderer struct {
	gen atomic.Uint64

	mu      sync.Mutex
	results chan Result
	closed  bool
}

// NewRenderer creates a renderer. Results are delivered on the channel
// returned by Results.
func NewRenderer() *Renderer {
	return &Renderer{
		// Capacity 1: an unread result from a superseded submission is
		// dropped when the next one lands, so a slow consumer only ever
		// sees the freshest image.
		results: make(chan Result, 1),
	}
}

// Results returns the channel on which simulation results are delivered.
func (r *Renderer) Results() <-chan Result {
	return r.results
}

// Submit starts a simulation and returns its request ID immediately.
// Any in-flight request is abandoned.
func (r *Renderer) Submit(req Request) string {
	id := uuid.NewString()
	gen := r.gen.Add(1)

	go func() {
		out, err := Simulate(req)
		if r.gen.Load() != gen {
			Logger().Warn("request abandoned", "request", id)
			return
		}
		r.deliver(Result{ID: id, Image: out, Err: err})
	}()
	return id
}

// deliver publishes a result, displacing any unread stale one.
func (r *Renderer) deliver(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for {
		select {
		case r.results <- res:
			return
		default:
			// Drop the unread stale result and retry.
			select {
			case <-r.results:
			default:
			}
		}
	}
}

// Close shuts the renderer down. In-flight requests are abandoned; their
// results are discarded. Results must not be read after Close returns.
func (r *Renderer) Close() {
	r.gen.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.results)
	}
}
