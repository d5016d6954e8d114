package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/errors"
)

// Defaults for the dispatcher's sizing decisions.
const (
	// DefaultThreshold is the input size at or above which a calculation
	// is offloaded to the background worker.
	DefaultThreshold = 500

	// DefaultDebounce is how long the dispatcher waits after an input
	// change before computing; rapid successive inputs restart the window
	// so only the last one is computed.
	DefaultDebounce = 100 * time.Millisecond
)

// Config sizes a Dispatcher.
type Config struct {
	Threshold int           `json:"threshold"`
	Debounce  time.Duration `json:"debounce"`
}

// DefaultConfig returns the standard threshold and debounce window.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Debounce:  DefaultDebounce,
	}
}

// Result is one completed computation delivered on the Dispatcher's result
// channel. Err is non-nil only when the synchronous fallback failed too.
type Result struct {
	Payload *Payload
	Data    json.RawMessage
	Err     error
}

// Dispatcher debounces successive inputs for one consumer and routes each
// surviving input either to the calling goroutine or to the background
// Service, depending on input size. A staleness guard drops any result
// that does not correspond to the most recently submitted input, so the
// consumer never observes results out of order.
type Dispatcher struct {
	svc *Service
	cfg Config
	log *zap.SugaredLogger

	mu     sync.Mutex
	timer  *time.Timer
	latest *Payload
	closed bool

	results chan Result
}

// NewDispatcher wraps a background service with debounce and staleness
// handling. Zero config fields fall back to the defaults.
func NewDispatcher(svc *Service, cfg Config, log *zap.SugaredLogger) *Dispatcher {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Dispatcher{
		svc:     svc,
		cfg:     cfg,
		log:     log.Named("dispatcher"),
		results: make(chan Result, 16),
	}
}

// Results delivers completed computations for the latest inputs. Results
// for superseded inputs are silently dropped before reaching this channel.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Submit registers a new input. The pending debounce timer, if any, is
// cancelled and restarted; the input only computes if nothing newer
// arrives within the window.
func (d *Dispatcher) Submit(payload Payload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	p := &payload
	d.latest = p
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.cfg.Debounce, func() { d.run(p) })

	d.log.Debugw("Input submitted",
		"kind", payload.Kind,
		"size", payload.Size(),
		"working_set", catalog.Fingerprint(payload.Parts))
}

// RunOnce computes a payload immediately, without debouncing, using the
// same threshold and fallback rules as the debounced path. Intended for
// one-shot consumers like the CLI.
func (d *Dispatcher) RunOnce(ctx context.Context, payload Payload) (json.RawMessage, error) {
	return d.dispatch(ctx, &payload)
}

// Close cancels any pending debounce timer and closes the result channel.
// In-flight worker requests are not actively cancelled; their replies no
// longer match the latest-input marker and are dropped on arrival.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.latest = nil
	close(d.results)
}

// run executes a debounced input and emits its result unless a newer input
// has been submitted in the meantime.
func (d *Dispatcher) run(p *Payload) {
	if d.stale(p) {
		return
	}

	data, err := d.dispatch(context.Background(), p)

	// Re-check on arrival: the computation may have been in flight while
	// a newer input was submitted.
	if d.stale(p) {
		d.log.Debugw("Dropping stale result", "kind", p.Kind)
		return
	}

	d.emit(Result{Payload: p, Data: data, Err: err})
}

// dispatch routes one payload by size: small inputs (or hosts without
// background execution) compute on the calling goroutine, large inputs go
// through the worker with a synchronous retry on any worker failure.
func (d *Dispatcher) dispatch(ctx context.Context, p *Payload) (json.RawMessage, error) {
	if p.Size() < d.cfg.Threshold || !backgroundAvailable() {
		return computeAndMarshal(*p)
	}

	data, err := d.svc.Submit(ctx, *p)
	if err == nil {
		return data, nil
	}

	d.log.Warnw("Background computation failed, retrying synchronously",
		"kind", p.Kind,
		"size", p.Size(),
		"error", err)

	data, fallbackErr := computeAndMarshal(*p)
	if fallbackErr != nil {
		return nil, errors.Wrapf(errors.ErrComputeFailed,
			"background execution failed (%v) and synchronous fallback failed (%v)", err, fallbackErr)
	}
	return data, nil
}

// stale reports whether p has been superseded by a newer input.
func (d *Dispatcher) stale(p *Payload) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed || d.latest != p
}

// emit delivers a result without blocking the timer goroutine; if the
// consumer has fallen this far behind, the oldest undelivered result is
// the right one to lose.
func (d *Dispatcher) emit(r Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.results <- r:
	default:
		d.log.Warnw("Result channel full, dropping oldest", "kind", r.Payload.Kind)
		select {
		case <-d.results:
		default:
		}
		select {
		case d.results <- r:
		default:
		}
	}
}

// computeAndMarshal runs the shared pure computation and serializes the
// result the same way the worker does.
func computeAndMarshal(p Payload) (json.RawMessage, error) {
	result, err := Compute(p)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal computation result")
	}
	return data, nil
}
