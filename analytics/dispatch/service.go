package dispatch

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/optiview/partbench/errors"
)

// Service is the background-execution half of the dispatcher: one
// long-lived worker goroutine fed by a request channel, with replies
// correlated back to waiters by request id.
//
// The worker is lazily started on first use. Close terminates it and
// rejects every pending request, which keeps tests isolated; construct one
// Service per test instead of sharing process-wide state.
type Service struct {
	log *zap.SugaredLogger

	requests chan Request

	mu      sync.Mutex
	pending map[string]chan Response
	started bool
	closed  bool
	done    chan struct{}
}

// NewService creates a background computation service. The worker
// goroutine is not started until the first Submit.
func NewService(log *zap.SugaredLogger) *Service {
	return &Service{
		log:      log.Named("dispatch"),
		requests: make(chan Request),
		pending:  make(map[string]chan Response),
		done:     make(chan struct{}),
	}
}

// Submit serializes the payload into a request envelope, hands it to the
// worker, and blocks until the correlated response arrives or ctx is done.
// Exactly one response is consumed per request id; a response arriving
// after the waiter has given up is dropped by the worker's send.
func (s *Service) Submit(ctx context.Context, payload Payload) (json.RawMessage, error) {
	id := uuid.NewString()
	replyCh := make(chan Response, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.Wrap(errors.ErrServiceClosed, "cannot submit computation")
	}
	if !s.started {
		s.started = true
		go s.worker()
	}
	s.pending[id] = replyCh
	s.mu.Unlock()

	req := Request{ID: id, Type: "request", Payload: payload}

	select {
	case s.requests <- req:
	case <-s.done:
		s.forget(id)
		return nil, errors.Wrap(errors.ErrServiceClosed, "service closed before dispatch")
	case <-ctx.Done():
		s.forget(id)
		return nil, errors.Wrap(ctx.Err(), "computation cancelled before dispatch")
	}

	select {
	case resp := <-replyCh:
		if resp.Error != nil {
			return nil, errors.Wrapf(errors.ErrComputeFailed, "%s: %s", resp.Error.Name, resp.Error.Message)
		}
		return resp.Result, nil
	case <-s.done:
		return nil, errors.Wrap(errors.ErrServiceClosed, "service closed while awaiting result")
	case <-ctx.Done():
		s.forget(id)
		return nil, errors.Wrap(ctx.Err(), "computation cancelled while awaiting result")
	}
}

// Close terminates the worker and rejects all pending requests. Safe to
// call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	pending := s.pending
	s.pending = make(map[string]chan Response)
	s.mu.Unlock()

	// Waiters blocked on replyCh are also watching s.done; draining the
	// map here just drops the correlation entries.
	if len(pending) > 0 {
		s.log.Debugw("Rejected pending computations on close", "count", len(pending))
	}
}

// worker processes request envelopes one at a time until the service
// closes. Panics inside a calculation become error responses rather than
// killing the process.
func (s *Service) worker() {
	s.log.Debugw("Background computation worker started")
	for {
		select {
		case <-s.done:
			s.log.Debugw("Background computation worker stopped")
			return
		case req := <-s.requests:
			resp := s.execute(req)
			s.deliver(resp)
		}
	}
}

// execute runs one request through the shared pure computation and wraps
// the outcome in a response envelope.
func (s *Service) execute(req Request) (resp Response) {
	resp = Response{ID: req.ID, Type: ResponseResult}

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("Computation panicked in worker",
				"request_id", req.ID,
				"kind", req.Payload.Kind,
				"panic", r)
			resp = Response{
				ID:    req.ID,
				Type:  ResponseError,
				Error: &ErrorInfo{Name: "panic", Message: errors.Newf("%v", r).Error()},
			}
		}
	}()

	result, err := Compute(req.Payload)
	if err != nil {
		return Response{
			ID:    req.ID,
			Type:  ResponseError,
			Error: &ErrorInfo{Name: "compute_error", Message: err.Error()},
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return Response{
			ID:    req.ID,
			Type:  ResponseError,
			Error: &ErrorInfo{Name: "marshal_error", Message: err.Error()},
		}
	}

	resp.Result = data
	return resp
}

// deliver routes a response to its waiter. Unknown ids (waiter gave up, or
// a duplicate reply) are ignored.
func (s *Service) deliver(resp Response) {
	s.mu.Lock()
	replyCh, ok := s.pending[resp.ID]
	if ok {
		delete(s.pending, resp.ID)
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debugw("Ignoring response with no waiter", "request_id", resp.ID)
		return
	}
	replyCh <- resp
}

// forget removes a request's correlation entry after its waiter gives up.
func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}
