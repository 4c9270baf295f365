package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/luasnap/internal/snapshot"
	"github.com/dshills/luasnap/internal/value"
)

// DefaultQueueSize is the request buffer used when no size is configured.
const DefaultQueueSize = 100

// evalRequest is one queued expression with its private result channel.
type evalRequest struct {
	expr   string
	result chan *value.Response
}

// Session owns a single Lua interpreter on a dedicated worker goroutine
// and serializes all evaluations through it.
type Session struct {
	id      string
	queue   chan *evalRequest
	done    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	logger  *slog.Logger

	queueSize int
	safeLibs  bool

	// closeOnce ensures Close is only called once
	closeOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithQueueSize sets how many expressions may be buffered awaiting
// execution. Values <= 0 fall back to DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(s *Session) {
		s.queueSize = n
	}
}

// WithSafeLibraries restricts the interpreter to the base, table, string
// and math libraries, leaving out io, os, debug and package.
func WithSafeLibraries() Option {
	return func(s *Session) {
		s.safeLibs = true
	}
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New starts a session. The worker goroutine and its interpreter are ready
// to accept expressions before New returns.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.New().String(),
		queueSize: DefaultQueueSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.queueSize <= 0 {
		s.queueSize = DefaultQueueSize
	}
	s.queue = make(chan *evalRequest, s.queueSize)

	ready := make(chan struct{})
	go s.run(ready)
	<-ready

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Evaluate submits one expression and blocks until that expression's own
// response is ready. Submissions queue without blocking other callers;
// execution is strictly serialized in submission order.
//
// Cancelling ctx abandons the wait but does not interrupt the expression:
// it will still execute, and its response is discarded. Returns
// ErrSessionClosed if the session has been closed.
func (s *Session) Evaluate(ctx context.Context, expr string) (*value.Response, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	req := &evalRequest{
		expr:   expr,
		result: make(chan *value.Response, 1),
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSessionClosed
	case s.queue <- req:
		// Queued, wait for the result
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.stopped:
		// The worker exited; it may have serviced this request just
		// before stopping, or never seen it at all.
		select {
		case resp, ok := <-req.result:
			if ok {
				return resp, nil
			}
		default:
		}
		return nil, ErrSessionClosed
	case resp, ok := <-req.result:
		if !ok {
			return nil, ErrSessionClosed
		}
		return resp, nil
	}
}

// Close stops the session: intake is refused, queued expressions are
// drained with ErrSessionClosed, the interpreter is released, and the
// worker goroutine is joined before Close returns. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		<-s.stopped
	})
}

// IsClosed returns true if the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// run is the worker loop. It creates and exclusively owns the LState.
func (s *Session) run(ready chan<- struct{}) {
	defer close(s.stopped)

	var L *lua.LState
	if s.safeLibs {
		L = lua.NewState(lua.Options{SkipOpenLibs: true})
		openSafeLibraries(L)
	} else {
		L = lua.NewState()
	}
	defer L.Close()

	close(ready)
	s.logger.Debug("lua session started", "session", s.id)

	for {
		select {
		case <-s.done:
			n := s.drainQueue()
			s.logger.Debug("lua session stopped", "session", s.id, "drained", n)
			return
		case req := <-s.queue:
			resp := evaluate(L, req.expr)
			// Send result (non-blocking since buffer is 1)
			select {
			case req.result <- resp:
			default:
			}
			close(req.result)
		}
	}
}

// drainQueue abandons queued requests after shutdown. Closing a result
// channel without sending is what surfaces ErrSessionClosed to the waiter.
func (s *Session) drainQueue() int {
	n := 0
	for {
		select {
		case req := <-s.queue:
			close(req.result)
			n++
		default:
			return n
		}
	}
}

// evaluate compiles and runs one expression and snapshots its first result
// value. Errors and panics stay local to this expression's Response; they
// never stop the worker.
func evaluate(L *lua.LState, expr string) (resp *value.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = value.Failure(fmt.Sprintf("lua panic: %v", r))
		}
	}()

	fn, err := L.LoadString(expr)
	if err != nil {
		return value.Failure(err.Error())
	}

	// Record stack top before pushing anything
	top := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.SetTop(top)
		return value.Failure(err.Error())
	}

	// The chunk's first return value is the result; extras are ignored.
	result := lua.LValue(lua.LNil)
	nret := L.GetTop() - top
	if nret > 0 {
		result = L.Get(top + 1)
		L.Pop(nret)
	}

	v, objects := snapshot.Take(result)
	return &value.Response{Success: true, Value: v, Objects: objects}
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Base library (print, type, pairs, ipairs, tostring, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Intentionally not opened: io, os, debug, package.
}
