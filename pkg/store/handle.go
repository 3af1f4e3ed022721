package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harun/termvault/internal/observability"
	"github.com/harun/termvault/internal/tracing"
)

// Operation names callable on a Handle
const (
	OpWrite  = "write"
	OpRead   = "read"
	OpResize = "resize"
	OpClose  = "close"
	OpSignal = "signal"
)

// opFunc dispatches a named operation with loosely typed arguments
type opFunc func(ctx context.Context, args []any) (any, error)

// Handle is the in-memory, per-lookup proxy combining an engine with its
// identity. It is ephemeral: reconstructed fresh on every lookup and
// discarded when the request finishes.
//
// Every operation follows the same contract: forward to the engine with
// identical arguments; on success persist the full session state under the
// handle's pid; on failure map the error into the domain taxonomy and leave
// the last persisted state authoritative; return the engine's result
// unchanged.
type Handle struct {
	store  *Store
	engine Engine
	pid    int
	owner  string

	// ops is the capability set, resolved once at construction so
	// repeated Supports/Call lookups never re-probe the engine
	ops map[string]opFunc
}

func newHandle(s *Store, engine Engine, pid int, owner string) *Handle {
	h := &Handle{
		store:  s,
		engine: engine,
		pid:    pid,
		owner:  owner,
	}
	h.ops = h.resolveOps()
	return h
}

// resolveOps builds the dispatch table for everything the engine supports
func (h *Handle) resolveOps() map[string]opFunc {
	ops := map[string]opFunc{
		OpWrite: func(ctx context.Context, args []any) (any, error) {
			if err := arity(h.pid, OpWrite, args, 1); err != nil {
				return nil, err
			}
			p, err := byteArg(h.pid, OpWrite, args, 0)
			if err != nil {
				return nil, err
			}
			return h.Write(ctx, p)
		},
		OpRead: func(ctx context.Context, args []any) (any, error) {
			if err := arity(h.pid, OpRead, args, 0); err != nil {
				return nil, err
			}
			return h.Read(ctx)
		},
		OpResize: func(ctx context.Context, args []any) (any, error) {
			if err := arity(h.pid, OpResize, args, 2); err != nil {
				return nil, err
			}
			cols, err := intArg(h.pid, OpResize, args, 0)
			if err != nil {
				return nil, err
			}
			rows, err := intArg(h.pid, OpResize, args, 1)
			if err != nil {
				return nil, err
			}
			return nil, h.Resize(ctx, cols, rows)
		},
		OpClose: func(ctx context.Context, args []any) (any, error) {
			if err := arity(h.pid, OpClose, args, 0); err != nil {
				return nil, err
			}
			return nil, h.Close(ctx)
		},
	}

	if _, ok := h.engine.(Signaler); ok {
		ops[OpSignal] = func(ctx context.Context, args []any) (any, error) {
			if err := arity(h.pid, OpSignal, args, 1); err != nil {
				return nil, err
			}
			sig, err := intArg(h.pid, OpSignal, args, 0)
			if err != nil {
				return nil, err
			}
			return nil, h.Signal(ctx, sig)
		}
	}

	return ops
}

// Pid returns the session's process id
func (h *Handle) Pid() int {
	return h.pid
}

// Owner returns the session's owner token
func (h *Handle) Owner() string {
	return h.owner
}

// Supports reports whether the engine behind this handle supports the named
// operation, without invoking it
func (h *Handle) Supports(op string) bool {
	_, ok := h.ops[op]
	return ok
}

// Ops enumerates the supported operation names, sorted
func (h *Handle) Ops() []string {
	names := make([]string, 0, len(h.ops))
	for name := range h.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches an operation by name, for callers that route requests by
// operation name rather than through the typed methods. Unsupported
// operations and malformed arguments surface as Invalid.
func (h *Handle) Call(ctx context.Context, op string, args ...any) (any, error) {
	fn, ok := h.ops[op]
	if !ok {
		return nil, newError(KindInvalid, h.pid, op, fmt.Errorf("unsupported operation %q", op))
	}
	return fn(ctx, args)
}

// Write sends input to the session and persists the resulting state
func (h *Handle) Write(ctx context.Context, p []byte) (int, error) {
	res, err := h.delegate(ctx, OpWrite, func() (any, error) {
		return h.engine.Write(p)
	})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

// Read drains pending session output and persists the resulting state.
// Reading consumes the output buffer, so it is a mutating operation.
func (h *Handle) Read(ctx context.Context) ([]byte, error) {
	res, err := h.delegate(ctx, OpRead, func() (any, error) {
		return h.engine.Read()
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

// Resize changes the session's terminal dimensions and persists state
func (h *Handle) Resize(ctx context.Context, cols, rows int) error {
	_, err := h.delegate(ctx, OpResize, func() (any, error) {
		return nil, h.engine.Resize(cols, rows)
	})
	return err
}

// Close terminates the session and persists the closed state
func (h *Handle) Close(ctx context.Context) error {
	_, err := h.delegate(ctx, OpClose, func() (any, error) {
		return nil, h.engine.Close()
	})
	return err
}

// Signal delivers a signal to the session's process. Fails with Invalid if
// the engine does not support signaling.
func (h *Handle) Signal(ctx context.Context, sig int) error {
	signaler, ok := h.engine.(Signaler)
	if !ok {
		return newError(KindInvalid, h.pid, OpSignal, fmt.Errorf("engine does not support signaling"))
	}
	_, err := h.delegate(ctx, OpSignal, func() (any, error) {
		return nil, signaler.Signal(sig)
	})
	return err
}

// delegate runs one operation under the persist-on-success contract
func (h *Handle) delegate(ctx context.Context, op string, fn func() (any, error)) (any, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store."+op,
		attribute.Int("session.pid", h.pid),
	)
	defer span.End()

	start := time.Now()
	res, err := fn()
	if err != nil {
		observability.RecordDelegatedOp(op, time.Since(start), false)
		mapped := mapEngineError(h.pid, op, err)
		span.RecordError(mapped)
		span.SetStatus(codes.Error, mapped.Error())
		return nil, mapped
	}

	if err := h.persist(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	observability.RecordDelegatedOp(op, time.Since(start), true)
	return res, nil
}

// persist writes the engine's full current state under the handle's
// pid/owner
func (h *Handle) persist(ctx context.Context) error {
	blob, err := h.store.codec.Encode(h.engine)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := h.store.phys.Upsert(ctx, h.pid, h.owner, blob); err != nil {
		return err
	}
	observability.RecordSessionPersist(time.Since(start))
	return nil
}

// Argument coercion for Call dispatch

func arity(pid int, op string, args []any, want int) error {
	if len(args) != want {
		return newError(KindInvalid, pid, op,
			fmt.Errorf("expected %d arguments, got %d", want, len(args)))
	}
	return nil
}

func byteArg(pid int, op string, args []any, idx int) ([]byte, error) {
	if idx >= len(args) {
		return nil, newError(KindInvalid, pid, op,
			fmt.Errorf("missing argument %d", idx))
	}
	switch v := args[idx].(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, newError(KindInvalid, pid, op,
			fmt.Errorf("argument %d: expected bytes, got %T", idx, args[idx]))
	}
}

func intArg(pid int, op string, args []any, idx int) (int, error) {
	if idx >= len(args) {
		return 0, newError(KindInvalid, pid, op,
			fmt.Errorf("missing argument %d", idx))
	}
	switch v := args[idx].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, newError(KindInvalid, pid, op,
			fmt.Errorf("argument %d: expected integer, got %T", idx, args[idx]))
	}
}
