package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harun/termvault/internal/observability"
	"github.com/harun/termvault/internal/tracing"
	"github.com/harun/termvault/pkg/term"
)

const tracerName = "termvault.store"

// ownerTokenPrefix marks owner tokens so the log redactor can mask them
const ownerTokenPrefix = "own_"

// Store owns the mapping from process id to persisted session state. All
// collaborators are injected at construction; the store keeps no ambient
// globals.
type Store struct {
	phys      PhysicalStore
	codec     Codec
	newEngine func() (Engine, error)
	logger    zerolog.Logger
}

// Config holds the store's collaborators
type Config struct {
	// Physical is the durable record store. Required.
	Physical PhysicalStore

	// Codec converts engines to and from state blobs. Defaults to
	// TermCodec.
	Codec Codec

	// NewEngine produces a fresh engine for Create. Defaults to spawning
	// a pty-backed terminal with default options.
	NewEngine func() (Engine, error)

	// Logger is the base logger. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// New creates a session store
func New(cfg Config) (*Store, error) {
	observability.EnsureRegistered()

	if cfg.Physical == nil {
		return nil, errors.New("physical store is required")
	}
	if cfg.Codec == nil {
		cfg.Codec = TermCodec{}
	}
	if cfg.NewEngine == nil {
		cfg.NewEngine = func() (Engine, error) {
			return term.Start(term.Options{})
		}
	}

	return &Store{
		phys:      cfg.Physical,
		codec:     cfg.Codec,
		newEngine: cfg.NewEngine,
		logger:    cfg.Logger,
	}, nil
}

// newOwnerToken generates a fresh unguessable owner token
func newOwnerToken() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate owner token: %w", err)
	}
	return ownerTokenPrefix + id, nil
}

// Create spawns a fresh engine, persists its initial record, and returns a
// handle. Engine start failures propagate unchanged.
func (s *Store) Create(ctx context.Context) (*Handle, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store.create")
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, s.logger)

	engine, err := s.newEngine()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	owner, err := newOwnerToken()
	if err != nil {
		engine.Close()
		span.RecordError(err)
		return nil, err
	}

	h := newHandle(s, engine, engine.Pid(), owner)
	if err := h.persist(ctx); err != nil {
		engine.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Info().
		Int("pid", h.Pid()).
		Msg("Session created")
	observability.RecordAccessAudit(ctx, h.Pid(), "session_created", "success", nil)

	return h, nil
}

// Find loads the session for pid without checking ownership. Fails with an
// Unavailable error when no record exists.
func (s *Store) Find(ctx context.Context, pid int) (*Handle, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store.find",
		attribute.Int("session.pid", pid),
	)
	defer span.End()

	start := time.Now()
	defer func() { observability.RecordSessionLookup(time.Since(start)) }()

	rec, ok, err := s.phys.GetByPid(ctx, pid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !ok {
		err := newError(KindUnavailable, pid, "find", errors.New("no session record"))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	engine, err := s.codec.Decode(rec.State)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return newHandle(s, engine, pid, rec.Owner), nil
}

// FindAuthorized loads the session for pid and verifies the supplied owner
// token. An absent record and a token mismatch are distinguishable
// failures: the former is Unavailable, the latter Unauthorized.
func (s *Store) FindAuthorized(ctx context.Context, pid int, owner string) (*Handle, error) {
	h, err := s.Find(ctx, pid)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(h.owner), []byte(owner)) != 1 {
		observability.RecordAuthFailure()
		observability.RecordAccessAudit(ctx, pid, "access_denied", "failure", nil)
		return nil, newError(KindUnauthorized, pid, "find", errors.New("owner token mismatch"))
	}

	return h, nil
}

// Persisted reports whether a record currently exists for the handle's pid.
// A handle with no pid is never persisted.
func (s *Store) Persisted(ctx context.Context, h *Handle) (bool, error) {
	if h == nil || h.pid == 0 {
		return false, nil
	}

	_, ok, err := s.phys.GetByPid(ctx, h.pid)
	if err != nil {
		return false, err
	}
	return ok, nil
}
