// Package session binds one snapshot to one loaded engine handle.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/snapquery/snapquery/core"
	"github.com/snapquery/snapquery/engine"
)

// Handle is the engine surface a session owns. *engine.Handle satisfies
// it; tests substitute fakes.
type Handle interface {
	Query(query string) (*engine.ResultSet, error)
	Run(query string) error
	Close() error
}

// Runtime opens raw snapshot bytes into a handle.
type Runtime interface {
	Open(data []byte) (Handle, error)
}

// InitFunc resolves the engine runtime, loading it on first use.
type InitFunc func(ctx context.Context) (Runtime, error)

// FetchFunc downloads the snapshot bytes at url.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Session owns at most one live database handle bound to one snapshot.
// The handle must be released when the session is superseded or torn
// down; Release on every exit path, including failed reloads, keeps
// native engine memory from leaking.
type Session struct {
	mu       sync.Mutex
	snapshot core.Snapshot
	init     InitFunc
	fetch    FetchFunc
	handle   Handle
	loaded   bool
}

// New creates an unloaded session for snap. Loading is lazy; the first
// execution triggers it.
func New(snap core.Snapshot, init InitFunc, fetch FetchFunc) *Session {
	return &Session{snapshot: snap, init: init, fetch: fetch}
}

// Snapshot returns the snapshot this session is bound to.
func (s *Session) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Loaded reports whether the session holds a live handle.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load resolves the engine runtime, fetches the snapshot bytes, and
// installs a fresh handle. Each step fails with its own error kind:
// core.KindEngineInit, core.KindFetch, core.KindLoad. Any previously
// held handle is released whether the load succeeds or fails; after a
// failed load the session is unloaded.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.Resolved() {
		s.releaseLocked()
		return core.Errorf(core.KindSession, "snapshot source unavailable")
	}

	runtime, err := s.init(ctx)
	if err != nil {
		s.releaseLocked()
		return classify(err, core.KindEngineInit, "engine failed to load")
	}

	data, err := s.fetch(ctx, s.snapshot.URL)
	if err != nil {
		s.releaseLocked()
		return classify(err, core.KindFetch, "snapshot fetch failed")
	}

	handle, err := runtime.Open(data)
	if err != nil {
		s.releaseLocked()
		return core.WrapError(core.KindLoad, err, "invalid database snapshot %s: %v", s.snapshot.RevisionID, err)
	}

	s.releaseLocked()
	s.handle = handle
	s.loaded = true
	return nil
}

// Release closes the handle if present. Safe to call multiple times.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Session) releaseLocked() {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	s.loaded = false
}

var errNotLoaded = core.Errorf(core.KindSession, "no loaded database session")

// Query runs a projection statement against the live handle.
func (s *Session) Query(query string) (*engine.ResultSet, error) {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == nil {
		return nil, errNotLoaded
	}
	return handle.Query(query)
}

// Run executes a mutation or DDL statement against the live handle.
func (s *Session) Run(query string) error {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == nil {
		return errNotLoaded
	}
	return handle.Run(query)
}

// classify keeps an already-classified error as-is and wraps anything
// else with the step's kind.
func classify(err error, kind core.ErrorKind, context string) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}
	return core.WrapError(kind, err, "%s: %v", context, err)
}
