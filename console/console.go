// Package console is the host-facing surface of the query console: a
// single snapshot-bound session, one query at a time, commands in and
// normalized results out. Every failure is recovered into a
// query.Failure; nothing escapes as a panic or uncaught error.
package console

import (
	"context"
	"strings"
	"sync"

	"github.com/snapquery/snapquery/core"
	"github.com/snapquery/snapquery/query"
	"github.com/snapquery/snapquery/session"
	"github.com/snapquery/snapquery/snapshot"
)

// Console drives one snapshot-bound query session for a host UI.
// Commands are safe to call from multiple goroutines; at most one
// query executes at a time and an overlapping Execute is rejected as
// busy rather than queued. Reload and Close during a running query are
// deferred until it completes, never applied under it.
type Console struct {
	resolver snapshot.Resolver
	init     session.InitFunc
	fetch    session.FetchFunc
	library  *query.Library

	mu       sync.Mutex
	state    State
	revision string
	text     string
	result   query.Result
	// status is the console's snapshot of the query status, updated
	// under mu. runnerStatus is written by the runner while the lock is
	// dropped and is only read back after the runner returns.
	status        core.QueryStatus
	runnerStatus  core.QueryStatus
	session       *session.Session
	runner        *query.Runner
	pendingReload bool
	pendingClose  bool
	closed        bool
}

var errClosed = core.Errorf(core.KindSession, "console is closed")

// New creates an idle console for revision. Nothing is resolved or
// fetched until the first Reload or Execute.
func New(resolver snapshot.Resolver, revision string, init session.InitFunc, fetch session.FetchFunc) *Console {
	return &Console{
		resolver: resolver,
		init:     init,
		fetch:    fetch,
		library:  query.DefaultLibrary(),
		revision: revision,
	}
}

// State returns the current lifecycle phase.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns a copy of the query status record.
func (c *Console) Status() core.QueryStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		return core.QueryStatus{Running: true}
	}
	return c.status
}

// Result returns the result of the most recent request, or nil if no
// request completed yet.
func (c *Console) Result() query.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Revision returns the snapshot revision the console is bound to.
func (c *Console) Revision() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Examples returns the example library in its fixed order.
func (c *Console) Examples() []core.ExampleQuery {
	return c.library.Examples()
}

// SelectExample replaces the query text with the example registered
// under id. An unknown id leaves the current text untouched.
func (c *Console) SelectExample(id string) bool {
	text, ok := c.library.Select(id)
	if !ok {
		return false
	}
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return true
}

// SetQueryText replaces the query text.
func (c *Console) SetQueryText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

// QueryText returns the current query text.
func (c *Console) QueryText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Execute runs the current query text. The session is loaded on first
// use; empty text fails validation without touching the session or the
// status. The returned result is also retained for Result().
func (c *Console) Execute(ctx context.Context) query.Result {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return query.Failure{Kind: core.KindSession, Message: errClosed.Error()}
	}
	if c.state == Running {
		c.mu.Unlock()
		return query.Failure{Kind: core.KindBusy, Message: "a query is already running"}
	}
	if strings.TrimSpace(c.text) == "" {
		failure := query.Failure{Kind: core.KindValidation, Message: "query text is empty"}
		c.result = failure
		c.mu.Unlock()
		return failure
	}
	if c.runner == nil {
		if err := c.loadLocked(ctx); err != nil {
			failure := query.Failure{Kind: core.KindSession, Message: err.Error()}
			c.result = failure
			c.mu.Unlock()
			return failure
		}
	}

	text := c.text
	runner := c.runner
	c.state = Transition(c.state, EventExecute)
	c.mu.Unlock()

	// The lock is dropped while the engine works so that State, Status,
	// Reload, and Close stay responsive during a long query.
	result := runner.Execute(ctx, text)

	c.mu.Lock()
	c.result = result
	c.status = c.runnerStatus
	c.state = Transition(c.state, EventFinished)
	if c.pendingClose {
		c.pendingClose = false
		c.pendingReload = false
		c.closeLocked()
	} else if c.pendingReload {
		c.pendingReload = false
		c.loadLocked(ctx)
	}
	c.mu.Unlock()

	return result
}

// Reload discards the current session and loads the snapshot again
// from the resolver. Issued while a query is running it is deferred
// until the query completes.
func (c *Console) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errClosed
	}
	if c.state == Running {
		c.pendingReload = true
		return nil
	}
	return c.loadLocked(ctx)
}

// Use rebinds the console to a different snapshot revision and
// reloads. Like Reload, it is deferred while a query is running.
func (c *Console) Use(ctx context.Context, revision string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errClosed
	}
	c.revision = revision
	if c.state == Running {
		c.pendingReload = true
		return nil
	}
	return c.loadLocked(ctx)
}

// Close releases the session. Issued while a query is running, the
// release is deferred until the query completes; the in-flight result
// is still delivered. Close is idempotent.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if c.state == Running {
		c.pendingClose = true
		return nil
	}
	c.closeLocked()
	return nil
}

// loadLocked resolves the snapshot source and installs a fresh loaded
// session. The previous session is kept alive until the new one is
// loaded, then released. On any failure the console lands in Failed
// with the failure retained as the current result; a later Reload
// retries from there.
func (c *Console) loadLocked(ctx context.Context) error {
	c.state = Transition(c.state, EventLoad)

	url, err := c.resolver.SnapshotURL(ctx, c.revision)
	if err == nil && url == "" {
		err = core.Errorf(core.KindSession, "snapshot source unavailable")
	}
	if err != nil {
		return c.loadFailedLocked(err)
	}

	sess := session.New(core.Snapshot{URL: url, RevisionID: c.revision}, c.init, c.fetch)
	if err := sess.Load(ctx); err != nil {
		return c.loadFailedLocked(err)
	}

	if c.session != nil {
		c.session.Release()
	}
	c.session = sess
	c.runner = query.NewRunner(sess, &c.runnerStatus)
	c.state = Transition(c.state, EventLoadOK)
	return nil
}

// loadFailedLocked tears down any previous session so that Failed
// never serves stale data, records the failure, and lands in Failed.
func (c *Console) loadFailedLocked(err error) error {
	if c.session != nil {
		c.session.Release()
		c.session = nil
	}
	c.runner = nil
	c.state = Transition(c.state, EventLoadFailed)
	c.result = query.Failure{Kind: core.KindOf(err), Message: err.Error()}
	return err
}

func (c *Console) closeLocked() {
	if c.session != nil {
		c.session.Release()
		c.session = nil
	}
	c.runner = nil
	c.closed = true
	c.state = Idle
}
