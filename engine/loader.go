package engine

import (
	"context"
	"database/sql"
	"os"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-git/go-billy/v6/osfs"

	"github.com/snapquery/snapquery/core"
)

// Loader performs the one-time engine runtime initialization. All calls
// made before the first load completes await the same in-flight attempt;
// later calls return the cached runtime immediately. A failed attempt is
// reported to every waiter and forgotten, so the next call retries.
type Loader struct {
	scratchDir string

	mu      sync.Mutex
	runtime *Runtime
	attempt *initAttempt
}

type initAttempt struct {
	done    chan struct{}
	runtime *Runtime
	err     error
}

// NewLoader creates a loader spooling snapshot files under scratchDir.
// An empty scratchDir falls back to the OS temp directory.
func NewLoader(scratchDir string) *Loader {
	return &Loader{scratchDir: scratchDir}
}

var processLoader = NewLoader("")

// Initialize returns the process-wide engine runtime, loading it on
// first use. Concurrent console instances share one initialization.
func Initialize(ctx context.Context) (*Runtime, error) {
	return processLoader.Initialize(ctx)
}

// Initialize returns the loader's runtime, performing the load on first
// call. The returned error always carries core.KindEngineInit.
func (l *Loader) Initialize(ctx context.Context) (*Runtime, error) {
	l.mu.Lock()
	if l.runtime != nil {
		rt := l.runtime
		l.mu.Unlock()
		return rt, nil
	}
	att := l.attempt
	if att == nil {
		att = &initAttempt{done: make(chan struct{})}
		l.attempt = att
		go l.run(att)
	}
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		// The load itself keeps going; a later call can still adopt it.
		return nil, core.WrapError(core.KindEngineInit, ctx.Err(), "engine initialization canceled")
	case <-att.done:
	}

	if att.err != nil {
		return nil, att.err
	}
	return att.runtime, nil
}

func (l *Loader) run(att *initAttempt) {
	rt, err := openRuntime(l.scratchDir)

	l.mu.Lock()
	l.attempt = nil
	if err != nil {
		att.err = core.WrapError(core.KindEngineInit, err, "engine failed to load: %v", err)
	} else {
		att.runtime = rt
		l.runtime = rt
	}
	l.mu.Unlock()

	close(att.done)
}

// openRuntime loads the embedded engine by opening and pinging an
// in-memory database, which forces the native library to initialize.
// Swappable for loader tests.
var openRuntime = func(scratchDir string) (*Runtime, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Runtime{fs: osfs.New(scratchDir), root: scratchDir}, nil
}
