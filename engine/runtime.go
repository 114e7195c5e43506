package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"
)

// ResultSet holds one statement's column names and row tuples.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Runtime is the loaded engine. It opens snapshot byte buffers into
// live database handles.
type Runtime struct {
	fs   billy.Filesystem
	root string
}

// Open instantiates a database handle from raw snapshot bytes. The bytes
// are spooled to a scratch file owned by the returned Handle; corrupt or
// non-database bytes fail here, at first contact with the engine.
func (r *Runtime) Open(data []byte) (*Handle, error) {
	f, err := util.TempFile(r.fs, "", "snapshot-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		r.fs.Remove(name)
		return nil, fmt.Errorf("failed to spool snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		r.fs.Remove(name)
		return nil, fmt.Errorf("failed to spool snapshot: %w", err)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		r.fs.Remove(name)
		return nil, err
	}
	// The driver connects lazily; ping now so corrupt bytes surface as a
	// load failure instead of a confusing first-query error.
	if err := db.Ping(); err != nil {
		db.Close()
		r.fs.Remove(name)
		return nil, err
	}

	return &Handle{db: db, fs: r.fs, name: name}, nil
}

var errHandleClosed = errors.New("database handle is closed")

// Handle is one live database instance backed by one scratch file. It is
// owned exclusively by its session and must be closed when superseded.
type Handle struct {
	mu     sync.Mutex
	db     *sql.DB
	fs     billy.Filesystem
	name   string
	closed bool
}

// Query executes a projection statement and materializes the first
// result set. When a multi-statement string is submitted, subsequent
// result sets are discarded; only the first statement's rows are
// rendered. That is a deliberate simplification of the console, not a
// driver accident.
func (h *Handle) Query(query string) (*ResultSet, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, errHandleClosed
	}
	db := h.db
	h.mu.Unlock()

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, values)
	}

	return result, rows.Err()
}

// Run executes a mutation or DDL statement, returning no rows.
func (h *Handle) Run(query string) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errHandleClosed
	}
	db := h.db
	h.mu.Unlock()

	_, err := db.Exec(query)
	return err
}

// Close releases the database and removes the scratch file. Calling
// Close on an already-closed handle is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	err := h.db.Close()
	if removeErr := h.fs.Remove(h.name); err == nil {
		err = removeErr
	}
	return err
}
