package engine

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

// buildSnapshot writes a small database file and returns its bytes.
func buildSnapshot(t *testing.T) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.duckdb")
	db, err := sql.Open("duckdb", path)
	if err != nil {
		t.Fatalf("Failed to open seed database: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE users (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob')"); err != nil {
		t.Fatalf("Failed to insert rows: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close seed database: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read seed database: %v", err)
	}
	return data
}

func testRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := NewLoader(t.TempDir()).Initialize(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize runtime: %v", err)
	}
	return rt
}

func TestRuntimeOpenAndQuery(t *testing.T) {
	rt := testRuntime(t)

	handle, err := rt.Open(buildSnapshot(t))
	if err != nil {
		t.Fatalf("Failed to open snapshot: %v", err)
	}
	defer handle.Close()

	result, err := handle.Query("SELECT id, name FROM users ORDER BY id")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result.Columns) != 2 {
		t.Errorf("Expected 2 columns, got %d", len(result.Columns))
	}
	if len(result.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0][1] != "Alice" {
		t.Errorf("Expected Alice first, got %v", result.Rows[0][1])
	}
}

func TestRuntimeOpenCorruptBytes(t *testing.T) {
	rt := testRuntime(t)

	_, err := rt.Open([]byte("this is not a database"))
	if err == nil {
		t.Fatal("Expected corrupt bytes to fail")
	}
}

func TestHandleRun(t *testing.T) {
	rt := testRuntime(t)

	handle, err := rt.Open(buildSnapshot(t))
	if err != nil {
		t.Fatalf("Failed to open snapshot: %v", err)
	}
	defer handle.Close()

	if err := handle.Run("INSERT INTO users VALUES (3, 'Charlie')"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	result, err := handle.Query("SELECT COUNT(*) FROM users")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatal("Expected one count row")
	}
}

func TestHandleCloseIdempotent(t *testing.T) {
	rt := testRuntime(t)

	handle, err := rt.Open(buildSnapshot(t))
	if err != nil {
		t.Fatalf("Failed to open snapshot: %v", err)
	}

	if err := handle.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}

	if _, err := handle.Query("SELECT 1"); err == nil {
		t.Error("Query on closed handle should fail")
	}
}
