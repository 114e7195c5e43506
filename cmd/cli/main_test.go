package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSplitStatements(t *testing.T) {
	content := `CREATE TABLE t (id INTEGER);
INSERT INTO t VALUES (1); -- trailing comment
-- a full comment line
SELECT 'a;b' FROM t;
SELECT 1`

	statements := splitStatements(content)
	if len(statements) != 4 {
		t.Fatalf("Expected 4 statements, got %d: %v", len(statements), statements)
	}
	if statements[2] != "SELECT 'a;b' FROM t" {
		t.Errorf("Semicolon inside a string literal must not split: %q", statements[2])
	}
	if statements[3] != "SELECT 1" {
		t.Errorf("Last statement without semicolon should be kept: %q", statements[3])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("Short strings should pass through, got %q", got)
	}
	long := strings.Repeat("x", 60)
	got := truncate(long, 50)
	if len(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("Expected 50-char truncation with ellipsis, got %q", got)
	}
	if got := truncate("a\nb\tc", 50); got != "a b c" {
		t.Errorf("Whitespace should be flattened, got %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue(nil); got != "NULL" {
		t.Errorf("Expected NULL, got %q", got)
	}
	if got := formatValue([]byte("blob")); got != "blob" {
		t.Errorf("Expected raw bytes, got %q", got)
	}
	if got := formatValue(int64(42)); got != "42" {
		t.Errorf("Expected 42, got %q", got)
	}
	if got := formatValue(3.5); got != "3.5" {
		t.Errorf("Expected 3.5, got %q", got)
	}
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := formatValue(ts); got != "2024-06-01T12:00:00Z" {
		t.Errorf("Expected RFC3339 timestamp, got %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"id", "name"}, [][]interface{}{
		{int64(1), "Alice"},
		{int64(2), nil},
	})

	out := buf.String()
	if !strings.Contains(out, "| id | name  |") {
		t.Errorf("Missing header row in:\n%s", out)
	}
	if !strings.Contains(out, "| 1  | Alice |") {
		t.Errorf("Missing data row in:\n%s", out)
	}
	if !strings.Contains(out, "NULL") {
		t.Errorf("NULL cell should render in:\n%s", out)
	}
	if !strings.HasPrefix(out, "+----+-------+") {
		t.Errorf("Missing separator in:\n%s", out)
	}
}

func TestAddToHistory(t *testing.T) {
	cli := &CLI{}
	cli.addToHistory("SELECT 1;")
	cli.addToHistory("SELECT 1;")
	if len(cli.history) != 1 {
		t.Errorf("Consecutive duplicates should collapse, got %d entries", len(cli.history))
	}

	for i := 0; i < 1200; i++ {
		cli.addToHistory(strings.Repeat("x", i%7+1))
	}
	if len(cli.history) > 1000 {
		t.Errorf("History should cap at 1000, got %d", len(cli.history))
	}
}
