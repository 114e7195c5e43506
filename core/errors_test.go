package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyEngineMessage(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Catalog Error: no such table: users", "table not found"},
		{"Parser Error: syntax error at or near \"SELEC\"", "SQL syntax error"},
		{"Constraint Error: NOT NULL constraint failed: users.id", "constraint violation"},
		{"cannot write: database is in readonly mode", "database is read-only"},
		{"Out of Memory Error: could not allocate block", "Out of Memory Error: could not allocate block"},
	}

	for _, c := range cases {
		got := ClassifyEngineMessage(c.raw)
		if got != c.want {
			t.Errorf("ClassifyEngineMessage(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	err := Errorf(KindFetch, "snapshot fetch failed: status 404")
	if KindOf(err) != KindFetch {
		t.Errorf("Expected KindFetch, got %v", KindOf(err))
	}

	wrapped := fmt.Errorf("loading: %w", WrapError(KindLoad, errors.New("bad header"), "invalid database file"))
	if KindOf(wrapped) != KindLoad {
		t.Errorf("Expected KindLoad through wrapping, got %v", KindOf(wrapped))
	}

	if KindOf(errors.New("anything")) != KindEngine {
		t.Error("Unclassified errors should report KindEngine")
	}
}

func TestQueryStatusLifecycle(t *testing.T) {
	var status QueryStatus

	status.Start()
	if !status.Running || status.Success || status.ElapsedSeconds != nil {
		t.Error("Start should reset the status to running")
	}

	status.Finish(true, 0.25, 3)
	if status.Running {
		t.Error("Finish should clear running")
	}
	if !status.Success || status.RowCount != 3 {
		t.Errorf("Expected success with 3 rows, got %+v", status)
	}
	if status.ElapsedSeconds == nil || *status.ElapsedSeconds != 0.25 {
		t.Error("Finish should record elapsed seconds")
	}
}

func TestSnapshotResolved(t *testing.T) {
	if (Snapshot{RevisionID: "r1"}).Resolved() {
		t.Error("Snapshot without URL should not be resolved")
	}
	if !(Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}).Resolved() {
		t.Error("Snapshot with URL should be resolved")
	}
}
