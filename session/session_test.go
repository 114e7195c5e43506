package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/snapquery/snapquery/core"
	"github.com/snapquery/snapquery/engine"
)

type fakeHandle struct {
	closed int
	result *engine.ResultSet
}

func (h *fakeHandle) Query(query string) (*engine.ResultSet, error) {
	return h.result, nil
}

func (h *fakeHandle) Run(query string) error { return nil }

func (h *fakeHandle) Close() error {
	h.closed++
	return nil
}

type fakeRuntime struct {
	openErr error
	opened  []*fakeHandle
}

func (r *fakeRuntime) Open(data []byte) (Handle, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	h := &fakeHandle{result: &engine.ResultSet{Columns: []string{"1"}, Rows: [][]interface{}{{int32(1)}}}}
	r.opened = append(r.opened, h)
	return h, nil
}

func fakeBackend(rt *fakeRuntime, fetchErr error) (InitFunc, FetchFunc) {
	init := func(ctx context.Context) (Runtime, error) { return rt, nil }
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return []byte("db-bytes"), nil
	}
	return init, fetch
}

func TestSessionLoadAndQuery(t *testing.T) {
	rt := &fakeRuntime{}
	init, fetch := fakeBackend(rt, nil)
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	if sess.Loaded() {
		t.Fatal("New session should be unloaded")
	}

	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !sess.Loaded() {
		t.Fatal("Session should be loaded")
	}

	result, err := sess.Query("SELECT 1")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result.Columns) != 1 || result.Columns[0] != "1" {
		t.Errorf("Unexpected columns: %v", result.Columns)
	}
}

func TestSessionLoadUnresolvedSnapshot(t *testing.T) {
	rt := &fakeRuntime{}
	init, fetch := fakeBackend(rt, nil)
	sess := New(core.Snapshot{RevisionID: "r1"}, init, fetch)

	err := sess.Load(context.Background())
	if err == nil {
		t.Fatal("Expected unresolved snapshot to fail")
	}
	if core.KindOf(err) != core.KindSession {
		t.Errorf("Expected KindSession, got %v", core.KindOf(err))
	}
	if !strings.Contains(err.Error(), "source unavailable") {
		t.Errorf("Expected source unavailable message, got %q", err.Error())
	}
	if sess.Loaded() {
		t.Error("Session should stay unloaded")
	}
}

func TestSessionLoadFetchError(t *testing.T) {
	rt := &fakeRuntime{}
	init, fetch := fakeBackend(rt, core.Errorf(core.KindFetch, "snapshot fetch failed: status 404 for file:///tmp/r1.duckdb"))
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	err := sess.Load(context.Background())
	if err == nil {
		t.Fatal("Expected fetch failure")
	}
	if core.KindOf(err) != core.KindFetch {
		t.Errorf("Expected KindFetch, got %v", core.KindOf(err))
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 in message, got %q", err.Error())
	}
	if sess.Loaded() {
		t.Error("Session should stay unloaded after fetch failure")
	}
}

func TestSessionLoadCorruptBytes(t *testing.T) {
	rt := &fakeRuntime{openErr: errors.New("not a database file")}
	init, fetch := fakeBackend(rt, nil)
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	err := sess.Load(context.Background())
	if err == nil {
		t.Fatal("Expected load failure")
	}
	if core.KindOf(err) != core.KindLoad {
		t.Errorf("Expected KindLoad, got %v", core.KindOf(err))
	}
}

func TestSessionReloadReleasesPreviousHandle(t *testing.T) {
	rt := &fakeRuntime{}
	init, fetch := fakeBackend(rt, nil)
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("First load failed: %v", err)
	}
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("Second load failed: %v", err)
	}

	if len(rt.opened) != 2 {
		t.Fatalf("Expected 2 handles opened, got %d", len(rt.opened))
	}
	if rt.opened[0].closed != 1 {
		t.Error("First handle should be released on reload")
	}
	if rt.opened[1].closed != 0 {
		t.Error("Second handle should still be live")
	}
}

func TestSessionFailedReloadReleasesPreviousHandle(t *testing.T) {
	rt := &fakeRuntime{}
	init, _ := fakeBackend(rt, nil)

	failNext := false
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		if failNext {
			return nil, core.Errorf(core.KindFetch, "snapshot fetch failed: status 503 for %s", url)
		}
		return []byte("db-bytes"), nil
	}
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("First load failed: %v", err)
	}

	failNext = true
	if err := sess.Load(context.Background()); err == nil {
		t.Fatal("Expected reload to fail")
	}

	if rt.opened[0].closed != 1 {
		t.Error("Previous handle should be released even when the reload fails")
	}
	if sess.Loaded() {
		t.Error("Session should be unloaded after failed reload")
	}
}

func TestSessionReleaseIdempotent(t *testing.T) {
	rt := &fakeRuntime{}
	init, fetch := fakeBackend(rt, nil)
	sess := New(core.Snapshot{URL: "file:///tmp/r1.duckdb", RevisionID: "r1"}, init, fetch)

	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sess.Release()
	sess.Release()

	if rt.opened[0].closed != 1 {
		t.Errorf("Expected exactly one close, got %d", rt.opened[0].closed)
	}
	if sess.Loaded() {
		t.Error("Session should be unloaded after Release")
	}

	if _, err := sess.Query("SELECT 1"); core.KindOf(err) != core.KindSession {
		t.Error("Query after Release should fail with KindSession")
	}
}
