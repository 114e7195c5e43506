package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/snapquery/snapquery/core"
)

// GitResolver serves snapshots out of a git repository that tracks the
// database file. A revision id is resolved the way git would resolve
// it: tag, branch, or commit hash. The file blob at that commit is
// materialized into the scratch directory and addressed with a file://
// URL, so every revision stays an immutable, URL-addressable snapshot.
type GitResolver struct {
	url     string // remote URL or local repository path
	file    string // path of the database file within the repository
	scratch string

	mu      sync.Mutex
	repo    *git.Repository
	spooled string // last materialized file, removed when superseded
}

// NewGitResolver creates a resolver over the repository at url tracking
// the database file at filePath. An empty scratchDir falls back to the
// OS temp directory.
func NewGitResolver(url, filePath, scratchDir string) *GitResolver {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &GitResolver{url: url, file: filePath, scratch: scratchDir}
}

func (r *GitResolver) SnapshotURL(ctx context.Context, revisionID string) (string, error) {
	if revisionID == "" {
		return "", nil
	}

	repo, err := r.open(ctx)
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "snapshot repository unreachable: %s: %v", r.url, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revisionID))
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "unknown snapshot revision %q: %v", revisionID, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "snapshot revision %q has no commit: %v", revisionID, err)
	}

	blob, err := commit.File(r.file)
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "snapshot file %s missing at revision %q", r.file, revisionID)
	}

	reader, err := blob.Reader()
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "failed to read snapshot at revision %q: %v", revisionID, err)
	}
	defer reader.Close()

	// Each materialization gets its own temp file, so concurrent
	// resolvers spooling the same revision never collide. The previous
	// file is removed once superseded; the most recent one lives until
	// the next call or until the scratch directory is cleaned.
	out, err := os.CreateTemp(r.scratch, fmt.Sprintf("snapquery-%s-*.duckdb", sanitizeRevision(revisionID)))
	if err != nil {
		return "", core.WrapError(core.KindFetch, err, "failed to materialize snapshot: %v", err)
	}
	local := out.Name()
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(local)
		return "", core.WrapError(core.KindFetch, err, "failed to materialize snapshot: %v", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(local)
		return "", core.WrapError(core.KindFetch, err, "failed to materialize snapshot: %v", err)
	}

	r.mu.Lock()
	previous := r.spooled
	r.spooled = local
	r.mu.Unlock()
	if previous != "" {
		os.Remove(previous)
	}

	return "file://" + filepath.ToSlash(local), nil
}

// open clones the snapshot repository into memory on first use.
func (r *GitResolver) open(ctx context.Context) (*git.Repository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo != nil {
		return r.repo, nil
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), &git.CloneOptions{
		URL: r.url,
	})
	if err != nil {
		return nil, err
	}

	r.repo = repo
	return repo, nil
}

// sanitizeRevision keeps scratch file names filesystem-safe.
func sanitizeRevision(revision string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			return c
		default:
			return '_'
		}
	}, revision)
}
