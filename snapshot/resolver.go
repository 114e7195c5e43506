package snapshot

import (
	"context"
	"fmt"
	"strings"
)

// Resolver resolves a revision identifier to a downloadable snapshot
// URL. Returning an empty URL with a nil error means the source is
// currently unavailable; the console surfaces that state instead of
// fetching.
type Resolver interface {
	SnapshotURL(ctx context.Context, revisionID string) (string, error)
}

// StaticResolver substitutes the revision id into a fixed URL template.
// The template's %s placeholder receives the revision, e.g.
// "file:///var/snapshots/%s.duckdb".
type StaticResolver struct {
	Template string
}

func (r StaticResolver) SnapshotURL(ctx context.Context, revisionID string) (string, error) {
	if r.Template == "" || revisionID == "" {
		return "", nil
	}
	if !strings.Contains(r.Template, "%s") {
		return r.Template, nil
	}
	return fmt.Sprintf(r.Template, revisionID), nil
}
