package snapquery

import (
	"context"

	"github.com/snapquery/snapquery/config"
	"github.com/snapquery/snapquery/console"
	"github.com/snapquery/snapquery/core"
	"github.com/snapquery/snapquery/engine"
	"github.com/snapquery/snapquery/session"
	"github.com/snapquery/snapquery/snapshot"
)

// Open builds a console from cfg. The snapshot source is chosen by
// precedence: a fixed snapshot URL, then an S3 bucket, then a Git
// repository. Nothing is resolved, fetched, or initialized until the
// console's first Execute or Reload.
func Open(cfg config.Config) (*console.Console, error) {
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	s3opts := &snapshot.S3Options{
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
	}
	fetcher := snapshot.NewFetcher(s3opts)
	loader := engine.NewLoader(cfg.ScratchDir)

	init := func(ctx context.Context) (session.Runtime, error) {
		rt, err := loader.Initialize(ctx)
		if err != nil {
			return nil, err
		}
		return engineRuntime{rt}, nil
	}

	return console.New(resolver, cfg.Revision, init, fetcher.Fetch), nil
}

// newResolver picks the snapshot source for cfg.
func newResolver(cfg config.Config) (snapshot.Resolver, error) {
	switch {
	case cfg.SnapshotURL != "":
		return snapshot.StaticResolver{Template: cfg.SnapshotURL}, nil
	case cfg.S3Bucket != "":
		s3opts := &snapshot.S3Options{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
		}
		return snapshot.NewS3Resolver(context.Background(), s3opts, cfg.S3Bucket, cfg.S3Prefix)
	case cfg.GitURL != "":
		return snapshot.NewGitResolver(cfg.GitURL, cfg.GitPath, cfg.ScratchDir), nil
	}
	return nil, core.Errorf(core.KindValidation, "no snapshot source configured")
}

// engineRuntime adapts *engine.Runtime to the session.Runtime
// interface; the concrete Open returns *engine.Handle.
type engineRuntime struct {
	rt *engine.Runtime
}

func (r engineRuntime) Open(data []byte) (session.Handle, error) {
	handle, err := r.rt.Open(data)
	if err != nil {
		return nil, err
	}
	return handle, nil
}
