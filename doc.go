// Package snapquery provides a remote-snapshot SQL query console.
//
// A snapquery console binds to one immutable database snapshot, fetched
// by revision from a remote source (a fixed URL, an S3 bucket, or a Git
// repository), loads it into an embedded SQL engine, and executes
// arbitrary SQL against it. Results are normalized into rows, an
// acknowledgement, or a classified failure; nothing escapes to the host
// as a panic or uncaught error.
//
// # Quick Start
//
// Build a console from environment configuration:
//
//	cfg := config.Load()
//	c, _ := snapquery.Open(cfg)
//	defer c.Close()
//
//	c.SetQueryText("SELECT * FROM users")
//	result := c.Execute(context.Background())
//
//	columns, rows := query.Table(result)
//
// The first Execute resolves and fetches the snapshot; Reload discards
// the loaded snapshot and fetches it again, and Use rebinds the console
// to another revision.
package snapquery
