// Package core provides core types used throughout snapquery.
//
// The package defines fundamental types like Snapshot, QueryStatus,
// ExampleQuery, and the error taxonomy shared by every layer of the
// console.
//
// # Snapshot
//
// A Snapshot is an immutable, URL-addressable database file tied to a
// specific revision:
//
//	snap := core.Snapshot{
//	    URL:        "https://snapshots.example.com/db/r42.duckdb",
//	    RevisionID: "r42",
//	}
//
// # Errors
//
// Every failure the console can produce carries an ErrorKind. Errors are
// created with core.Errorf and recovered with core.KindOf:
//
//	err := core.Errorf(core.KindFetch, "snapshot fetch failed: status 404")
//	if core.KindOf(err) == core.KindFetch {
//	    // retry the reload
//	}
package core
