// Package engine embeds the DuckDB runtime behind the console's loader
// and handle types.
//
// The runtime is initialized at most once per process. Initialize is
// single-flight: concurrent callers share one in-flight load, a failed
// load is surfaced to every waiter, and the loader resets so a later
// call may retry.
//
// A Runtime opens raw snapshot bytes into a Handle by spooling them to a
// scratch file the driver can open. The Handle owns that file and the
// underlying database; Close releases both and is safe to call twice.
package engine
