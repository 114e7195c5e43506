// Package query executes user SQL against a database session and
// normalizes every outcome into a Result.
//
// A Result is one of three shapes:
//   - Rows: a projection's column names and row tuples
//   - Ack: a mutation or DDL statement that produced no rows
//   - Failure: a classified error with a stable, user-facing message
//
// The Runner drives the request lifecycle: validate, lazily load the
// session, classify the statement by its leading keyword, execute, map
// engine errors through the classification table, and finalize the
// shared QueryStatus. The package also carries the curated example
// query library and the table/records projections of a Result.
package query
