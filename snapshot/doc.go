// Package snapshot resolves revision identifiers to fetchable snapshot
// URLs and retrieves the raw database bytes behind them.
//
// A Resolver turns a revision id into a URL; the console treats an empty
// URL as "source unavailable" and never fetches it. Fetcher dispatches on
// the URL scheme: file paths, file://, http(s)://, and s3:// are
// supported. Fetch failures carry core.KindFetch with the HTTP status
// and URL in the message.
package snapshot
