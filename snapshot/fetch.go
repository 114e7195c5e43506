package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/snapquery/snapquery/core"
)

// urlScheme represents the scheme of a snapshot URL.
type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local" // no scheme, local path
)

// detectScheme detects the URL scheme from a path string.
func detectScheme(path string) urlScheme {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lowerPath, "s3://"):
		return schemeS3
	case strings.HasPrefix(lowerPath, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lowerPath, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lowerPath, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// Fetcher retrieves snapshot bytes from local paths, HTTP(S), and S3.
// Every failure it returns carries core.KindFetch.
type Fetcher struct {
	client *http.Client
	s3opts *S3Options
}

// NewFetcher creates a fetcher. s3opts may be nil when no s3:// URLs are
// expected.
func NewFetcher(s3opts *S3Options) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 5 * time.Minute, // generous timeout for large snapshots
		},
		s3opts: s3opts,
	}
}

// Fetch downloads the snapshot at url into memory.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	switch detectScheme(url) {
	case schemeLocal, schemeFile:
		localPath := strings.TrimPrefix(url, "file://")
		data, err := osReadFile(localPath)
		if err != nil {
			return nil, core.WrapError(core.KindFetch, err, "snapshot unreachable: %s: %v", url, err)
		}
		return data, nil

	case schemeHTTP, schemeHTTPS:
		return f.fetchHTTP(ctx, url)

	case schemeS3:
		return f.fetchS3(ctx, url)

	default:
		return nil, core.Errorf(core.KindFetch, "unsupported snapshot URL scheme: %s", url)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "invalid snapshot URL %s: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "snapshot unreachable: %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.Errorf(core.KindFetch, "snapshot fetch failed: status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "snapshot download interrupted: %s: %v", url, err)
	}
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, url string) ([]byte, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "invalid snapshot URL %s", url)
	}

	client, err := newS3Client(ctx, f.s3opts)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "snapshot unreachable: %s: %v", url, err)
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "snapshot unreachable: %s: %v", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.WrapError(core.KindFetch, err, "snapshot download interrupted: %s: %v", url, err)
	}
	return data, nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts.
func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// osReadFile wraps os.ReadFile - used to allow the function to be swapped in tests.
var osReadFile = func(path string) ([]byte, error) {
	return os.ReadFile(path)
}
