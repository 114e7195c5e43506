package snapshot

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options contains S3 authentication configuration.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
}

// newS3Client creates an S3 client with the given configuration.
func newS3Client(ctx context.Context, opts *S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts != nil && opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	if opts != nil && opts.AccessKey != "" && opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if opts != nil && opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// S3Resolver presigns GET URLs for snapshot objects laid out as
// <prefix>/<revision>.duckdb inside one bucket.
type S3Resolver struct {
	presign *s3.PresignClient
	bucket  string
	prefix  string
	expires time.Duration
}

// NewS3Resolver creates a resolver for the given bucket and key prefix.
func NewS3Resolver(ctx context.Context, opts *S3Options, bucket, prefix string) (*S3Resolver, error) {
	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &S3Resolver{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		prefix:  prefix,
		expires: 15 * time.Minute,
	}, nil
}

func (r *S3Resolver) SnapshotURL(ctx context.Context, revisionID string) (string, error) {
	if revisionID == "" {
		return "", nil
	}

	key := path.Join(r.prefix, revisionID+".duckdb")
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = r.expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign snapshot URL: %w", err)
	}

	return req.URL, nil
}
