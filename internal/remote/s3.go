package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the slice of the S3 client the store uses. Kept narrow so tests
// can substitute a stub.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps encrypted snapshots as objects in one S3 bucket
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

// NewS3 builds an S3-backed store using the default AWS credential chain.
// An empty bucket name means sync is not set up and fails with
// ErrNotConfigured.
func NewS3(ctx context.Context, bucket, prefix, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, &Error{Op: "init", Err: ErrNotConfigured}
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &Error{Op: "init", Bucket: bucket, Err: fmt.Errorf("failed to load aws config: %w", err)}
	}
	if region != "" {
		cfg.Region = region
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Upload writes an object, replacing any previous version
func (s *S3Store) Upload(ctx context.Context, name string, data []byte) error {
	key := s.key(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &Error{Op: "upload", Bucket: s.bucket, Key: key, Err: err}
	}

	return nil
}

// Download fetches an object's bytes, mapping a missing key to ErrNotFound
func (s *S3Store) Download(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, &Error{Op: "download", Bucket: s.bucket, Key: key, Err: ErrNotFound}
		}
		return nil, &Error{Op: "download", Bucket: s.bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &Error{Op: "download", Bucket: s.bucket, Key: key, Err: err}
	}

	return data, nil
}
