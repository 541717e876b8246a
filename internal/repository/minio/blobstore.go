// Package minio stores photo bytes in a MinIO (S3 compatible) bucket.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/msomdec/mediahub/internal/domain"
)

// Options configures the MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string

	// PublicRead attaches an anonymous read policy to the bucket so photo
	// URLs can point straight at MinIO.
	PublicRead bool

	// Attempts and RetryDelay bound how long New waits for MinIO to come up.
	Attempts   int
	RetryDelay time.Duration
}

// BlobStore implements domain.BlobStore on a single bucket.
type BlobStore struct {
	mc     *minio.Client
	bucket string
}

var _ domain.BlobStore = (*BlobStore)(nil)

// New connects to MinIO and makes sure the bucket exists, retrying while
// the server is not reachable yet.
func New(ctx context.Context, opts Options) (*BlobStore, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 5
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	s := &BlobStore{mc: client, bucket: opts.Bucket}

	for attempt := 1; ; attempt++ {
		err = s.ensureBucket(ctx, opts.PublicRead)
		if err == nil {
			return s, nil
		}
		if attempt >= opts.Attempts {
			break
		}
		slog.Warn("minio not ready", "attempt", attempt, "of", opts.Attempts, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}
	return nil, fmt.Errorf("connect to minio after %d attempts: %w", opts.Attempts, err)
}

func (s *BlobStore) ensureBucket(ctx context.Context, publicRead bool) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", s.bucket, err)
		}
		slog.Info("bucket created", "bucket", s.bucket)
	}
	if publicRead {
		if err := s.mc.SetBucketPolicy(ctx, s.bucket, readOnlyPolicy(s.bucket)); err != nil {
			return fmt.Errorf("set bucket policy: %w", err)
		}
	}
	return nil
}

func readOnlyPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.mc.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.classify("get object", key, err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces a missing key.
	info, err := obj.Stat()
	if err != nil {
		return nil, s.classify("stat object", key, err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.classify("read object", key, err)
	}
	return &domain.Blob{Key: key, ContentType: info.ContentType, Data: data}, nil
}

// Delete removes the object. A missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key cannot be empty")
	}
	err := s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("remove object %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *BlobStore) classify(op, key string, err error) error {
	if isNoSuchKey(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s %s: %w: %w", op, key, domain.ErrStorageUnavailable, err)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
