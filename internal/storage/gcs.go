package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSBackend keeps every logical bucket as a prefix inside one Cloud Storage
// bucket.
type GCSBackend struct {
	client *gcs.Client
	bucket string
}

func NewGCSBackend(ctx context.Context, bucket, credentialsFile string) (*GCSBackend, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, ErrNotConfigured
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSBackend{client: client, bucket: bucket}, nil
}

func (b *GCSBackend) Close() error {
	return b.client.Close()
}

func (b *GCSBackend) Put(ctx context.Context, bucket, objectPath string, body io.Reader, size int64, contentType string) (string, error) {
	name := objectName(bucket, objectPath)
	writer := b.client.Bucket(b.bucket).Object(name).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "private, max-age=3600"
	writer.Size = size

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("write gcs object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close gcs writer for %s: %w", name, err)
	}
	return "https://storage.googleapis.com/" + b.bucket + "/" + escapePath(name), nil
}

func (b *GCSBackend) Delete(ctx context.Context, bucket, objectPath string) error {
	err := b.client.Bucket(b.bucket).Object(objectName(bucket, objectPath)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

func (b *GCSBackend) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	root := bucket + "/"
	query := &gcs.Query{Prefix: root, Delimiter: "/"}
	if prefix != "" {
		query.Prefix += prefix + "/"
	}

	objects := make([]Object, 0)
	it := b.client.Bucket(b.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gcs objects: %w", err)
		}

		full := attrs.Name
		if full == "" {
			full = attrs.Prefix
		}
		relative := strings.TrimPrefix(full, root)
		objects = append(objects, Object{
			Name:        strings.TrimSuffix(strings.TrimPrefix(full, query.Prefix), "/"),
			Path:        strings.TrimSuffix(relative, "/"),
			Size:        attrs.Size,
			ContentType: attrs.ContentType,
			UpdatedAt:   attrs.Updated,
		})
	}
	return objects, nil
}

func (b *GCSBackend) SignedURL(_ context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	return b.client.Bucket(b.bucket).SignedURL(objectName(bucket, objectPath), &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
}

func objectName(bucket, objectPath string) string {
	if objectPath == "" {
		return bucket
	}
	return bucket + "/" + objectPath
}
