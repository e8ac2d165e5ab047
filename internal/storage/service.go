package storage

import (
	"bytes"
	"context"
	"strings"
	"time"
)

const (
	DefaultSignedURLTTL = time.Hour
	maxSignedURLTTL     = 7 * 24 * time.Hour
)

type UploadInput struct {
	Bucket    string
	Filename  string
	Data      []byte
	Folder    string
	ExpenseID string
}

type UploadResult struct {
	URL      string
	Path     string
	Size     int64
	MimeType string
}

type Service struct {
	backend  Backend
	maxBytes int64
	now      func() time.Time
}

func NewService(backend Backend, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{backend: backend, maxBytes: maxBytes, now: time.Now}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

func (s *Service) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	mimeType, err := Validate(input.Bucket, input.Filename, input.Data, s.maxBytes)
	if err != nil {
		return UploadResult{}, err
	}

	objectPath, err := ObjectPath(input.Folder, input.Filename, input.ExpenseID, s.now())
	if err != nil {
		return UploadResult{}, err
	}

	url, err := s.backend.Put(ctx, input.Bucket, objectPath, bytes.NewReader(input.Data), int64(len(input.Data)), mimeType)
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		URL:      url,
		Path:     objectPath,
		Size:     int64(len(input.Data)),
		MimeType: mimeType,
	}, nil
}

func (s *Service) List(ctx context.Context, bucket, folder string) ([]Object, error) {
	if _, ok := PolicyFor(bucket); !ok {
		return nil, ErrUnknownBucket
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if strings.Contains(folder, "..") {
		return nil, ErrInvalidPath
	}
	objects, err := s.backend.List(ctx, bucket, folder)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []Object{}
	}
	return objects, nil
}

func (s *Service) Delete(ctx context.Context, bucket, objectPath string) error {
	if _, ok := PolicyFor(bucket); !ok {
		return ErrUnknownBucket
	}
	cleaned, err := CleanPath(objectPath)
	if err != nil {
		return err
	}
	return s.backend.Delete(ctx, bucket, cleaned)
}

// SignedURL defaults to a one hour expiry when ttl is zero.
func (s *Service) SignedURL(ctx context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	if _, ok := PolicyFor(bucket); !ok {
		return "", ErrUnknownBucket
	}
	cleaned, err := CleanPath(objectPath)
	if err != nil {
		return "", err
	}
	if ttl == 0 {
		ttl = DefaultSignedURLTTL
	}
	if ttl < time.Second || ttl > maxSignedURLTTL {
		return "", ErrInvalidExpiry
	}
	return s.backend.SignedURL(ctx, bucket, cleaned, ttl)
}
