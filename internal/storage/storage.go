package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"dues-app-go/internal/apperr"
	"dues-app-go/internal/config"
)

const (
	BucketReports         = "reports"
	BucketExpenseReceipts = "expense-receipts"
)

var (
	ErrUnknownBucket  = apperr.Validation("invalid_bucket", "unknown storage bucket")
	ErrFileRequired   = apperr.Validation("file_required", "no file provided")
	ErrFileTooLarge   = apperr.Validation("file_too_large", "file exceeds the upload size limit")
	ErrTypeNotAllowed = apperr.Validation("file_type_not_allowed", "file type is not allowed for this bucket")
	ErrBadExtension   = apperr.Validation("file_extension_not_allowed", "file extension is not allowed for this bucket")
	ErrInvalidPath    = apperr.Validation("invalid_path", "file path is required and must be relative")
	ErrInvalidExpense = apperr.Validation("invalid_expense_id", "valid expense id required")
	ErrInvalidExpiry  = apperr.Validation("invalid_expiry", "expiresIn must be between 1 and 604800 seconds")
	ErrObjectNotFound = apperr.NotFound("file_not_found", "file not found")
	ErrNotConfigured  = apperr.New(apperr.KindInternal, "storage_not_configured", "storage backend not configured")
)

type Object struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Backend stores objects under a logical bucket name.
type Backend interface {
	Put(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	List(ctx context.Context, bucket, prefix string) ([]Object, error)
	SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

// NewBackend picks the configured provider.
func NewBackend(ctx context.Context, cfg config.StorageConfig, supabase config.SupabaseConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gcs":
		backend, err := NewGCSBackend(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "", "supabase":
		backend, err := NewSupabaseBackend(supabase)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// Unavailable is a backend that fails every call with ErrNotConfigured. It
// keeps the API up when no provider credentials are present.
func Unavailable() Backend {
	return unavailableBackend{}
}

type unavailableBackend struct{}

func (unavailableBackend) Put(context.Context, string, string, io.Reader, int64, string) (string, error) {
	return "", ErrNotConfigured
}

func (unavailableBackend) Delete(context.Context, string, string) error {
	return ErrNotConfigured
}

func (unavailableBackend) List(context.Context, string, string) ([]Object, error) {
	return nil, ErrNotConfigured
}

func (unavailableBackend) SignedURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}
