package storage

import (
	"crypto/rand"
	"encoding/hex"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxUploadBytes = 5 * 1024 * 1024

type Policy struct {
	MIMETypes  []string
	Extensions []string
}

var policies = map[string]Policy{
	BucketReports: {
		MIMETypes: []string{
			"application/pdf",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		Extensions: []string{".pdf", ".xls", ".xlsx"},
	},
	BucketExpenseReceipts: {
		MIMETypes:  []string{"image/jpeg", "image/png", "image/gif", "application/pdf"},
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".pdf"},
	},
}

func PolicyFor(bucket string) (Policy, bool) {
	policy, ok := policies[bucket]
	return policy, ok
}

// Validate checks size, extension and sniffed content type, returning the
// detected MIME type.
func Validate(bucket, filename string, data []byte, maxBytes int64) (string, error) {
	policy, ok := PolicyFor(bucket)
	if !ok {
		return "", ErrUnknownBucket
	}
	if len(data) == 0 {
		return "", ErrFileRequired
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if int64(len(data)) > maxBytes {
		return "", ErrFileTooLarge.WithDetails(map[string]any{"maxBytes": maxBytes})
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(policy.Extensions, ext) {
		return "", ErrBadExtension.WithDetails(map[string]any{"extension": ext, "allowed": policy.Extensions})
	}

	detected := mimetype.Detect(data)
	for _, allowed := range policy.MIMETypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", ErrTypeNotAllowed.WithDetails(map[string]any{"mimetype": detected.String(), "allowed": policy.MIMETypes})
}

// ObjectPath builds <folder>/[<expenseID>/]<unixms>_<random><ext>.
func ObjectPath(folder, filename, expenseID string, now time.Time) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "general"
	}
	if strings.Contains(folder, "..") {
		return "", ErrInvalidPath
	}

	parts := []string{folder}
	if expenseID = strings.TrimSpace(expenseID); expenseID != "" {
		if _, err := uuid.Parse(expenseID); err != nil {
			return "", ErrInvalidExpense
		}
		parts = append(parts, expenseID)
	}

	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}
	name := strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix + strings.ToLower(filepath.Ext(filename))
	parts = append(parts, name)
	return path.Join(parts...), nil
}

// CleanPath rejects absolute and parent-relative object paths.
func CleanPath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "/") {
		return "", ErrInvalidPath
	}
	for _, segment := range strings.Split(value, "/") {
		if segment == ".." || segment == "." {
			return "", ErrInvalidPath
		}
	}
	return path.Clean(value), nil
}

func randomSuffix() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
