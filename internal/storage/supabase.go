package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dues-app-go/internal/config"
)

const supabaseListLimit = 100

// SupabaseBackend talks to the Supabase Storage REST API with the service
// role key.
type SupabaseBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSupabaseBackend(cfg config.SupabaseConfig) (*SupabaseBackend, error) {
	baseURL := strings.TrimRight(cfg.URL, "/")
	apiKey := cfg.ServiceRoleKey
	if apiKey == "" {
		apiKey = cfg.AnonKey
	}
	if baseURL == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &SupabaseBackend{
		baseURL: baseURL + "/storage/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (b *SupabaseBackend) Put(ctx context.Context, bucket, objectPath string, body io.Reader, size int64, contentType string) (string, error) {
	req, err := b.newRequest(ctx, http.MethodPost, "/object/"+bucket+"/"+escapePath(objectPath), body)
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	if err := b.do(req, nil); err != nil {
		return "", err
	}
	return b.baseURL + "/object/public/" + bucket + "/" + escapePath(objectPath), nil
}

func (b *SupabaseBackend) Delete(ctx context.Context, bucket, objectPath string) error {
	payload, err := json.Marshal(map[string][]string{"prefixes": {objectPath}})
	if err != nil {
		return err
	}
	req, err := b.newRequest(ctx, http.MethodDelete, "/object/"+bucket, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var removed []json.RawMessage
	if err := b.do(req, &removed); err != nil {
		return err
	}
	if len(removed) == 0 {
		return ErrObjectNotFound
	}
	return nil
}

type supabaseObject struct {
	Name      string     `json:"name"`
	ID        *string    `json:"id"`
	UpdatedAt *time.Time `json:"updated_at"`
	Metadata  *struct {
		Size     int64  `json:"size"`
		Mimetype string `json:"mimetype"`
	} `json:"metadata"`
}

func (b *SupabaseBackend) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	payload, err := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  supabaseListLimit,
		"offset": 0,
		"sortBy": map[string]string{"column": "name", "order": "asc"},
	})
	if err != nil {
		return nil, err
	}
	req, err := b.newRequest(ctx, http.MethodPost, "/object/list/"+bucket, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var items []supabaseObject
	if err := b.do(req, &items); err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(items))
	for _, item := range items {
		object := Object{Name: item.Name, Path: joinPrefix(prefix, item.Name)}
		if item.UpdatedAt != nil {
			object.UpdatedAt = *item.UpdatedAt
		}
		if item.Metadata != nil {
			object.Size = item.Metadata.Size
			object.ContentType = item.Metadata.Mimetype
		}
		objects = append(objects, object)
	}
	return objects, nil
}

func (b *SupabaseBackend) SignedURL(ctx context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]int64{"expiresIn": int64(ttl / time.Second)})
	if err != nil {
		return "", err
	}
	req, err := b.newRequest(ctx, http.MethodPost, "/object/sign/"+bucket+"/"+escapePath(objectPath), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := b.do(req, &result); err != nil {
		return "", err
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("supabase storage: empty signed url")
	}
	if strings.HasPrefix(result.SignedURL, "http") {
		return result.SignedURL, nil
	}
	return b.baseURL + "/" + strings.TrimLeft(result.SignedURL, "/"), nil
}

func (b *SupabaseBackend) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("apikey", b.apiKey)
	return req, nil
}

func (b *SupabaseBackend) do(req *http.Request, dst any) error {
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("supabase storage: status %s: %s", strconv.Itoa(resp.StatusCode), strings.TrimSpace(string(msg)))
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func escapePath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
