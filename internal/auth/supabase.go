package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dues-app-go/internal/config"
)

type supabaseUserResponse struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *string                `json:"email_confirmed_at"`
	Sub              string                 `json:"sub"`
	UserMetadata     map[string]interface{} `json:"user_metadata"`
	User             struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

// SupabaseStrategy asks the hosted identity provider who owns the token.
type SupabaseStrategy struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSupabaseStrategy(cfg config.SupabaseConfig) *SupabaseStrategy {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	apiKey := cfg.AnonKey
	if apiKey == "" {
		apiKey = cfg.ServiceRoleKey
	}

	return &SupabaseStrategy{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SupabaseStrategy) Name() string {
	return "supabase"
}

func (s *SupabaseStrategy) Configured() bool {
	return s.baseURL != "" && s.apiKey != ""
}

func (s *SupabaseStrategy) Resolve(ctx context.Context, token string) (Identity, error) {
	invalid := Identity{Kind: TokenInvalid}
	if !s.Configured() {
		return invalid, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return invalid, ErrInvalidToken.Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return invalid, ErrInvalidToken.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return invalid, ErrInvalidToken.Wrap(fmt.Errorf("identity provider status %d", resp.StatusCode))
	}

	var payload supabaseUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return invalid, ErrInvalidToken.Wrap(err)
	}

	userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if userID == "" {
		return invalid, ErrInvalidToken
	}

	return Identity{
		UserID:        userID,
		Email:         payload.Email,
		Name:          firstNonEmpty(stringFromMap(payload.UserMetadata, "full_name"), stringFromMap(payload.UserMetadata, "name")),
		Kind:          TokenExternal,
		EmailVerified: payload.EmailConfirmedAt != nil && strings.TrimSpace(*payload.EmailConfirmedAt) != "",
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}
