package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dues-app-go/internal/config"
	userdomain "dues-app-go/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	token, err := issuer.Issue("user-1", "a@example.com", "treasurer")
	require.NoError(t, err)

	identity, err := NewLocalStrategy(issuer).Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, TokenLocal, identity.Kind)
	require.Equal(t, "user-1", identity.UserID)
	require.Equal(t, "treasurer", identity.Role)
}

func TestJWTIssuerRejectsExpired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.Issue("user-1", "a@example.com", "admin")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuerRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTIssuer("one", time.Hour).Issue("user-1", "", "admin")
	require.NoError(t, err)

	_, err = NewJWTIssuer("two", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuerRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSupabaseStrategy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "anon", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"ext-1","email":"b@example.com","user_metadata":{"full_name":"Ama"}}`))
	}))
	defer server.Close()

	strategy := NewSupabaseStrategy(config.SupabaseConfig{URL: server.URL + "/", AnonKey: "anon"})

	identity, err := strategy.Resolve(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, TokenExternal, identity.Kind)
	require.Equal(t, "ext-1", identity.UserID)
	require.Equal(t, "Ama", identity.Name)
	require.False(t, identity.EmailVerified)
	require.Empty(t, identity.LinkEmail())

	identity, err = strategy.Resolve(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Equal(t, TokenInvalid, identity.Kind)
}

func TestSupabaseStrategyConfirmedEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ext-2","email":"c@example.com","email_confirmed_at":"2026-01-05T10:00:00Z"}`))
	}))
	defer server.Close()

	identity, err := NewSupabaseStrategy(config.SupabaseConfig{URL: server.URL, AnonKey: "anon"}).Resolve(context.Background(), "tok")
	require.NoError(t, err)
	require.True(t, identity.EmailVerified)
	require.Equal(t, "c@example.com", identity.LinkEmail())
}

func TestIdentityLinkEmail(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{name: "local", identity: Identity{Email: "a@example.com", Kind: TokenLocal}, want: "a@example.com"},
		{name: "external confirmed", identity: Identity{Email: "a@example.com", Kind: TokenExternal, EmailVerified: true}, want: "a@example.com"},
		{name: "external unconfirmed", identity: Identity{Email: "a@example.com", Kind: TokenExternal}, want: ""},
		{name: "invalid", identity: Identity{Email: "a@example.com", Kind: TokenInvalid, EmailVerified: true}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.identity.LinkEmail())
		})
	}
}

func TestSupabaseStrategyUnconfigured(t *testing.T) {
	_, err := NewSupabaseStrategy(config.SupabaseConfig{}).Resolve(context.Background(), "x")
	require.ErrorIs(t, err, ErrInvalidToken)
}

type stubStrategy struct {
	identity Identity
	err      error
	calls    int
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Resolve(context.Context, string) (Identity, error) {
	s.calls++
	return s.identity, s.err
}

func TestResolverOrder(t *testing.T) {
	failing := &stubStrategy{identity: Identity{Kind: TokenInvalid}, err: errors.New("nope")}
	external := &stubStrategy{identity: Identity{UserID: "ext", Kind: TokenExternal}}
	never := &stubStrategy{identity: Identity{UserID: "late", Kind: TokenLocal}}

	identity, err := NewResolver(failing, external, never).Resolve(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "ext", identity.UserID)
	require.Equal(t, 1, failing.calls)
	require.Equal(t, 0, never.calls)
}

func TestResolverAllFail(t *testing.T) {
	failing := &stubStrategy{identity: Identity{Kind: TokenInvalid}, err: errors.New("nope")}

	identity, err := NewResolver(failing, nil).Resolve(context.Background(), "tok")
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Equal(t, TokenInvalid, identity.Kind)

	_, err = NewResolver(failing).Resolve(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Equal(t, 1, failing.calls)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", token)

	_, ok = BearerToken("Basic abc")
	require.False(t, ok)
	_, ok = BearerToken("Bearer")
	require.False(t, ok)
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, "secret1"))
	require.ErrorIs(t, hasher.Compare(hash, "wrong"), userdomain.ErrInvalidCredentials)

	_, err = hasher.Hash("123")
	require.ErrorIs(t, err, userdomain.ErrWeakPassword)
}
