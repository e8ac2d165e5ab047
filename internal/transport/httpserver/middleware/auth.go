package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dues-app-go/internal/apperr"
	"dues-app-go/internal/auth"
	"dues-app-go/internal/config"
	userdomain "dues-app-go/internal/domain/user"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/pkg/logger"
)

type contextKey int

const (
	userKey contextKey = iota
)

type User struct {
	ID       string
	Email    string
	FullName string
	Role     userdomain.Role
	Token    auth.TokenKind
}

func (u User) CanManageFinances() bool {
	return u.Role.CanManageFinances()
}

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

// AccountResolver loads the local account behind a verified token.
type AccountResolver interface {
	ResolveActive(ctx context.Context, userID, email string) (*userdomain.User, error)
}

type Authenticator struct {
	tokens   TokenResolver
	accounts AccountResolver
	skipAuth bool
	mockUser User
	log      logger.Logger
}

func NewAuthenticator(cfg config.AuthConfig, tokens TokenResolver, accounts AccountResolver, log logger.Logger) *Authenticator {
	role, ok := userdomain.ParseRole(cfg.MockUserRole)
	if !ok {
		role = userdomain.RoleAdmin
	}
	return &Authenticator{
		tokens:   tokens,
		accounts: accounts,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       strings.TrimSpace(cfg.MockUserID),
			Email:    strings.TrimSpace(cfg.MockUserEmail),
			FullName: "Development User",
			Role:     role,
			Token:    auth.TokenLocal,
		},
		log: log,
	}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Authenticate(r)
		if err != nil {
			appErr := apperr.From(err)
			if appErr.Kind == apperr.KindUnauthorized {
				a.log.BusinessError("auth.middleware: rejected", err, "path", r.URL.Path)
				commonhandler.WriteError(w, http.StatusUnauthorized, appErr.Code, appErr.Message)
				return
			}
			a.log.InternalError("auth.middleware: resolve account failed", err, "path", r.URL.Path)
			commonhandler.WriteError(w, appErr.Kind.HTTPStatus(), appErr.Code, appErr.Message)
			return
		}

		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate resolves the request's token and confirms the local account is
// still present and active.
func (a *Authenticator) Authenticate(r *http.Request) (User, error) {
	if a.skipAuth {
		if a.mockUser.ID == "" {
			return User{}, apperr.Internal(errors.New("auth mock user id not configured"))
		}
		return a.mockUser, nil
	}

	token, ok := requestToken(r)
	if !ok {
		return User{}, apperr.Unauthorized("missing_token", "Access token required")
	}

	identity, err := a.tokens.Resolve(r.Context(), token)
	if err != nil {
		return User{}, err
	}

	account, err := a.accounts.ResolveActive(r.Context(), identity.UserID, identity.LinkEmail())
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) || errors.Is(err, userdomain.ErrUserInactive) {
			return User{}, auth.ErrInvalidToken.Wrap(err)
		}
		return User{}, err
	}

	return User{
		ID:       account.ID,
		Email:    account.Email,
		FullName: account.FullName,
		Role:     account.Role,
		Token:    identity.Kind,
	}, nil
}

// requestToken reads the bearer header, falling back to the token query
// parameter used by websocket clients.
func requestToken(r *http.Request) (string, bool) {
	if token, ok := auth.BearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	return token, token != ""
}

// RequireRole rejects users whose role is not listed.
func RequireRole(roles ...userdomain.Role) func(http.Handler) http.Handler {
	allowed := make(map[userdomain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				commonhandler.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				commonhandler.WriteError(w, http.StatusForbidden, "insufficient_permissions", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireFinanceRole admits admins and treasurers.
func RequireFinanceRole() func(http.Handler) http.Handler {
	return RequireRole(userdomain.RoleAdmin, userdomain.RoleTreasurer)
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}
