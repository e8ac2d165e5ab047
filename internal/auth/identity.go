package auth

import (
	"context"

	"dues-app-go/internal/apperr"
)

type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenLocal
	TokenExternal
)

func (k TokenKind) String() string {
	switch k {
	case TokenLocal:
		return "local"
	case TokenExternal:
		return "external"
	default:
		return "invalid"
	}
}

var ErrInvalidToken = apperr.Unauthorized("invalid_token", "invalid or expired token")

// Identity is what a bearer token proves about its holder before the local
// user row is consulted.
type Identity struct {
	UserID        string
	Email         string
	Name          string
	Role          string
	Kind          TokenKind
	EmailVerified bool
}

// LinkEmail returns the address that may be used to find the local account
// when no row matches UserID. External identities qualify only once the
// provider has confirmed the address.
func (i Identity) LinkEmail() string {
	switch {
	case i.Kind == TokenLocal:
		return i.Email
	case i.Kind == TokenExternal && i.EmailVerified:
		return i.Email
	default:
		return ""
	}
}

type Strategy interface {
	Name() string
	Resolve(ctx context.Context, token string) (Identity, error)
}
