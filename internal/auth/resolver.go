package auth

import (
	"context"
	"strings"
)

// Resolver tries each strategy in order and returns the first identity any
// of them accepts.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	active := make([]Strategy, 0, len(strategies))
	for _, strategy := range strategies {
		if strategy != nil {
			active = append(active, strategy)
		}
	}
	return &Resolver{strategies: active}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{Kind: TokenInvalid}, ErrInvalidToken
	}

	for _, strategy := range r.strategies {
		identity, err := strategy.Resolve(ctx, token)
		if err == nil && identity.Kind != TokenInvalid {
			return identity, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return Identity{Kind: TokenInvalid}, ErrInvalidToken
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
