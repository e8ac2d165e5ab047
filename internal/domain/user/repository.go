package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id string, updates ProfileUpdates) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type ProfileUpdates struct {
	FullName *string
	Phone    *string
	Role     *Role
}
