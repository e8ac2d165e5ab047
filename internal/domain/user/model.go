package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "treasurer"
	RoleMember    Role = "member"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleTreasurer, RoleMember:
		return role, true
	default:
		return "", false
	}
}

// CanManageFinances reports whether the role may mutate roster and ledger data.
func (r Role) CanManageFinances() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null"`
	PasswordHash *string   `gorm:"type:text"`
	FullName     string    `gorm:"not null"`
	Role         Role      `gorm:"type:text;not null"`
	Phone        *string   `gorm:"type:text"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Session struct {
	User  User
	Token string
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	Phone    string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID    string
	ActorRole Role
	FullName  *string
	Phone     *string
	Role      *string
}

type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}
