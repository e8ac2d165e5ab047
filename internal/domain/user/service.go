package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

const minPasswordLength = 6

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID, email, role string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	fullName := strings.TrimSpace(input.FullName)
	if len(fullName) < 2 {
		return nil, ErrInvalidName
	}

	role := RoleAdmin
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := ParseRole(input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		FullName:     fullName,
		Role:         role,
		Phone:        optionalString(input.Phone),
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.session(user)
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(*user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(*user)
}

func (s *Service) Refresh(ctx context.Context, userID string) (*Session, error) {
	user, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.session(*user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) GetActive(ctx context.Context, userID string) (*User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// ResolveActive finds the local account behind an authenticated identity.
// Lookup is by id first and falls back to email, so accounts created by the
// external auth service can be linked to a local row by address. Callers pass
// an empty email when the address is not verified.
func (s *Service) ResolveActive(ctx context.Context, userID, email string) (*User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		normalized, emailErr := normalizeEmail(email)
		if emailErr != nil {
			return nil, ErrUserNotFound
		}
		user, err = s.repo.GetByEmail(ctx, normalized)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	updates := ProfileUpdates{}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if len(name) < 2 {
			return nil, ErrInvalidName
		}
		updates.FullName = &name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		updates.Phone = &phone
	}
	if input.Role != nil {
		role, ok := ParseRole(*input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		if input.ActorRole != RoleAdmin {
			return nil, ErrRoleChangeDenied
		}
		updates.Role = &role
	}

	if updates.FullName == nil && updates.Phone == nil && updates.Role == nil {
		return s.repo.GetByID(ctx, input.UserID)
	}

	return s.repo.UpdateProfile(ctx, input.UserID, updates)
}

func (s *Service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.GetActive(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return ErrNoLocalPassword
	}
	if err := s.hasher.Compare(*user.PasswordHash, input.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, user.ID, hash)
}

func (s *Service) session(user User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
