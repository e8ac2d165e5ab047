package user

import "dues-app-go/internal/apperr"

var (
	ErrUserNotFound       = apperr.NotFound("user_not_found", "user not found")
	ErrEmailTaken         = apperr.Conflict("email_taken", "user with this email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("invalid_credentials", "invalid email or password")
	ErrUserInactive       = apperr.Unauthorized("user_inactive", "user account is disabled")
	ErrInvalidRole        = apperr.Validation("invalid_role", "role must be admin, treasurer or member")
	ErrWeakPassword       = apperr.Validation("weak_password", "password must be at least 6 characters")
	ErrInvalidName        = apperr.Validation("invalid_name", "full name must be at least 2 characters")
	ErrInvalidEmail       = apperr.Validation("invalid_email", "valid email is required")
	ErrRoleChangeDenied   = apperr.Forbidden("role_change_denied", "only admins can change roles")
	ErrNoLocalPassword    = apperr.Validation("no_local_password", "account has no local password")
)
