package member

import "dues-app-go/internal/apperr"

var (
	ErrMemberNotFound   = apperr.NotFound("member_not_found", "member not found")
	ErrDuplicateEmail   = apperr.Conflict("duplicate_email", "member with this email already exists")
	ErrDuplicatePhone   = apperr.Conflict("duplicate_phone", "member with this phone already exists")
	ErrInvalidName      = apperr.Validation("invalid_name", "name must be at least 2 characters")
	ErrInvalidEmail     = apperr.Validation("invalid_email", "valid email is required")
	ErrInvalidPhone     = apperr.Validation("invalid_phone", "valid phone number is required")
	ErrInvalidStatus    = apperr.Validation("invalid_status", "status must be active, inactive or suspended")
	ErrInvalidMonth     = apperr.Validation("invalid_month", "each month must be in YYYY-MM format")
	ErrNoMonths         = apperr.Validation("months_required", "at least one month is required")
	ErrInvalidMemberRef = apperr.Validation("invalid_member_id", "member id must be a valid uuid")
)
