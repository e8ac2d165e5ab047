package reminders

import "dues-app-go/internal/apperr"

var (
	ErrReminderNotFound = apperr.NotFound("reminder_not_found", "reminder not found")
	ErrAlreadySent      = apperr.Conflict("reminder_already_sent", "reminder has already been sent")
	ErrMessageRequired  = apperr.Validation("message_required", "message is required")
	ErrInvalidStatus    = apperr.Validation("invalid_status", "status must be pending, sent or failed")
	ErrInvalidMemberID  = apperr.Validation("invalid_member_id", "member id must be a valid uuid")
)
