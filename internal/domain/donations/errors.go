package donations

import "dues-app-go/internal/apperr"

var (
	ErrDonationNotFound  = apperr.NotFound("donation_not_found", "donation not found")
	ErrInvalidAmount     = apperr.Validation("invalid_amount", "amount must be greater than zero and at most 9999999999.99")
	ErrInvalidType       = apperr.Validation("invalid_donation_type", "donation type must be tithe, offering, special or other")
	ErrInvalidMethod     = apperr.Validation("invalid_payment_method", "payment method must be cash, mobile_money or bank_transfer")
	ErrDonorNameRequired = apperr.Validation("donor_name_required", "donor name is required")
	ErrInvalidMemberID   = apperr.Validation("invalid_member_id", "member id must be a valid uuid")
)
