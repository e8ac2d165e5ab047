package payment

import "dues-app-go/internal/apperr"

var (
	ErrPaymentNotFound = apperr.NotFound("payment_not_found", "payment not found")
	ErrInvalidAmount   = apperr.Validation("invalid_amount", "amount must be greater than zero and at most 9999999999.99")
	ErrInvalidMethod   = apperr.Validation("invalid_method", "method must be cash, mobile_money or bank_transfer")
	ErrInvalidMemberID = apperr.Validation("invalid_member_id", "member id must be a valid uuid")
	ErrTotalPaidLimit  = apperr.Validation("total_paid_limit", "payment would push the member's total paid past the supported maximum")
)
