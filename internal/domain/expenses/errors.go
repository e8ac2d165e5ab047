package expenses

import "dues-app-go/internal/apperr"

var (
	ErrExpenseNotFound    = apperr.NotFound("expense_not_found", "expense not found")
	ErrInvalidAmount      = apperr.Validation("invalid_amount", "amount must be greater than zero and at most 9999999999.99")
	ErrCategoryRequired   = apperr.Validation("category_required", "category is required")
	ErrDescriptionMissing = apperr.Validation("description_required", "description is required")
	ErrDateRequired       = apperr.Validation("expense_date_required", "expense date is required")
	ErrInvalidReceiptURL  = apperr.Validation("invalid_receipt_url", "receipt url must be an http(s) url")
)
