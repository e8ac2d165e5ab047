package analytics

import "dues-app-go/internal/apperr"

var (
	ErrInvalidRange      = apperr.Validation("invalid_range", "start date must not be after end date")
	ErrInvalidYear       = apperr.Validation("invalid_year", "year must be between 2000 and 2100")
	ErrInvalidReportType = apperr.Validation("invalid_report_type", "type must be summary or detailed")
)
