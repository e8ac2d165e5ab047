package db

import (
	"errors"

	"dues-app-go/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgInvalidTextRep      = "22P02"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
	pgStringTooLong       = "22001"
)

// Translate classifies a driver error. Errors that already carry a category
// pass through untouched.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Database(err)
	}

	details := map[string]string{}
	if pgErr.ConstraintName != "" {
		details["constraint"] = pgErr.ConstraintName
	}
	if pgErr.ColumnName != "" {
		details["column"] = pgErr.ColumnName
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return apperr.Conflict("duplicate_value", "a record with the same value already exists").
			WithDetails(details).Wrap(err)
	case pgForeignKeyViolation:
		return apperr.Validation("invalid_reference", "referenced record does not exist").
			WithDetails(details).Wrap(err)
	case pgNotNullViolation:
		return apperr.Validation("missing_value", "a required value is missing").
			WithDetails(details).Wrap(err)
	case pgInvalidTextRep, pgCheckViolation:
		return apperr.Validation("invalid_value", "a value has an invalid format").
			WithDetails(details).Wrap(err)
	case pgNumericOutOfRange:
		return apperr.Validation("value_out_of_range", "a numeric value is too large").
			WithDetails(details).Wrap(err)
	case pgStringTooLong:
		return apperr.Validation("value_too_long", "a text value is too long").
			WithDetails(details).Wrap(err)
	default:
		return apperr.Database(err)
	}
}

// ConstraintName reports the violated constraint of a translated or raw
// postgres error, or an empty string.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
