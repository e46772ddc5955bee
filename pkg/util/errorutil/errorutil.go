package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Codes rendered in the error envelope.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Postgres SQLSTATE values caused by bad client input rather than a store outage.
const (
	pgInvalidTextRepresentation = "22P02"
	pgForeignKeyViolation       = "23503"
	pgUniqueViolation           = "23505"
	pgCheckViolation            = "23514"
)

// DomainError is the single error shape surfaced to API callers.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotFound, resource+" not found", http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewInternalError hides cause from callers; it is kept for logging only.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts store and unknown errors into the envelope taxonomy.
// Constraint and input-syntax failures raised by Postgres are client mistakes;
// everything else is an internal error.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, map[string]any{})
	}
	if mapped := fromPgError(err); mapped != nil {
		return mapped
	}
	return NewInternalError(err).(*DomainError)
}

func fromPgError(err error) *DomainError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	var mapped *DomainError
	switch pgErr.Code {
	case pgInvalidTextRepresentation:
		mapped = NewDomainError(CodeValidation, "malformed identifier", http.StatusBadRequest, nil)
	case pgCheckViolation:
		mapped = NewDomainError(CodeValidation, "value out of range", http.StatusBadRequest, nil)
	case pgUniqueViolation:
		mapped = NewDomainError(CodeConflict, "resource already exists", http.StatusConflict, nil)
	case pgForeignKeyViolation:
		mapped = NewDomainError(CodeConflict, "resource is still referenced", http.StatusConflict, nil)
	default:
		return nil
	}
	if pgErr.ConstraintName != "" {
		mapped.Details = map[string]any{"constraint": pgErr.ConstraintName}
	}
	mapped.Err = err
	return mapped
}

// MapError wraps err as a DomainError, keeping existing ones untouched.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsNotFound reports whether err is a missing-row error from the store.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether the store rejected a duplicate key.
func IsUniqueViolation(err error) bool {
	return hasPgCode(err, pgUniqueViolation)
}

// IsStillReferenced reports whether a delete was blocked by a foreign key.
func IsStillReferenced(err error) bool {
	return hasPgCode(err, pgForeignKeyViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
