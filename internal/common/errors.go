// Package common defines the error taxonomy and small helpers shared by every
// layer of ValutaTrade. Each typed error wraps one of the sentinels below, so
// callers can match the kind with errors.Is and read the details with errors.As.
package common

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyNotFound  = errors.New("currency not found")

	// Environment-level errors.
	ErrAPIRequest    = errors.New("api request error")
	ErrDatabase      = errors.New("database error")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports malformed input for a named field.
type ValidationError struct {
	Field  string
	Detail string
}

func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthenticationError covers a missing session, an unknown user and a wrong
// password alike.
type AuthenticationError struct {
	Detail string
}

func NewAuthenticationError(detail string) *AuthenticationError {
	return &AuthenticationError{Detail: detail}
}

func (e *AuthenticationError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Detail
}

func (e *AuthenticationError) Unwrap() error { return ErrorUnauthorized }

// InsufficientFundsError is returned when a withdrawal exceeds the balance.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
	Code      string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s",
		e.Available.String(), e.Code, e.Required.String(), e.Code)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// CurrencyNotFoundError names the code, or the pair, that could not be served.
type CurrencyNotFoundError struct {
	Code string
}

func NewCurrencyNotFoundError(code string) *CurrencyNotFoundError {
	return &CurrencyNotFoundError{Code: code}
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

func (e *CurrencyNotFoundError) Unwrap() error { return ErrCurrencyNotFound }

// ApiRequestError is how rate providers report any failure: timeout, HTTP
// status, malformed payload.
type ApiRequestError struct {
	Reason string
}

func NewApiRequestError(format string, args ...any) *ApiRequestError {
	return &ApiRequestError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ApiRequestError) Error() string {
	return "external api request failed: " + e.Reason
}

func (e *ApiRequestError) Unwrap() error { return ErrAPIRequest }

// DatabaseError wraps failures of the persistence layer.
type DatabaseError struct {
	Op  string
	Err error
}

func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() []error { return []error{ErrDatabase, e.Err} }

// ConfigurationError wraps invalid or unreadable configuration.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Detail
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
