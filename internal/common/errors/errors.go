// Package errors provides standardized error handling for the directory service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSheetFetchFailed  ErrorCode = "SHEET_FETCH_FAILED"
	ErrCodeSheetFetchTimeout ErrorCode = "SHEET_FETCH_TIMEOUT"
	ErrCodeSheetEmpty        ErrorCode = "SHEET_EMPTY"

	ErrCodeTenantConfigInvalid ErrorCode = "TENANT_CONFIG_INVALID"

	ErrCodeInvalidSignature       ErrorCode = "INVALID_SIGNATURE"
	ErrCodeMalformedNotification  ErrorCode = "MALFORMED_NOTIFICATION"
	ErrCodeLedgerAppendFailed     ErrorCode = "LEDGER_APPEND_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSheetFetchFailedError creates a retryable fetch error. The caller
// surfaces it as an "unable to load listings" state; no automatic retry.
func NewSheetFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetFetchFailed,
		Message:   "Published CSV endpoint unreachable",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetFetchTimeoutError creates a retryable fetch timeout error.
func NewSheetFetchTimeoutError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetFetchTimeout,
		Message:   "Published CSV fetch timed out",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetEmptyError marks a fetch that returned no usable table.
func NewSheetEmptyError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetEmpty,
		Message:   "Published CSV contains no data rows",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTenantConfigInvalidError creates a non-retryable tenant config error.
// Resolution itself never fails; this only surfaces at registry load time.
func NewTenantConfigInvalidError(path, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTenantConfigInvalid,
		Message:   "Tenant configuration failed schema validation",
		Details:   fmt.Sprintf("file: %s, %s", path, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSignatureError creates a non-retryable webhook signature error.
func NewInvalidSignatureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSignature,
		Message:   "Payment notification signature verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedNotificationError creates a non-retryable webhook parse error.
func NewMalformedNotificationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedNotification,
		Message:   "Payment notification body could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerAppendFailedError creates a retryable ledger error.
func NewLedgerAppendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerAppendFailed,
		Message:   "Payment ledger append failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Owner notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError marks the Redis cache as unreachable. Callers
// fall through to a direct fetch; this never fails a request by itself.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "CSV cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the response status the API returns.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSheetFetchFailed, ErrCodeSheetFetchTimeout:
		return http.StatusBadGateway
	case ErrCodeInvalidSignature, ErrCodeMalformedNotification:
		return http.StatusBadRequest
	case ErrCodeSheetEmpty:
		return http.StatusOK
	case ErrCodeLedgerAppendFailed, ErrCodeNotificationSendFailed,
		ErrCodeDatabaseConnectionFailed, ErrCodeCacheUnavailable,
		ErrCodeTenantConfigInvalid:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether an error carries a retryable code.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}
