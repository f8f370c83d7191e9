package errors

import (
	"errors"
	"net/http"
	"time"
)

const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeThirdPartyError  = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodePaymentFailed    = "PAYMENT_FAILED"
	ErrCodePaymentNotRecord = "PAYMENT_NOT_RECORDED"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
)

// AppError is an error that knows how it should be rendered to API clients.
// Message is safe to show; Err is only logged.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	// RetryAfter is sent back as the Retry-After header when set.
	RetryAfter time.Duration
	Err        error
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	e.RetryAfter = d
	return e
}

// IsAppError finds the first AppError in err's chain.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

// ThirdPartyError covers Stripe, the identity provider and Redis failures.
func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

// PaymentError reports a charge the processor did not complete.
func PaymentError(message string) *AppError {
	return NewAppError(ErrCodePaymentFailed, message, http.StatusPaymentRequired)
}

// PaymentNotRecordedError is returned once money has moved but the order could not be stored.
func PaymentNotRecordedError(message string) *AppError {
	return NewAppError(ErrCodePaymentNotRecord, message, http.StatusInternalServerError)
}

func InvalidSignatureError(message string) *AppError {
	return NewAppError(ErrCodeInvalidSignature, message, http.StatusBadRequest)
}
