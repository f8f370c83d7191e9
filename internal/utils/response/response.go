package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/errors"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJson(w, statusCode, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error renders err. Anything that is not an AppError is reported as an opaque 500.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewAppError(errors.ErrCodeInternal, "An unexpected error occurred", http.StatusInternalServerError)
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(appErr.RetryAfter.Seconds())))
	}

	_ = WriteJson(w, appErr.StatusCode, APIResponse{Success: false, Error: body})
}

// fieldMessages maps validator tags to a message taking the field name and the tag parameter.
var fieldMessages = map[string]string{
	"required":    "Field %s is required%.0s",
	"required_if": "Field %s is required when %s",
	"email":       "Field %s must be a valid email address%.0s",
	"oneof":       "Field %s must be one of: %s",
	"min":         "Field %s must be at least %s",
	"max":         "Field %s must be at most %s",
	"gt":          "Field %s must be greater than %s",
	"startswith":  "Field %s must start with %s",
}

func fieldMessage(fe validator.FieldError) string {
	if format, ok := fieldMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}

	return fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
}

// ValidationError renders one message per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	_ = WriteJson(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    errors.ErrCodeValidation,
			Message: "Validation failed",
			Details: details,
		},
	})
}
