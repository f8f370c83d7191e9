package utils

import (
	stdErrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/utils/response"
)

// ParseAndValidate decodes the JSON body into dest and validates it. On failure
// the error response has already been written and false is returned.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, errors.BadRequestError("Invalid request body").WithDetail(err.Error()))

		return false
	}

	if err := validate.Struct(dest); err != nil {
		var validationErrs validator.ValidationErrors
		if stdErrors.As(err, &validationErrs) {
			slog.Warn("Validation failed", slog.String("error", validationErrs.Error()))
			response.ValidationError(w, validationErrs)

			return false
		}

		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		response.Error(w, errors.InternalError("Unable to validate request").WithError(err))

		return false
	}

	return true
}

// ParseID reads a positive integer path value.
func ParseID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequestError("Invalid " + key + " format")
	}

	return id, nil
}
