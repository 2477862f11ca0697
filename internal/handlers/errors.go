package handlers

import (
	"errors"
	"net/http"

	"workout-planner-api/internal/models"
)

// isValidationError checks if an error is a client-side validation error
func isValidationError(err error) bool {
	return models.IsValidationError(err)
}

// validationMessage returns the client-facing message of a validation error
func validationMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// bodyLimitExceeded reports whether reading the body hit the configured limit, and the limit
func bodyLimitExceeded(err error) (int64, bool) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return maxErr.Limit, true
	}
	return 0, false
}
