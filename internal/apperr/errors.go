package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates malformed caller input. It is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced entity does not exist in the store.
// The caller is holding stale data and should refresh before resubmitting.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InsufficientMaterialError indicates a fabric no longer holds enough meters
// to complete a production order.
type InsufficientMaterialError struct {
	FabricID   string
	FabricName string
	RequiredM  float64
	AvailableM float64
}

func (e *InsufficientMaterialError) Error() string {
	return fmt.Sprintf("fabric %s (%s): %.2fm required, %.2fm available",
		e.FabricName, e.FabricID, e.RequiredM, e.AvailableM)
}

// StoreError indicates a transient infrastructure failure. No partial state
// was committed, so retrying with identical input is safe.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store failure: %v", e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// IsDomain reports whether err is one of the typed application errors, as
// opposed to a raw driver or transport failure.
func IsDomain(err error) bool {
	var ve *ValidationError
	var nfe *NotFoundError
	var ime *InsufficientMaterialError
	return errors.As(err, &ve) || errors.As(err, &nfe) || errors.As(err, &ime)
}

// HTTPStatus maps an error to the response code handlers should write.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var nfe *NotFoundError
	var ime *InsufficientMaterialError
	var se *StoreError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nfe):
		return http.StatusNotFound
	case errors.As(err, &ime):
		return http.StatusConflict
	case errors.As(err, &se):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
