package domain

import (
	"errors"
	"fmt"
)

// FailureCode is the storefront-wide error taxonomy. Backend clients translate
// raw transport errors into one of these; the checkout orchestrator surfaces
// them verbatim, never retrying.
type FailureCode string

const (
	CodeUnauthorized FailureCode = "UNAUTHORIZED"
	CodeNotFound     FailureCode = "NOT_FOUND"
	CodeStockError   FailureCode = "STOCK_ERROR"
	CodeEmptyCart    FailureCode = "EMPTY_CART"
	CodeTimeout      FailureCode = "TIMEOUT"
	CodeUnknown      FailureCode = "UNKNOWN_ERROR"
)

// FailureDetails carries the structured payload the checkout UI renders for
// stock conflicts.
type FailureDetails struct {
	ProductID string `json:"productId,omitempty"`
	Available int    `json:"available,omitempty"`
	Requested int    `json:"requested,omitempty"`
}

// Failure is the terminal state of a failed orchestration attempt, represented
// as data rather than an opaque error string.
type Failure struct {
	Success bool            `json:"success"`
	Code    FailureCode     `json:"code"`
	Message string          `json:"message"`
	Details *FailureDetails `json:"details,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func NewFailure(code FailureCode, message string) *Failure {
	return &Failure{Success: false, Code: code, Message: message}
}

// AsFailure coerces any error into the uniform failure shape. Errors already
// carrying a taxonomy code pass through unchanged.
func AsFailure(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	if err == nil {
		return NewFailure(CodeUnknown, "an unknown error occurred")
	}
	return NewFailure(CodeUnknown, err.Error())
}
