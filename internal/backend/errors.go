package backend

import (
	"errors"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
)

// mapError translates transport errors into the storefront failure taxonomy:
// 401/403 -> UNAUTHORIZED, 404 -> NOT_FOUND, 400/409 -> STOCK_ERROR (conflict
// or validation, e.g. insufficient stock or an already-confirmed cart),
// transport deadline -> TIMEOUT, anything else -> UNKNOWN_ERROR.
func mapError(err error) *domain.Failure {
	var failure *domain.Failure
	if errors.As(err, &failure) {
		return failure
	}

	if errors.Is(err, httpx.ErrTimeout) {
		return domain.NewFailure(domain.CodeTimeout, err.Error())
	}

	var httpErr *httpx.HTTPError
	if errors.As(err, &httpErr) {
		var code domain.FailureCode
		switch httpErr.Status {
		case 401, 403:
			code = domain.CodeUnauthorized
		case 404:
			code = domain.CodeNotFound
		case 400, 409:
			code = domain.CodeStockError
		default:
			code = domain.CodeUnknown
		}

		mapped := domain.NewFailure(code, httpErr.Message())
		if code == domain.CodeStockError {
			mapped.Details = stockDetails(httpErr.Body)
		}
		return mapped
	}

	return domain.NewFailure(domain.CodeUnknown, err.Error())
}

// stockDetails pulls the structured conflict payload out of the response body
// when the backend supplies one.
func stockDetails(body map[string]any) *domain.FailureDetails {
	raw, ok := body["details"].(map[string]any)
	if !ok {
		return nil
	}

	details := &domain.FailureDetails{}
	if productID, ok := raw["productId"].(string); ok {
		details.ProductID = productID
	}
	if available, ok := raw["available"].(float64); ok {
		details.Available = int(available)
	}
	if requested, ok := raw["requested"].(float64); ok {
		details.Requested = int(requested)
	}

	if details.ProductID == "" && details.Available == 0 && details.Requested == 0 {
		return nil
	}
	return details
}
