package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotConfigured is returned when a data source lacks credentials or endpoints
	ErrNotConfigured = errors.New("data source not configured")

	// ErrUpstreamFailure is returned when an external service request fails
	ErrUpstreamFailure = errors.New("upstream request failed")

	// ErrMalformedResponse is returned when an external service returns an unreadable payload
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrSearchUnavailable is returned when every data source failed and no fallback is enabled
	ErrSearchUnavailable = errors.New("product search unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrItemNotFound is returned when a cart item or stored key does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidQuantity is returned for cart quantities that cannot be applied
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidAmount is returned for negative point amounts
	ErrInvalidAmount = errors.New("invalid points amount")
)
