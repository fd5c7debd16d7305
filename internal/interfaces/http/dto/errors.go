package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when a checkout asks for more units than remain
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeEmptyCart is used when a checkout carries no lines
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeVariantUnavailable is used when a requested variant is inactive or missing
	ErrCodeVariantUnavailable = "ERR_VARIANT_UNAVAILABLE"
	// ErrCodeCurrencyMismatch is used when cart lines price in different currencies
	ErrCodeCurrencyMismatch = "ERR_CURRENCY_MISMATCH"
	// ErrCodeReservationExpired is used when a stock hold lapsed before settlement
	ErrCodeReservationExpired = "ERR_RESERVATION_EXPIRED"
)

// Discount error codes
const (
	// ErrCodeDiscountNotStarted is used when a code's start date is in the future
	ErrCodeDiscountNotStarted = "ERR_DISCOUNT_NOT_STARTED"
	// ErrCodeDiscountExpired is used when a code's end date has passed
	ErrCodeDiscountExpired = "ERR_DISCOUNT_EXPIRED"
	// ErrCodeDiscountMinimum is used when the subtotal is below the code's minimum
	ErrCodeDiscountMinimum = "ERR_DISCOUNT_MINIMUM_NOT_MET"
)

// Payment error codes
const (
	// ErrCodeInvalidSignature is used when webhook signature verification fails
	ErrCodeInvalidSignature = "ERR_INVALID_SIGNATURE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Checkout rejections surface as 400 so storefront clients can
	// show the message inline instead of treating it as a server fault
	ErrCodeInsufficientStock:  http.StatusBadRequest,
	ErrCodeEmptyCart:          http.StatusBadRequest,
	ErrCodeVariantUnavailable: http.StatusBadRequest,
	ErrCodeCurrencyMismatch:   http.StatusBadRequest,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeReservationExpired: http.StatusConflict,

	// Discount errors -> 400 Bad Request
	ErrCodeDiscountNotStarted: http.StatusBadRequest,
	ErrCodeDiscountExpired:    http.StatusBadRequest,
	ErrCodeDiscountMinimum:    http.StatusBadRequest,

	// Payment errors
	ErrCodeInvalidSignature: http.StatusBadRequest,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_STATE":            ErrCodeInvalidState,
	"UNAUTHORIZED":             ErrCodeUnauthorized,
	"FORBIDDEN":                ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"EMPTY_CART":               ErrCodeEmptyCart,
	"VARIANT_UNAVAILABLE":      ErrCodeVariantUnavailable,
	"CURRENCY_MISMATCH":        ErrCodeCurrencyMismatch,
	"INVALID_CODE":             ErrCodeInvalidInput,
	"INVALID_SUBTOTAL":         ErrCodeInvalidInput,
	"INVALID_OWNER":            ErrCodeInvalidInput,
	"INVALID_LINE":             ErrCodeInvalidInput,
	"INVALID_LINES":            ErrCodeInvalidInput,
	"INVALID_QUANTITY":         ErrCodeInvalidInput,
	"INVALID_AMOUNT":           ErrCodeInvalidInput,
	"INVALID_CHECKOUT_REF":     ErrCodeInvalidInput,
	"MISSING_CONTACT":          ErrCodeInvalidInput,
	"DISCOUNT_NOT_STARTED":     ErrCodeDiscountNotStarted,
	"DISCOUNT_EXPIRED":         ErrCodeDiscountExpired,
	"DISCOUNT_MINIMUM_NOT_MET": ErrCodeDiscountMinimum,
	"INVALID_SIGNATURE":        ErrCodeInvalidSignature,
	"RESERVATION_EXPIRED":      ErrCodeReservationExpired,
	"VALIDATION_ERROR":         ErrCodeValidation,
	"BAD_REQUEST":              ErrCodeBadRequest,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
