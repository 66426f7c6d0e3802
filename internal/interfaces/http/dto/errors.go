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
	// ErrCodeTimeout is used when a request ran out of time
	ErrCodeTimeout = "ERR_TIMEOUT"
)

// Input error codes
const (
	// ErrCodeValidation is used when request fields fail validation
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the size limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Access error codes
const (
	// ErrCodeForbidden is used when the client may not reach a resource
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when a route or resource does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Invoice error codes
const (
	// ErrCodeInvalidInvoice is used when an invoice cannot be laid out
	ErrCodeInvalidInvoice = "ERR_INVALID_INVOICE"
	// ErrCodeInvalidCurrency is used for unsupported currency codes
	ErrCodeInvalidCurrency = "ERR_INVALID_CURRENCY"
)

// Rendering error codes. These are server faults: the request was valid.
const (
	// ErrCodeRenderFailed is used when the PDF engine reports a failure
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	// ErrCodeStreamFailed is used when the finished document cannot be written out
	ErrCodeStreamFailed = "ERR_STREAM_FAILED"
	// ErrCodeInvalidLayout is used when the configured layout is unusable
	ErrCodeInvalidLayout = "ERR_INVALID_LAYOUT"
	// ErrCodeInvalidPaperSize is used when the configured paper size is unknown
	ErrCodeInvalidPaperSize = "ERR_INVALID_PAPER_SIZE"
	// ErrCodeInvalidState is used when drawing steps run out of order
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeTimeout:  http.StatusGatewayTimeout,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeForbidden: http.StatusForbidden,
	ErrCodeNotFound:  http.StatusNotFound,

	// Invoice errors -> 422 Unprocessable Entity
	ErrCodeInvalidInvoice:  http.StatusUnprocessableEntity,
	ErrCodeInvalidCurrency: http.StatusUnprocessableEntity,

	ErrCodeRenderFailed:     http.StatusInternalServerError,
	ErrCodeStreamFailed:     http.StatusInternalServerError,
	ErrCodeInvalidLayout:    http.StatusInternalServerError,
	ErrCodeInvalidPaperSize: http.StatusInternalServerError,
	ErrCodeInvalidState:     http.StatusInternalServerError,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and render error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"INVALID_INVOICE":    ErrCodeInvalidInvoice,
	"INVALID_CURRENCY":   ErrCodeInvalidCurrency,
	"INVALID_STATE":      ErrCodeInvalidState,
	"RENDER_FAILED":      ErrCodeRenderFailed,
	"STREAM_FAILED":      ErrCodeStreamFailed,
	"INVALID_LAYOUT":     ErrCodeInvalidLayout,
	"INVALID_PAPER_SIZE": ErrCodeInvalidPaperSize,
	"VALIDATION_ERROR":   ErrCodeValidation,
	"INTERNAL_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, and unknown codes, are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
