package printing

import "errors"

// Render error codes. The HTTP layer maps them to ERR_ codes.
const (
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeStreamFailed     = "STREAM_FAILED"
	ErrCodeInvalidInvoice   = "INVALID_INVOICE"
	ErrCodeInvalidLayout    = "INVALID_LAYOUT"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeInvalidState     = "INVALID_STATE"
)

// RenderError is a failure to produce a document. Layout and paper size
// errors surface at configuration time; the rest during a render.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError; cause may be nil
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code of the first RenderError in err's chain,
// or "" if there is none
func ErrorCode(err error) string {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Code
	}
	return ""
}
