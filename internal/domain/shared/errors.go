package shared

// Error codes raised by the domain packages
const (
	CodeInvalidInvoice  = "INVALID_INVOICE"
	CodeInvalidCurrency = "INVALID_CURRENCY"
	CodeInvalidMargins  = "INVALID_MARGINS"
	CodeInvalidColor    = "INVALID_COLOR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code, so errors.Is works
// against the sentinels below regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is
var (
	ErrInvalidInvoice  = NewDomainError(CodeInvalidInvoice, "Invalid invoice")
	ErrInvalidCurrency = NewDomainError(CodeInvalidCurrency, "Unsupported currency")
	ErrInvalidMargins  = NewDomainError(CodeInvalidMargins, "Invalid page margins")
	ErrInvalidColor    = NewDomainError(CodeInvalidColor, "Invalid color")
)
