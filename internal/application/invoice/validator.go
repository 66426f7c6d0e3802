package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// ValidationError maps request field paths to human-readable messages.
// Paths follow the JSON names, e.g. "line_items[0].quantity".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	return fmt.Sprintf("invoice validation failed: %s", strings.Join(names, ", "))
}

// FieldNames returns the failing field paths in sorted order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validator checks raw invoice requests before they reach the layout engine
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator. The returned value is safe for concurrent use.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numeric rules on decimals compare their float value
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("invoicedate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return invoice.Currency(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Validate returns nil or a *ValidationError
func (v *Validator) Validate(req *GenerateRequest) error {
	if req == nil {
		return &ValidationError{Fields: map[string]string{"body": "Request body is required"}}
	}

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate invoice: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		path := fieldPath(e.Namespace())
		if _, seen := fields[path]; !seen {
			fields[path] = validationMessage(e)
		}
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "currency":
		return "Must be one of: " + supportedCurrencies()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "invoicedate":
		return "Must be a date in YYYY-MM-DD or RFC 3339 format"
	default:
		return "Invalid value"
	}
}

// supportedCurrencies lists the currency codes separated by spaces
func supportedCurrencies() string {
	currencies := invoice.AllCurrencies()
	codes := make([]string, len(currencies))
	for i, c := range currencies {
		codes[i] = c.String()
	}
	return strings.Join(codes, " ")
}
