package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError(CodeInvalidCurrency, "Unsupported currency: GBP")
	assert.Equal(t, "Unsupported currency: GBP", err.Error())
	assert.Equal(t, CodeInvalidCurrency, err.Code)
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("parse invoice: %w", NewDomainError(CodeInvalidCurrency, "Unsupported currency: GBP"))

	assert.ErrorIs(t, err, ErrInvalidCurrency)
	assert.NotErrorIs(t, err, ErrInvalidInvoice)
	assert.False(t, errors.Is(err, errors.New("Unsupported currency: GBP")))

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Unsupported currency: GBP", domainErr.Message)
}
