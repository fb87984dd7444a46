package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeNotFound, "thing not found")
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeConflict, "revision conflict")
	wrapped := Wrap(inner, CodeInternal, "save kbv item")

	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.Equal(t, "save kbv item", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapForeignError(t *testing.T) {
	inner := errors.New("connection refused")
	wrapped := Wrap(inner, CodeInternal, "provider unreachable")

	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, inner)
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeTimeout, "deadline"))
	assert.True(t, HasCode(err, CodeTimeout))
}

func TestWithDetailCarriesPayload(t *testing.T) {
	payload := map[string]string{"errorCode": "1013"}
	err := WithDetail(CodeUpstream, "no questions available", payload)

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, payload, domainErr.Detail)
	assert.Equal(t, "no questions available", domainErr.Error())
}

func TestErrorStringFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeInternal}
	assert.Equal(t, string(CodeInternal), err.Error())
}
