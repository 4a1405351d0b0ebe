package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndHasCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "record store unavailable")

	assert.True(t, HasCode(err, CodeUnavailable))
	assert.False(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, Is(wrapped, CodeUnavailable))

	de, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "record store unavailable", de.Message)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "forbidden: not an owner", New(CodeForbidden, "not an owner").Error())
}

func TestErrorsIsMatchesCodeAndMessage(t *testing.T) {
	err := fmt.Errorf("verify: %w", New(CodeUnauthorized, "invalid token"))
	assert.ErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
	assert.NotErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
}
