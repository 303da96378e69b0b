package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaseNotFound(t *testing.T) {
	de := ToDomainError(NewCaseNotFound("abc"))
	require.NotNil(t, de)
	assert.Equal(t, CodeCaseNotFound, de.Code)
	assert.Equal(t, "Case with ID abc not found", de.Message)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewCaseNotFound("42"))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeCaseNotFound, de.Code)
}

func TestToDomainError_FiberError(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusForbidden, "insufficient role"))
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, "insufficient role", de.Message)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestToDomainError_Context(t *testing.T) {
	de := ToDomainError(context.DeadlineExceeded)
	assert.Equal(t, CodeTimeout, de.Code)
	assert.Equal(t, http.StatusGatewayTimeout, de.HTTPStatus)
}

func TestToDomainError_Generic(t *testing.T) {
	cause := errors.New("boom")
	de := ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, ToDomainError(nil))
}
