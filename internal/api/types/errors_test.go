package types

import (
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFromErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   apperrors.Code
		status int
	}{
		{apperrors.CodeInvalid, http.StatusBadRequest},
		{apperrors.CodeNotFound, http.StatusNotFound},
		{apperrors.CodeConflict, http.StatusConflict},
		{apperrors.CodeUnavailable, http.StatusServiceUnavailable},
		{apperrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		status, body := FromError(apperrors.New(c.code, "boom"))
		require.Equal(t, c.status, status)
		require.Equal(t, string(c.code), body.Error.Code)
		require.Equal(t, "boom", body.Error.Message)
	}
}

func TestFromErrorMasksUnknownErrors(t *testing.T) {
	status, body := FromError(errors.New("sql: connection refused"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "internal server error", body.Error.Message)
	require.NotContains(t, body.Error.Message, "sql")
}

func TestFromErrorUnwrapsWrappedAppError(t *testing.T) {
	inner := apperrors.New(apperrors.CodeNotFound, "sprint not found")
	wrapped := apperrors.Wrap(inner, apperrors.CodeInternal, "outer")

	// the outermost code wins
	status, _ := FromError(wrapped)
	require.Equal(t, http.StatusInternalServerError, status)
}
