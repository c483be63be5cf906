package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIncludesInternal(t *testing.T) {
	err := Wrap(stdErrors.New("boom"), "failed")
	require.Equal(t, "failed: boom", err.Error())
}

func TestWithInternalAndMessageCopy(t *testing.T) {
	base := New("TEST", "test", http.StatusBadRequest)

	with := base.WithInternal(stdErrors.New("oops"))
	require.NotSame(t, base, with)
	require.Nil(t, base.Internal)
	require.NotNil(t, with.Internal)

	renamed := ErrConflict.WithMessage("invitation is no longer pending")
	require.Equal(t, "invitation is no longer pending", renamed.Message)
	require.Equal(t, "Resource state conflict", ErrConflict.Message)
	require.Equal(t, http.StatusConflict, renamed.StatusCode)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := ErrNotFound.WithInternal(stdErrors.New("missing"))
	require.Same(t, appErr, FromError(appErr))

	generic := FromError(stdErrors.New("db down"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.ErrorContains(t, generic, "db down")
}
