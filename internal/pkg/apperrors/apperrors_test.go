package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownKinds(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized(MsgInvalidCredentials), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound(MsgPoolFolderNotFound), http.StatusNotFound},
		{Conflict(MsgAccountAlreadyExists), http.StatusConflict},
		{Unprocessable("cannot"), http.StatusUnprocessableEntity},
		{Internal(MsgInternalServerError), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		status, message := Resolve(tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.err.Message, message)
	}
}

func TestResolve_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound(MsgPoolFileNotFound))

	status, message := Resolve(wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, MsgPoolFileNotFound, message)
}

func TestResolve_UnknownErrorNeverLeaks(t *testing.T) {
	status, message := Resolve(errors.New("pq: column does not exist"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, MsgInternalServerError, message)
}
