package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	req := require.New(t)

	req.Equal(KindValidation, KindOf(Validation("empty content")))
	req.Equal(KindFormat, KindOf(Format("bad chat id")))
	req.Equal(KindAuth, KindOf(Auth("not a participant")))
	req.Equal(KindNotFound, KindOf(NotFound("no such user")))
	req.Equal(KindConflict, KindOf(Conflict("email taken")))
	req.Equal(KindInternal, KindOf(errors.New("plain error")))
}

func TestKindOf_Wrapped(t *testing.T) {
	req := require.New(t)

	wrapped := fmt.Errorf("sending failed: %w", Validation("empty content"))
	req.Equal(KindValidation, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	req := require.New(t)

	req.Equal(http.StatusBadRequest, HTTPStatus(Validation("x")))
	req.Equal(http.StatusBadRequest, HTTPStatus(Format("x")))
	req.Equal(http.StatusForbidden, HTTPStatus(Auth("x")))
	req.Equal(http.StatusNotFound, HTTPStatus(NotFound("x")))
	req.Equal(http.StatusConflict, HTTPStatus(Conflict("x")))
	req.Equal(http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}
