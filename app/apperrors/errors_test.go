package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusPerKind(t *testing.T) {
	cases := map[*Error]int{
		Validation(nil):              http.StatusBadRequest,
		NotFound("category"):         http.StatusNotFound,
		Conflict("duplicate"):        http.StatusConflict,
		Unauthorized("login"):        http.StatusUnauthorized,
		Forbidden("staff only"):      http.StatusForbidden,
		Upstream("imgbb", nil):       http.StatusBadGateway,
		Internal(errors.New("boom")): http.StatusInternalServerError,
	}
	for e, status := range cases {
		assert.Equal(t, status, e.HTTPStatus(), e.Kind.String())
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create listing: %w", NotFound("category"))

	appErr := As(wrapped)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestAsFallsBackToInternal(t *testing.T) {
	cause := errors.New("connection reset")

	appErr := As(cause)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
}

func TestValidationKeepsUpstreamCause(t *testing.T) {
	cause := Upstream("image host rejected upload", errors.New("status 400"))
	err := &Error{Kind: KindValidation, Message: "no image could be uploaded", Fields: map[string]string{"images": "upload failed"}, Err: cause}

	assert.True(t, Is(err, KindValidation))
	var up *Error
	assert.True(t, errors.As(err.Unwrap(), &up))
	assert.Equal(t, KindUpstream, up.Kind)
}
