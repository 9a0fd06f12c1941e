package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := store.GetUserID(anon)
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, store.SetUserID(rec, httptest.NewRequest(http.MethodPost, "/login", nil), 9))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req.AddCookie(cookies[0])
	id, ok := store.GetUserID(req)
	assert.True(t, ok)
	assert.Equal(t, uint(9), id)

	rec = httptest.NewRecorder()
	require.NoError(t, store.ClearSession(rec, req))
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestForeignCookieIsIgnored(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(64))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "garbage"})

	_, ok := store.GetUserID(req)
	assert.False(t, ok)
}
