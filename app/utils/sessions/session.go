package sessions

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "sellup-session"
	userIDSessionKey  = "userID"
)

type SessionStore interface {
	GetUserID(r *http.Request) (uint, bool)
	SetUserID(w http.ResponseWriter, r *http.Request, userID uint) error
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(14 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession never fails: an undecodable cookie yields a fresh session.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, _ := c.store.Get(r, sessionCookieName)
	return session
}

func (c *CookieSessionStore) GetUserID(r *http.Request) (uint, bool) {
	if _, err := r.Cookie(sessionCookieName); err != nil {
		return 0, false
	}
	userID, ok := c.getSession(r).Values[userIDSessionKey].(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID uint) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
