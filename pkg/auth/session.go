package auth

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the login session cookie.
const SessionName = "campaign_session"

// sessionKeyToken is the session value holding the access token.
const sessionKeyToken = "access_token"

// SessionStore keeps the access token in a signed cookie so browser clients
// do not have to send the Authorization header.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a cookie-backed session store.
//
// The secret is SHA-256 hashed to derive a 32-byte signing key. It must be
// consistent across server restarts. maxAge should match the token TTL.
func NewSessionStore(secret string, secure bool, maxAge time.Duration) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Save stores token in the session cookie.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionKeyToken] = token
	return session.Save(r, w)
}

// Token returns the access token carried by the session cookie, if any.
func (s *SessionStore) Token(r *http.Request) (string, bool) {
	if _, err := r.Cookie(SessionName); err != nil {
		return "", false
	}
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return "", false
	}
	token, ok := session.Values[sessionKeyToken].(string)
	return token, ok && token != ""
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
