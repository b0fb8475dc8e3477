package www

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "logidash_session"

// sessionStore wraps the admin login cookie. One value is tracked: the
// admin username set at sign-in.
type sessionStore struct {
	cookies *sessions.CookieStore
}

// newSessionStore builds the cookie store from the configured secret
// (base64, 32+ decoded bytes). An unusable secret falls back to a random
// per-boot key, which signs every admin out on restart.
func newSessionStore(secret string) *sessionStore {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil || len(key) < 32 {
		if secret != "" {
			log.Printf("www: session_secret unusable (decoded %d bytes, err=%v); using an ephemeral key, admin sessions reset on restart", len(key), err)
		}
		key = make([]byte, 32)
		rand.Read(key)
	}

	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionStore{cookies: cs}
}

// user returns the signed-in admin username, if any.
func (s *sessionStore) user(r *http.Request) (string, bool) {
	sess, _ := s.cookies.Get(r, sessionCookie)
	username, ok := sess.Values["username"].(string)
	return username, ok && username != ""
}

// signIn stamps the session with the admin username.
func (s *sessionStore) signIn(w http.ResponseWriter, r *http.Request, username string) {
	sess, _ := s.cookies.Get(r, sessionCookie)
	sess.Values["username"] = username
	if err := sess.Save(r, w); err != nil {
		log.Printf("www: save session: %v", err)
	}
}

// signOut expires the session cookie.
func (s *sessionStore) signOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.cookies.Get(r, sessionCookie)
	delete(sess.Values, "username")
	sess.Options.MaxAge = -1
	sess.Save(r, w)
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
