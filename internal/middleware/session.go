package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
)

// SessionOptions returns the cookie attributes every session cookie carries:
// HTTP-only, Secure, SameSite=Lax, expiring after the idle period. None of
// these are environment-dependent.
func SessionOptions(idleMinutes int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   idleMinutes * 60,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
