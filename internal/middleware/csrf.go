package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hospital-records-server/internal/seclog"
)

// SessionCSRFToken is the session key holding the per-session token.
const SessionCSRFToken = "csrf_token"

// CSRF ensures every session carries an anti-forgery token and rejects any
// state-mutating request that does not present it, before the handler runs.
// The token is read from the csrf_token form field or the X-CSRF-Token
// header and compared in constant time.
func CSRF(log *seclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		token, _ := sess.Get(SessionCSRFToken).(string)
		if token == "" {
			token = newCSRFToken()
			sess.Set(SessionCSRFToken, token)
			if err := sess.Save(); err != nil {
				log.Error("failed to persist CSRF token", err)
			}
		}
		c.Set("csrfToken", token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		got := c.PostForm("csrf_token")
		if got == "" {
			got = c.GetHeader("X-CSRF-Token")
		}
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			log.Suspicious("request with missing or invalid anti-forgery token", c.ClientIP())
			c.String(http.StatusBadRequest, "Bad Request: missing or invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFTokenFromContext returns the token the current request should embed
// in any rendered form.
func CSRFTokenFromContext(c *gin.Context) string {
	return c.GetString("csrfToken")
}

func newCSRFToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
