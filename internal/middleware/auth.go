package middleware

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hospital-records-server/internal/models"
	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/utils"
)

// Session value keys.
const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
	SessionRole     = "role"
	SessionLastSeen = "last_seen"
)

// RequireLogin gates a route on an active, non-expired session. Sessions
// idle longer than idleTimeout are cleared and the user is sent back to the
// login form. On success the last-activity stamp is refreshed and the user
// identity is placed in the request context for downstream handlers.
func RequireLogin(log *seclog.Logger, idleTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		userID, _ := sess.Get(SessionUserID).(string)
		if userID == "" {
			utils.Flash(c, utils.FlashWarning, "Please log in first")
			c.Redirect(302, "/auth/login")
			c.Abort()
			return
		}

		lastSeen, _ := sess.Get(SessionLastSeen).(int64)
		if lastSeen == 0 || time.Since(time.Unix(lastSeen, 0)) > idleTimeout {
			sess.Clear()
			_ = sess.Save()
			utils.Flash(c, utils.FlashWarning, "Your session has expired, please log in again")
			c.Redirect(302, "/auth/login")
			c.Abort()
			return
		}

		sess.Set(SessionLastSeen, time.Now().Unix())
		if err := sess.Save(); err != nil {
			log.Error("failed to refresh session", err)
		}

		username, _ := sess.Get(SessionUsername).(string)
		role, _ := sess.Get(SessionRole).(string)
		c.Set("userID", userID)
		c.Set("username", username)
		c.Set("userRole", role)

		c.Next()
	}
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}

// Helper function to get user role from context
func GetUserRoleFromContext(c *gin.Context) (models.Role, bool) {
	userRole, exists := c.Get("userRole")
	if !exists {
		return "", false
	}
	role, ok := userRole.(string)
	return models.Role(role), ok
}
