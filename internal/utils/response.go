package utils

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash message categories, matching the CSS classes the templates use.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

var flashCategories = []string{FlashSuccess, FlashDanger, FlashWarning, FlashInfo}

// Flash queues a one-shot message on the session, shown on the next page.
func Flash(c *gin.Context, category, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(message, category)
	_ = sess.Save()
}

// TakeFlashes drains all queued flash messages, grouped by category.
func TakeFlashes(c *gin.Context) map[string][]string {
	sess := sessions.Default(c)
	out := make(map[string][]string)
	for _, category := range flashCategories {
		for _, f := range sess.Flashes(category) {
			if msg, ok := f.(string); ok {
				out[category] = append(out[category], msg)
			}
		}
	}
	_ = sess.Save()
	return out
}

// Render renders an HTML template with the data every page needs: drained
// flash messages, the session's CSRF token and the logged-in username.
func Render(c *gin.Context, status int, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = TakeFlashes(c)
	data["CSRFToken"] = c.GetString("csrfToken")
	data["CurrentUser"] = c.GetString("username")
	c.HTML(status, template, data)
}
