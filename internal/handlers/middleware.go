package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName   = "session"
	lastLoginCookieName = "last_login"
	flashCookieName     = "flash"

	lastLoginTimeLayout = "2006-01-02 15:04:05"

	ctxUserIDKey   = "userID"
	ctxUsernameKey = "username"
)

// sessionToken extracts the session token from the Authorization header
// (API clients) or the session cookie (browsers).
func (h *Handler) sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func (h *Handler) currentUser(c *gin.Context) (int, string, bool) {
	token := h.sessionToken(c)
	if token == "" {
		return 0, "", false
	}
	userID, username, err := h.services.ParseToken(token)
	if err != nil {
		return 0, "", false
	}
	return userID, username, true
}

// pageAuthMiddleware guards browser pages: anonymous requests are redirected
// to the login page (or get a 401 when the AJAX marker is present).
func (h *Handler) pageAuthMiddleware(c *gin.Context) {
	userID, username, ok := h.currentUser(c)
	if !ok {
		if isAJAX(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "auth_required",
			})
			return
		}
		c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUsernameKey, username)
	c.Next()
}

// apiAuthMiddleware guards JSON/data endpoints with a plain 401.
func (h *Handler) apiAuthMiddleware(c *gin.Context) {
	userID, username, ok := h.currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"ok":    false,
			"error": "authentication required",
		})
		return
	}
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUsernameKey, username)
	c.Next()
}

// isAJAX reports whether the request carries the XMLHttpRequest marker or an
// explicit ajax query flag; such requests get JSON instead of HTML.
func isAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest" || c.Query("ajax") != ""
}

// setSessionCookies establishes the browser session and records the login
// time in the auxiliary last_login cookie.
func (h *Handler) setSessionCookies(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, 0, "/", "", false, true)
	c.SetCookie(lastLoginCookieName, time.Now().Format(lastLoginTimeLayout), 0, "/", "", false, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.SetCookie(lastLoginCookieName, "", -1, "/", "", false, true)
}

// setFlash stores a one-shot page message; popFlash consumes it.
func setFlash(c *gin.Context, level, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, level+"|"+message, 60, "/", "", false, true)
}

func popFlash(c *gin.Context) (level, message string) {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return "", raw
	}
	return parts[0], parts[1]
}
