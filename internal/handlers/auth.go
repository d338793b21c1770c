package handlers

import (
	"errors"
	"net/http"
	"strings"

	"kickoffkart/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Browser auth pages ----

func (h *Handler) registerPage(c *gin.Context) {
	level, flash := popFlash(c)
	c.HTML(http.StatusOK, "register.html", gin.H{
		"FlashLevel": level,
		"Flash":      flash,
		"Username":   "",
		"Email":      "",
	})
}

func (h *Handler) registerSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if _, err := h.services.SignUp(username, email, password); err != nil {
		if h.log != nil {
			h.log.Infow("register_failed", "username", username, "err", err)
		}
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Error":    registerErrorMessage(err),
			"Username": username,
			"Email":    email,
		})
		return
	}

	setFlash(c, "success", "Account created. Please log in.")
	c.Redirect(http.StatusFound, "/login/")
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return "Username already taken."
	case errors.Is(err, service.ErrInvalidInput):
		return "Username and password are required."
	default:
		return "Registration failed. Please try again."
	}
}

func (h *Handler) loginPage(c *gin.Context) {
	level, flash := popFlash(c)
	c.HTML(http.StatusOK, "login.html", gin.H{
		"FlashLevel": level,
		"Flash":      flash,
		"Username":   "",
		"Next":       c.Query("next"),
	})
}

func (h *Handler) loginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, err := h.services.GenerateToken(username, password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("login_failed", "username", username, "err", err)
		}
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error":    "Invalid username or password.",
			"Username": username,
			"Next":     c.Query("next"),
		})
		return
	}

	h.setSessionCookies(c, token)
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *Handler) logoutUser(c *gin.Context) {
	h.clearSessionCookies(c)
	c.Redirect(http.StatusFound, "/login/")
}

// ---- JSON API auth ----

// @Summary      Log in
// @Description  Form-encoded credentials; on success the session cookie is set and the token returned
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/auth/login/ [post]
func (h *Handler) apiLogin(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, err := h.services.GenerateToken(username, password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("api_login_failed", "username", username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid credentials."})
		return
	}

	h.setSessionCookies(c, token)
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "redirect": next})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/logout/ [post]
func (h *Handler) apiLogout(c *gin.Context) {
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Register
// @Description  Creates the account and logs it in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true   "Username"
// @Param        email     formData  string  false  "Email"
// @Param        password  formData  string  true   "Password"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/auth/register/ [post]
func (h *Handler) apiRegister(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if _, err := h.services.SignUp(username, email, password); err != nil {
		if h.log != nil {
			h.log.Infow("api_register_failed", "username", username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": registerErrorFields(err)})
		return
	}

	// Auto-login for the write API flow.
	token, err := h.services.GenerateToken(username, password)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "registration succeeded but login failed", "api_register_login_failed", err)
		return
	}
	h.setSessionCookies(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"ok":       true,
		"token":    token,
		"redirect": "/",
		"user":     gin.H{"username": username},
	})
}

func registerErrorFields(err error) map[string][]string {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return map[string][]string{"username": {"Username already taken."}}
	case errors.Is(err, service.ErrInvalidInput):
		return map[string][]string{"__all__": {"Username and password are required."}}
	default:
		return map[string][]string{"__all__": {"Registration failed."}}
	}
}
