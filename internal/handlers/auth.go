package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/utils"
	"hospital-records-server/internal/validation"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *seclog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *seclog.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Log: log}
}

// RegisterForm represents the registration form fields.
type RegisterForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	FullName string `form:"full_name"`
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	utils.Render(c, http.StatusOK, "register.html", gin.H{"Form": RegisterForm{}})
}

// Register handles a registration submission. All fields are validated and
// sanitized; the unique indexes on username and email are the authoritative
// duplicate guard, the pre-checks below only produce a friendlier error.
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	_ = c.ShouldBind(&form)

	var errs validation.FieldErrors

	username, err := validation.ValidateUsername(form.Username)
	errs = appendFieldError(errs, err)

	email, err := validation.ValidateEmail(form.Email)
	errs = appendFieldError(errs, err)

	if err := validation.ValidatePasswordStrength(form.Password); err != nil {
		errs = appendFieldError(errs, err)
	}

	fullName := validation.SanitizeString(form.FullName)
	if fullName == "" {
		errs = append(errs, validation.FieldError{
			Field: "full_name", Kind: validation.KindInvalidFormat, Message: "full name is required",
		})
	}

	if len(errs) > 0 {
		h.Log.ValidationError("registration", errs.Error(), "")
		h.renderRegister(c, form, errs)
		return
	}

	if h.usernameOrEmailTaken(c, username, email, &errs) {
		h.renderRegister(c, form, errs)
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     models.RoleDoctor,
		IsActive: true,
	}
	if err := user.SetPassword(form.Password); err != nil {
		utils.Flash(c, utils.FlashDanger, "Registration error: "+err.Error())
		h.renderRegister(c, form, nil)
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			utils.Flash(c, utils.FlashDanger, "Username or email already exists")
			h.renderRegister(c, form, nil)
			return
		}
		h.Log.Error("failed to create user", err)
		utils.Flash(c, utils.FlashDanger, "An error occurred during registration")
		h.renderRegister(c, form, nil)
		return
	}

	h.Log.Info("new user registered", "username", username)
	utils.Flash(c, utils.FlashSuccess, "Registration successful! Please log in.")
	c.Redirect(http.StatusFound, "/auth/login")
}

func (h *AuthHandler) renderRegister(c *gin.Context, form RegisterForm, errs validation.FieldErrors) {
	for _, fe := range errs {
		utils.Flash(c, utils.FlashDanger, "Registration error: "+fe.Message)
	}
	form.Password = ""
	utils.Render(c, http.StatusOK, "register.html", gin.H{
		"Form":   form,
		"Errors": errs.ByField(),
	})
}

// usernameOrEmailTaken appends a field error for any pre-existing user with
// the same username or email.
func (h *AuthHandler) usernameOrEmailTaken(c *gin.Context, username, email string, errs *validation.FieldErrors) bool {
	var existing models.User
	if err := h.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		*errs = append(*errs, validation.FieldError{
			Field: "username", Kind: validation.KindInvalidFormat, Message: "username already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("failed to check username", err)
	}

	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		*errs = append(*errs, validation.FieldError{
			Field: "email", Kind: validation.KindInvalidFormat, Message: "email already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("failed to check email", err)
	}

	return len(*errs) > 0
}

// LoginForm represents the login form fields.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// dummyHash is verified against when the username does not exist, so both
// login failure paths cost one PBKDF2 computation and an unknown username is
// not distinguishable from a wrong password by response time.
var dummyHash = func() string {
	hash, err := models.HashPassword("Placeholder1!unused")
	if err != nil {
		panic(err)
	}
	return hash
}()

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	utils.Render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{}})
}

// Login authenticates a user and establishes the session. The failure
// message never reveals whether the username or the password was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	_ = c.ShouldBind(&form)

	username := validation.SanitizeString(form.Username)
	if username == "" || form.Password == "" {
		utils.Flash(c, utils.FlashDanger, "Username and password required")
		utils.Render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{Username: form.Username}})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Log.Error("failed to look up user", err)
		}
		_, _ = models.VerifyPassword(form.Password, dummyHash)
		h.failLogin(c, username)
		return
	}

	ok, err := user.CheckPassword(form.Password)
	if err != nil {
		// Stored hash is unparseable; treat as a failed login but flag it.
		h.Log.Suspicious("unverifiable credential for account "+username, c.ClientIP())
		h.failLogin(c, username)
		return
	}
	if !ok || !user.IsActive {
		h.failLogin(c, username)
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.DB.Model(&user).Update("last_login", now).Error; err != nil {
		h.Log.Error("failed to update last login", err)
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionUsername, user.Username)
	sess.Set(middleware.SessionRole, string(user.Role))
	sess.Set(middleware.SessionLastSeen, now.Unix())
	if err := sess.Save(); err != nil {
		h.Log.Error("failed to save session", err)
		utils.Flash(c, utils.FlashDanger, "An error occurred during login")
		utils.Render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{Username: form.Username}})
		return
	}

	h.Log.LoginAttempt(username, true, c.ClientIP())
	utils.Flash(c, utils.FlashSuccess, "Welcome back, "+user.FullName+"!")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) failLogin(c *gin.Context, username string) {
	h.Log.LoginAttempt(username, false, c.ClientIP())
	utils.Flash(c, utils.FlashDanger, "Invalid username or password")
	utils.Render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{Username: username}})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	username, _ := sess.Get(middleware.SessionUsername).(string)
	sess.Clear()
	if err := sess.Save(); err != nil {
		h.Log.Error("failed to clear session", err)
	}
	if username != "" {
		h.Log.Info("user logged out", "username", username)
	}
	utils.Flash(c, utils.FlashInfo, "You have been logged out")
	c.Redirect(http.StatusFound, "/")
}

// appendFieldError adds err to errs when it is a *validation.FieldError.
func appendFieldError(errs validation.FieldErrors, err error) validation.FieldErrors {
	if err == nil {
		return errs
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return append(errs, *fe)
	}
	return append(errs, validation.FieldError{
		Field: "form", Kind: validation.KindInvalidFormat, Message: err.Error(),
	})
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
