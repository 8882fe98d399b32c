package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"diabeto/internal/auth"
	"diabeto/internal/errors"
	"diabeto/internal/model"
	"diabeto/internal/repository"
	"diabeto/internal/service"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	patientRepo repository.PatientRepository
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, patientRepo repository.PatientRepository) *AuthHandler {
	return &AuthHandler{authService: authService, patientRepo: patientRepo}
}

// RegisterRequest represents a clinician registration submission.
type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// LoginRequest represents a login submission.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginForm godoc
// @Summary Login form descriptor
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"fields":  []string{"username", "password"},
		"message": c.QueryParam("message"),
		"error":   c.QueryParam("error_message"),
	})
}

// RegisterForm godoc
// @Summary Registration form descriptor
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"fields": []string{"username", "email", "password", "confirm_password"},
		"error":  c.QueryParam("error_message"),
	})
}

// Register godoc
// @Summary Register a new clinician
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.ConfirmPassword); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.Redirect(http.StatusFound, "/login?message=registered")
}

// Login godoc
// @Summary Login and receive a session cookie
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 302
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionExpiry / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/home")
}

// Logout godoc
// @Summary Logout and clear the session cookie
// @Tags auth
// @Success 302
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/login")
}

// Home godoc
// @Summary Dashboard for the authenticated clinician
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /home [get]
func (h *AuthHandler) Home(c echo.Context) error {
	doctor := CurrentDoctor(c)
	count, err := h.patientRepo.CountByDoctor(c.Request().Context(), doctor.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"doctor":        doctor,
		"patient_count": count,
	})
}

// CurrentDoctor returns the clinician resolved by the session middleware.
// Handlers never touch the cookie themselves.
func CurrentDoctor(c echo.Context) *model.Doctor {
	doctor, _ := c.Get("doctor").(*model.Doctor)
	return doctor
}
