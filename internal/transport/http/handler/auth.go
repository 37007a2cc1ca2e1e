package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/response"
	"github.com/ErlanBelekov/devconnect/internal/usecase"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	Logout(ctx context.Context)
}

// CookieOptions configures the session cookie set at login.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authUsecase authUsecaser
	validator   *validation.Validator
	cookie      CookieOptions
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, v *validation.Validator, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   v,
		cookie:      cookie,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email     string  `json:"email"     validate:"required,email"`
	Password  string  `json:"password"  validate:"required,min=8,max=64,bcryptmax"`
	FirstName string  `json:"firstName" validate:"required,min=5,max=50"`
	LastName  *string `json:"lastName"  validate:"required,max=50"`
}

func (r *registerRequest) Normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	if r.LastName != nil {
		trimmed := strings.TrimSpace(*r.LastName)
		r.LastName = &trimmed
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,bcryptmax"`
}

func (r *loginRequest) Normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !decode(c, h.validator, &req) {
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  *req.LastName,
	})
	if err != nil {
		writeError(c, h.logger, "register", err)
		return
	}

	c.JSON(http.StatusCreated, response.Body{
		Code:    response.CodeSuccess,
		Message: msgUserCreated,
		User:    response.NewUser(user),
	})
}

// POST /api/v1/auth/login
// Unknown email and wrong password get the same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !decode(c, h.validator, &req) {
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.logger, "login", err)
		return
	}

	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	c.JSON(http.StatusOK, response.Body{
		Code:    response.CodeSuccess,
		Message: msgLoginSuccessful,
		User:    response.NewUser(res.User),
	})
}

// POST /api/v1/auth/logout
// Only the cookie is cleared. A copy of the token kept elsewhere stays
// valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authUsecase.Logout(c.Request.Context())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, response.Body{
		Code:    response.CodeSuccess,
		Message: msgLogoutSuccessful,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}
