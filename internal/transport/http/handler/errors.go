package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/response"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
)

const (
	msgUserCreated        = "User created successfully"
	msgLoginSuccessful    = "Login successful"
	msgLogoutSuccessful   = "Logout successful"
	msgEmailTaken         = "An account with this email already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgBodyTooLarge       = "Request body is too large"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 64 << 10

// decode reads and validates the request body into dst, writing the 400
// response itself when that fails.
func decode(c *gin.Context, v *validation.Validator, dst any) bool {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	err := v.DecodeJSON(body, dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Abort(c, http.StatusRequestEntityTooLarge, response.CodeValidation, msgBodyTooLarge)
		return false
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.Validation(c, verr)
		return false
	}
	response.Internal(c)
	return false
}

// writeError maps core errors onto the response taxonomy. Internal
// failures are logged with their full chain and answered generically.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		response.Abort(c, http.StatusConflict, response.CodeEmailAlreadyRegistered, msgEmailTaken)
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Abort(c, http.StatusUnauthorized, response.CodeAuthentication, msgInvalidCredentials)
	case errors.Is(err, domain.ErrAuthenticationRequired):
		response.Unauthorized(c)
	default:
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		response.Internal(c)
	}
}
