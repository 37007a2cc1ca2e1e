package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/reqctx"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/response"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key Auth stores the user id under.
const UserIDKey = "userID"

type authenticator interface {
	Authenticate(ctx context.Context, raw string) (*domain.User, error)
}

// Auth resolves the caller from the session cookie, or from an
// Authorization: Bearer header when no cookie is sent. Every rejection gets
// the same 401 body; on success the user is attached to the request context.
func Auth(auth authenticator, cookieName string, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, err := auth.Authenticate(ctx, credential(c, cookieName))
		if err != nil {
			if errors.Is(err, domain.ErrAuthenticationRequired) {
				logger.DebugContext(ctx, "authentication rejected", "reason", err)
				response.Unauthorized(c)
				return
			}
			logger.ErrorContext(ctx, "authenticate", "error", err)
			response.Internal(c)
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithUser(ctx, user))
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

func credential(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}

	header := c.GetHeader("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
