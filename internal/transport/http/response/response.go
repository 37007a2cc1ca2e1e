// Package response holds the JSON envelope every route answers with.
package response

import (
	"net/http"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess                = "SUCCESS"
	CodeValidation             = "VALIDATION_ERROR"
	CodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	CodeAuthentication         = "AUTHENTICATION_ERROR"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeServer                 = "SERVER_ERROR"
)

const (
	MsgInvalidRequestBody     = "Invalid request body"
	MsgAuthenticationRequired = "Authentication required"
	MsgInternalServer         = "Internal Server Error"
)

type Body struct {
	Code        string                  `json:"code"`
	Message     string                  `json:"message,omitempty"`
	User        *User                   `json:"user,omitempty"`
	FieldErrors []validation.FieldError `json:"fieldErrors,omitempty"`
}

// User is the outbound shape of domain.User. It has no password field.
type User struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	BirthDate *string            `json:"birthDate"`
	Gender    *domain.Gender     `json:"gender"`
	Bio       string             `json:"bio"`
	Photos    []domain.Photo     `json:"photos"`
	Dev       *domain.DevProfile `json:"dev"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func NewUser(u *domain.User) *User {
	out := &User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Bio:       u.Bio,
		Photos:    u.Photos,
		Dev:       u.Dev,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if out.Photos == nil {
		out.Photos = []domain.Photo{}
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(time.DateOnly)
		out.BirthDate = &d
	}
	return out
}

func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Body{Code: code, Message: message})
}

// Unauthorized is the single response for every gate rejection.
func Unauthorized(c *gin.Context) {
	Abort(c, http.StatusUnauthorized, CodeUnauthorized, MsgAuthenticationRequired)
}

func Internal(c *gin.Context) {
	Abort(c, http.StatusInternalServerError, CodeServer, MsgInternalServer)
}

func Validation(c *gin.Context, err *validation.Error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Body{
		Code:        CodeValidation,
		Message:     MsgInvalidRequestBody,
		FieldErrors: err.Fields,
	})
}
