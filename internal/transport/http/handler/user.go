package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/reqctx"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/response"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
)

type profileUsecaser interface {
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}

type UserHandler struct {
	profileUsecase profileUsecaser
	validator      *validation.Validator
	logger         *slog.Logger
}

func NewUserHandler(profileUsecase profileUsecaser, v *validation.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		profileUsecase: profileUsecase,
		validator:      v,
		logger:         logger.With("component", "user_handler"),
	}
}

type photoRequest struct {
	URL       string `json:"url"       validate:"required,url"`
	IsPrimary bool   `json:"isPrimary"`
}

type devProfileRequest struct {
	Role              string   `json:"role"              validate:"max=100"`
	YearsOfExperience *int     `json:"yearsOfExperience" validate:"omitnil,min=0,max=50"`
	Skills            []string `json:"skills"            validate:"max=50,dive,required,max=50"`
	LinkedIn          string   `json:"linkedIn"          validate:"omitempty,url"`
	GitHub            string   `json:"github"            validate:"omitempty,url"`
}

// updateProfileRequest lists every field a user may change. Email and
// password are absent, so strict decoding rejects them.
type updateProfileRequest struct {
	FirstName *string            `json:"firstName" validate:"omitnil,min=5,max=50"`
	LastName  *string            `json:"lastName"  validate:"omitnil,max=50"`
	BirthDate *string            `json:"birthDate" validate:"omitnil,datetime=2006-01-02"`
	Gender    *string            `json:"gender"    validate:"omitnil,oneof=male female Others"`
	Bio       *string            `json:"bio"       validate:"omitnil,max=500"`
	Photos    *[]photoRequest    `json:"photos"    validate:"omitnil,max=10,dive"`
	Dev       *devProfileRequest `json:"dev"`
}

func (r *updateProfileRequest) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	r.FirstName = trim(r.FirstName)
	r.LastName = trim(r.LastName)
	r.Bio = trim(r.Bio)
	if r.Photos != nil {
		for i := range *r.Photos {
			(*r.Photos)[i].URL = strings.TrimSpace((*r.Photos)[i].URL)
		}
	}
	if r.Dev != nil {
		r.Dev.Role = strings.TrimSpace(r.Dev.Role)
		r.Dev.LinkedIn = strings.TrimSpace(r.Dev.LinkedIn)
		r.Dev.GitHub = strings.TrimSpace(r.Dev.GitHub)
		for i, s := range r.Dev.Skills {
			r.Dev.Skills[i] = strings.TrimSpace(s)
		}
	}
}

func (r *updateProfileRequest) ValidateFields() []validation.FieldError {
	if r.Photos == nil {
		return nil
	}
	primaries := 0
	for _, p := range *r.Photos {
		if p.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return []validation.FieldError{{Path: "photos", Message: "At most one photo can be primary"}}
	}
	return nil
}

func (r *updateProfileRequest) toUpdate() (domain.ProfileUpdate, error) {
	u := domain.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
	if r.BirthDate != nil {
		d, err := time.Parse(time.DateOnly, *r.BirthDate)
		if err != nil {
			return u, fmt.Errorf("parse birth date: %w", err)
		}
		u.BirthDate = &d
	}
	if r.Gender != nil {
		g := domain.Gender(*r.Gender)
		u.Gender = &g
	}
	if r.Photos != nil {
		photos := make([]domain.Photo, len(*r.Photos))
		for i, p := range *r.Photos {
			photos[i] = domain.Photo{URL: p.URL, IsPrimary: p.IsPrimary}
		}
		u.Photos = &photos
	}
	if r.Dev != nil {
		u.Dev = &domain.DevProfile{
			Role:              r.Dev.Role,
			YearsOfExperience: r.Dev.YearsOfExperience,
			Skills:            r.Dev.Skills,
			LinkedIn:          r.Dev.LinkedIn,
			GitHub:            r.Dev.GitHub,
		}
	}
	return u, nil
}

// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := reqctx.User(c.Request.Context())
	if !ok {
		response.Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, response.Body{Code: response.CodeSuccess, User: response.NewUser(user)})
}

// PATCH /api/v1/users/me
// Fields left out of the body keep their stored value; dev is replaced whole.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := reqctx.User(c.Request.Context())
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req updateProfileRequest
	if !decode(c, h.validator, &req) {
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		writeError(c, h.logger, "update profile", err)
		return
	}

	updated, err := h.profileUsecase.UpdateProfile(c.Request.Context(), user.ID, update)
	if err != nil {
		writeError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, response.Body{Code: response.CodeSuccess, User: response.NewUser(updated)})
}
