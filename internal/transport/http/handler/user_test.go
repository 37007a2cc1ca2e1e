package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/reqctx"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/handler"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
)

type fakeProfileUsecase struct {
	updateProfile func(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}

func (f *fakeProfileUsecase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	return f.updateProfile(ctx, userID, update)
}

// newUserEngine stands in for the auth gate by attaching as (if non-nil).
func newUserEngine(uc *fakeProfileUsecase, as *domain.User) *gin.Engine {
	h := handler.NewUserHandler(uc, validation.New(), discard)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if as != nil {
			c.Request = c.Request.WithContext(reqctx.WithUser(c.Request.Context(), as))
		}
		c.Next()
	})
	r.GET("/me", h.Me)
	r.PATCH("/me", h.UpdateMe)
	return r
}

func patch(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/me", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestMe_ReturnsContextUser(t *testing.T) {
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	u := *alice
	u.BirthDate = &birth
	u.PasswordHash = "$2a$10$shouldnotleak"

	w := httptest.NewRecorder()
	newUserEngine(&fakeProfileUsecase{}, &u).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user["id"] != "user-1" || user["birthDate"] != "1990-05-17" {
		t.Errorf("unexpected user %v", user)
	}
	if photos, ok := user["photos"].([]any); !ok || len(photos) != 0 {
		t.Errorf("photos = %v, want empty array", user["photos"])
	}
	if strings.Contains(w.Body.String(), "shouldnotleak") {
		t.Error("response leaks the password hash")
	}
}

func TestMe_NoUser_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	newUserEngine(&fakeProfileUsecase{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUpdateMe_MapsFields(t *testing.T) {
	var got domain.ProfileUpdate
	uc := &fakeProfileUsecase{
		updateProfile: func(_ context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			got = update
			u := *alice
			u.Bio = *update.Bio
			return &u, nil
		},
	}

	w := patch(newUserEngine(uc, alice), `{
		"bio": "  Backend dev  ",
		"birthDate": "1990-05-17",
		"gender": "Others",
		"photos": [{"url": "https://img.example.com/a.png", "isPrimary": true}],
		"dev": {"role": "backend", "yearsOfExperience": 7, "skills": ["go", " sql "], "github": "https://github.com/alice"}
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	if got.Bio == nil || *got.Bio != "Backend dev" {
		t.Errorf("bio = %v, want trimmed", got.Bio)
	}
	if got.BirthDate == nil || got.BirthDate.Format(time.DateOnly) != "1990-05-17" {
		t.Errorf("birthDate = %v", got.BirthDate)
	}
	if got.Gender == nil || *got.Gender != domain.GenderOther {
		t.Errorf("gender = %v", got.Gender)
	}
	if got.Photos == nil || len(*got.Photos) != 1 || !(*got.Photos)[0].IsPrimary {
		t.Errorf("photos = %v", got.Photos)
	}
	if got.Dev == nil || *got.Dev.YearsOfExperience != 7 || got.Dev.Skills[1] != "sql" {
		t.Errorf("dev = %+v", got.Dev)
	}
	if got.FirstName != nil || got.LastName != nil {
		t.Error("omitted fields must stay nil")
	}
}

func TestUpdateMe_Rejections_Return400(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{"email is not updatable", `{"email":"new@example.com"}`, "email"},
		{"password is not updatable", `{"password":"longenough2"}`, "password"},
		{"bad gender", `{"gender":"robot"}`, "gender"},
		{"bad date", `{"birthDate":"17/05/1990"}`, "birthDate"},
		{"long bio", `{"bio":"` + strings.Repeat("x", 501) + `"}`, "bio"},
		{"bad photo url", `{"photos":[{"url":"not a url"}]}`, "photos.0.url"},
		{"two primary photos", `{"photos":[{"url":"https://a.io/1","isPrimary":true},{"url":"https://a.io/2","isPrimary":true}]}`, "photos"},
		{"experience out of range", `{"dev":{"yearsOfExperience":51}}`, "dev.yearsOfExperience"},
		{"bad github url", `{"dev":{"github":"alice"}}`, "dev.github"},
		{"short first name", `{"firstName":"  Al  "}`, "firstName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeProfileUsecase{
				updateProfile: func(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.User, error) {
					t.Fatal("usecase must not be called for an invalid body")
					return nil, nil
				},
			}
			w := patch(newUserEngine(uc, alice), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", w.Code, w.Body)
			}
			body := decodeBody(t, w)
			fields, _ := body["fieldErrors"].([]any)
			if len(fields) == 0 {
				t.Fatalf("no fieldErrors in %s", w.Body)
			}
			first, _ := fields[0].(map[string]any)
			if first["path"] != tt.path {
				t.Errorf("path = %v, want %q", first["path"], tt.path)
			}
		})
	}
}

func TestUpdateMe_DeletedUser_Returns401(t *testing.T) {
	uc := &fakeProfileUsecase{
		updateProfile: func(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.User, error) {
			return nil, domain.ErrAuthenticationRequired
		},
	}
	w := patch(newUserEngine(uc, alice), `{"bio":"hi"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got, want := w.Body.String(), `{"code":"UNAUTHORIZED","message":"Authentication required"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
