package domain

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "Others"
)

// DefaultBio is stored for accounts that never wrote one.
const DefaultBio = "No bio yet"

// Photo and DevProfile are persisted as JSON documents inside the user row,
// hence the json tags on domain types.
type Photo struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

type DevProfile struct {
	Role              string   `json:"role,omitempty"`
	YearsOfExperience *int     `json:"yearsOfExperience,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	LinkedIn          string   `json:"linkedIn,omitempty"`
	GitHub            string   `json:"github,omitempty"`
}

type User struct {
	ID           string
	Email        string
	PasswordHash string // only populated on the login lookup

	FirstName string
	LastName  string
	BirthDate *time.Time
	Gender    *Gender
	Bio       string
	Photos    []Photo
	Dev       *DevProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Public returns a copy of u that is safe to hand to the route layer.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp
}

// ProfileUpdate carries the non-credential fields a user may change.
// A nil field leaves the stored value untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	BirthDate *time.Time
	Gender    *Gender
	Bio       *string
	Photos    *[]Photo
	Dev       *DevProfile
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.BirthDate == nil &&
		p.Gender == nil && p.Bio == nil && p.Photos == nil && p.Dev == nil
}

// NormalizeEmail is the canonical form used for storage and comparison.
// Applying it twice yields the same result.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
