package token_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "token-test-secret-at-least-32-chars!"

// fakeClock lets a test move time between Issue and Verify.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newCodec(t *testing.T, ttl time.Duration) (*token.Codec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c, err := token.NewCodec([]byte(testSecret), ttl, token.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c, clock
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c, _ := newCodec(t, 2*time.Minute)

	raw, expiresAt, err := c.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := time.Date(2026, 1, 1, 12, 2, 0, 0, time.UTC); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}

	subject, err := c.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-1" {
		t.Errorf("subject = %q, want user-1", subject)
	}
}

func TestIssue_ClaimsShape(t *testing.T) {
	c, _ := newCodec(t, time.Hour)
	raw, _, err := c.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	for _, k := range []string{"sub", "iat", "exp", "jti"} {
		if _, ok := claims[k]; !ok {
			t.Errorf("claim %q missing", k)
		}
	}
}

func TestVerify_AtExpiry_StillValid(t *testing.T) {
	c, clock := newCodec(t, 2*time.Minute)
	raw, expiresAt, _ := c.Issue("user-1")

	clock.t = expiresAt
	if _, err := c.Verify(raw); err != nil {
		t.Fatalf("token must be valid at exactly exp, got %v", err)
	}
}

func TestVerify_AfterTTL_Expired(t *testing.T) {
	c, clock := newCodec(t, 2*time.Minute)
	raw, _, _ := c.Issue("user-1")

	clock.t = clock.t.Add(2*time.Minute + time.Second)
	_, err := c.Verify(raw)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, domain.ErrTokenInvalid) {
		t.Error("expired token must not also report ErrTokenInvalid")
	}
}

func TestVerify_AlteredSignatureByte_Invalid(t *testing.T) {
	c, _ := newCodec(t, time.Hour)
	raw, _, _ := c.Issue("user-1")

	parts := strings.Split(raw, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	sig[0] ^= 0xFF
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	_, err = c.Verify(strings.Join(parts, "."))
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_ForgedExpiredTokenWithBadSignature_Invalid(t *testing.T) {
	// A token that is both expired and wrongly signed must fail on the
	// signature, not reveal anything about its claims.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		ExpiresAt: jwt.NewNumericDate(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
	}).SignedString([]byte("some-other-secret-of-sufficient-len"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, _ := newCodec(t, time.Hour)
	_, err = c.Verify(forged)
	if !errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("want ErrTokenInvalid only, got %v", err)
	}
}

func TestVerify_TamperedSubject_Invalid(t *testing.T) {
	c, _ := newCodec(t, time.Hour)
	raw, _, _ := c.Issue("user-1")

	parts := strings.Split(raw, ".")
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	payload = []byte(strings.Replace(string(payload), "user-1", "user-2", 1))
	parts[1] = base64.RawURLEncoding.EncodeToString(payload)

	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_NoneAlgorithm_Invalid(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, _ := newCodec(t, time.Hour)
	if _, err := c.Verify(unsigned); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_MissingExp_Invalid(t *testing.T) {
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, _ := newCodec(t, time.Hour)
	if _, err := c.Verify(noExp); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Garbage_Invalid(t *testing.T) {
	c, _ := newCodec(t, time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "a.b", "eyJhbGciOiJIUzI1NiJ9..."} {
		if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q): want ErrTokenInvalid, got %v", raw, err)
		}
	}
}

func TestNewCodec_Misconfigured(t *testing.T) {
	if _, err := token.NewCodec(nil, time.Minute); !errors.Is(err, token.ErrMisconfigured) {
		t.Errorf("empty secret: want ErrMisconfigured, got %v", err)
	}
	if _, err := token.NewCodec([]byte(testSecret), 0); !errors.Is(err, token.ErrMisconfigured) {
		t.Errorf("zero ttl: want ErrMisconfigured, got %v", err)
	}
}

func TestIssue_EmptySubject_Fails(t *testing.T) {
	c, _ := newCodec(t, time.Hour)
	if _, _, err := c.Issue(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
