// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/metrics"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost matches the work factor the service has always used.
const DefaultCost = 10

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrMalformedHash = errors.New("stored password hash is malformed")
)

// Hasher is safe for concurrent use. bcrypt is CPU-bound, so at most
// `concurrency` hash or verify calls run at once; the rest wait for a slot
// (or for their context to end) instead of piling onto the scheduler.
type Hasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewHasher returns a Hasher. A concurrency of 0 means GOMAXPROCS.
func NewHasher(cost, concurrency int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Hasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Hash returns a salted bcrypt hash. Two calls with the same input return
// different strings.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	release, err := h.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	start := time.Now()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// a hash that bcrypt cannot parse is (false, ErrMalformedHash).
func (h *Hasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	release, err := h.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	start := time.Now()
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}

func (h *Hasher) acquire(ctx context.Context) (func(), error) {
	metrics.PasswordHashWaiting.Inc()
	err := h.slots.Acquire(ctx, 1)
	metrics.PasswordHashWaiting.Dec()
	if err != nil {
		return nil, fmt.Errorf("wait for hashing slot: %w", err)
	}
	return func() { h.slots.Release(1) }, nil
}
