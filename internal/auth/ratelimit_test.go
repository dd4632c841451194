package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newTestLimiter(maxAttempts int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     maxAttempts,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // Long interval to prevent cleanup during test
	})
}

func TestRateLimiter_AllowsInitialAttempts(t *testing.T) {
	rl := newTestLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1")
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
		rl.RecordFailure("192.168.1.1")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1")
	assert.False(t, allowed)
	assert.NotZero(t, retryAfter)
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := newTestLimiter(3)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1")
	rl.RecordFailure("192.168.1.1")
	rl.RecordSuccess("192.168.1.1")

	locked, _ := rl.RecordFailure("192.168.1.1")
	assert.False(t, locked)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := newTestLimiter(2)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1")
	locked, _ := rl.RecordFailure("192.168.1.1")
	assert.True(t, locked)

	allowed, _ := rl.Allow("192.168.1.1")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("192.168.1.2")
	assert.True(t, allowed)
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.RecordFailure("10.0.0.1")
	allowed, _ := rl.Allow("10.0.0.1")
	assert.False(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)

	now = now.Add(time.Hour)
	rl.cleanup()
	assert.Empty(t, rl.attempts)
}

func TestRateLimiter_StopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rl := newTestLimiter(1)
	rl.Stop()
	rl.Stop()
}
