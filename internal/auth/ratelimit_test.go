package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() *LoginLimiter {
	return NewLoginLimiter(LoginLimiterConfig{
		MaxAttempts:     3,
		Window:          time.Minute,
		Lockout:         time.Minute,
		CleanupInterval: time.Hour,
	})
}

func TestLoginLimiter_LockoutAfterMaxFailures(t *testing.T) {
	l := newTestLimiter()
	defer l.Stop()

	for i := 0; i < 2; i++ {
		l.RecordFailure("1.2.3.4", "alice")
		allowed, _ := l.Allow("1.2.3.4", "alice")
		assert.True(t, allowed, "attempt %d still allowed", i+1)
	}

	l.RecordFailure("1.2.3.4", "alice")
	allowed, retryAfter := l.Allow("1.2.3.4", "alice")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestLoginLimiter_KeyedPerIPAndUsername(t *testing.T) {
	l := newTestLimiter()
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.RecordFailure("1.2.3.4", "alice")
	}

	allowed, _ := l.Allow("5.6.7.8", "alice")
	assert.True(t, allowed, "other IP unaffected")
	allowed, _ = l.Allow("1.2.3.4", "bob")
	assert.True(t, allowed, "other username unaffected")
}

func TestLoginLimiter_SuccessClearsRecord(t *testing.T) {
	l := newTestLimiter()
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.RecordFailure("1.2.3.4", "alice")
	}
	allowed, _ := l.Allow("1.2.3.4", "alice")
	assert.False(t, allowed)

	l.RecordSuccess("1.2.3.4", "alice")
	allowed, _ = l.Allow("1.2.3.4", "alice")
	assert.True(t, allowed)
}
