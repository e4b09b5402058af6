package auth

import (
	"sync"
	"time"
)

// LoginLimiter throttles failed login attempts per IP+username pair using a
// sliding window. Successful logins clear the record.
type LoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	stop        chan struct{}
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginLimiterConfig tunes the login throttle.
type LoginLimiterConfig struct {
	MaxAttempts     int
	Window          time.Duration
	Lockout         time.Duration
	CleanupInterval time.Duration
}

// DefaultLoginLimiterConfig allows 5 failures per 15 minutes before a
// 30-minute lockout.
func DefaultLoginLimiterConfig() LoginLimiterConfig {
	return LoginLimiterConfig{
		MaxAttempts:     5,
		Window:          15 * time.Minute,
		Lockout:         30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewLoginLimiter creates the throttle and starts its cleanup loop.
// Call Stop when done.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &LoginLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		stop:        make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Stop terminates the cleanup goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stop)
}

// Allow reports whether a login attempt may proceed. When blocked, the
// second return value says how long until the lockout expires.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[ip+":"+username]
	if !ok {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	if now.Sub(record.firstAttempt) > l.window {
		return true, 0
	}
	if record.count < l.maxAttempts {
		return true, 0
	}
	return false, l.lockout
}

// RecordFailure counts a failed attempt, locking the pair out once the
// window's budget is spent.
func (l *LoginLimiter) RecordFailure(ip, username string) {
	key := ip + ":" + username
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[key]
	if !ok || now.Sub(record.firstAttempt) > l.window {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[key] = record
	}
	record.count++
	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockout)
	}
}

// RecordSuccess clears the failure record after a successful login.
func (l *LoginLimiter) RecordSuccess(ip, username string) {
	l.mu.Lock()
	delete(l.attempts, ip+":"+username)
	l.mu.Unlock()
}

func (l *LoginLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *LoginLimiter) cleanup() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, record := range l.attempts {
		windowExpired := now.Sub(record.firstAttempt) > l.window+l.lockout
		if windowExpired && now.After(record.lockedUntil) {
			delete(l.attempts, key)
		}
	}
}
