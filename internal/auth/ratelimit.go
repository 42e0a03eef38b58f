package auth

import (
	"sync"
	"time"
)

// LoginLimiter counts failed logins per client IP and login name inside a
// fixed window and locks the pair out once the limit is hit. It complements
// the per-account lock in Service.Authenticate, which cannot see attempts
// against unknown usernames.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time

	stop chan struct{}
	once sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LimiterConfig zero values fall back to 5 attempts, a 15 minute window and
// a 30 minute lockout.
type LimiterConfig struct {
	MaxAttempts     int
	Window          time.Duration
	Lockout         time.Duration
	CleanupInterval time.Duration
}

func NewLoginLimiter(cfg LimiterConfig) *LoginLimiter {
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
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Stop ends the background cleanup. Safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func limiterKey(ip, login string) string {
	return ip + "|" + login
}

// Allow reports whether an attempt may proceed and, if not, how long the
// caller has to wait.
func (l *LoginLimiter) Allow(ip, login string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[limiterKey(ip, login)]
	if !ok {
		return true, 0
	}
	if now.Before(rec.lockedUntil) {
		return false, rec.lockedUntil.Sub(now)
	}
	if now.Sub(rec.firstAttempt) > l.window {
		return true, 0
	}
	return rec.count < l.maxAttempts, 0
}

// RecordFailure counts one failed attempt and reports whether it triggered
// a lockout.
func (l *LoginLimiter) RecordFailure(ip, login string) bool {
	now := l.now()
	key := limiterKey(ip, login)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[key]
	if !ok || now.Sub(rec.firstAttempt) > l.window {
		rec = &attemptRecord{firstAttempt: now}
		l.attempts[key] = rec
	}

	rec.count++
	if rec.count >= l.maxAttempts {
		rec.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

// RecordSuccess forgets the pair.
func (l *LoginLimiter) RecordSuccess(ip, login string) {
	l.mu.Lock()
	delete(l.attempts, limiterKey(ip, login))
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
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, rec := range l.attempts {
		if now.Sub(rec.firstAttempt) > l.window && !now.Before(rec.lockedUntil) {
			delete(l.attempts, key)
		}
	}
}
