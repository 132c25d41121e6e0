// Package ratelimit implements three-tier admission control keyed by a
// client fingerprint: a rolling burst window plus per-minute and per-hour
// token buckets. Layers are evaluated in fixed order and short-circuit on
// the first violation.
package ratelimit

import (
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"
)

// Config holds the limits for each tier.
type Config struct {
	BurstLimit  int
	BurstWindow time.Duration

	MinuteLimit  int
	MinuteWindow time.Duration

	HourLimit  int
	HourWindow time.Duration
}

// DefaultConfig returns the production limits: 3 per 10s burst,
// 10 per minute, 50 per hour.
func DefaultConfig() Config {
	return Config{
		BurstLimit:   3,
		BurstWindow:  10 * time.Second,
		MinuteLimit:  10,
		MinuteWindow: time.Minute,
		HourLimit:    50,
		HourWindow:   time.Hour,
	}
}

// Decision is the outcome of a rate-limit check. A denial is an explicit
// admission decision, not an error.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Reason    string
}

// bucket is token-bucket state for one client and one tier.
type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter tracks per-client state for all three tiers.
type Limiter struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	burst  map[string][]time.Time
	minute map[string]*bucket
	hour   map[string]*bucket

	lastCleanup time.Time
}

// New creates a Limiter with the given config.
func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:    cfg,
		now:    time.Now,
		burst:  make(map[string][]time.Time),
		minute: make(map[string]*bucket),
		hour:   make(map[string]*bucket),
	}
}

// WithClock overrides the time source. Intended for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Check admits or rejects one request for the given client identity.
func (l *Limiter) Check(identity string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeCleanupLocked(now)

	// Tier 1: rolling burst window.
	recent := pruneBefore(l.burst[identity], now.Add(-l.cfg.BurstWindow))
	if len(recent) >= l.cfg.BurstLimit {
		l.burst[identity] = recent
		return Decision{
			Allowed: false,
			ResetAt: recent[0].Add(l.cfg.BurstWindow),
			Reason:  fmt.Sprintf("burst limit exceeded: max %d requests per %s", l.cfg.BurstLimit, l.cfg.BurstWindow),
		}
	}

	// Tier 2: per-minute token bucket.
	minuteBucket := l.refillLocked(l.minute, identity, l.cfg.MinuteLimit, l.cfg.MinuteWindow, now)
	if minuteBucket.tokens < 1 {
		return Decision{
			Allowed: false,
			ResetAt: nextTokenAt(minuteBucket, l.cfg.MinuteLimit, l.cfg.MinuteWindow, now),
			Reason:  fmt.Sprintf("minute limit exceeded: max %d requests per minute", l.cfg.MinuteLimit),
		}
	}

	// Tier 3: per-hour token bucket.
	hourBucket := l.refillLocked(l.hour, identity, l.cfg.HourLimit, l.cfg.HourWindow, now)
	if hourBucket.tokens < 1 {
		return Decision{
			Allowed: false,
			ResetAt: nextTokenAt(hourBucket, l.cfg.HourLimit, l.cfg.HourWindow, now),
			Reason:  fmt.Sprintf("hourly limit exceeded: max %d requests per hour", l.cfg.HourLimit),
		}
	}

	// Admit: consume from every tier.
	l.burst[identity] = append(recent, now)
	minuteBucket.tokens--
	hourBucket.tokens--

	remaining := int(math.Min(minuteBucket.tokens, hourBucket.tokens))
	return Decision{
		Allowed:   true,
		Remaining: remaining,
		ResetAt:   now.Add(l.cfg.MinuteWindow),
	}
}

// refillLocked refills the bucket proportionally to elapsed time, creating
// it at full capacity on first sight. Caller must hold the mutex.
func (l *Limiter) refillLocked(m map[string]*bucket, identity string, limit int, window time.Duration, now time.Time) *bucket {
	b, ok := m[identity]
	if !ok {
		b = &bucket{tokens: float64(limit), last: now}
		m[identity] = b
		return b
	}
	elapsed := now.Sub(b.last)
	if elapsed > 0 {
		b.tokens = math.Min(float64(limit), b.tokens+elapsed.Seconds()*float64(limit)/window.Seconds())
		b.last = now
	}
	return b
}

// nextTokenAt estimates when the bucket will hold one whole token again.
func nextTokenAt(b *bucket, limit int, window time.Duration, now time.Time) time.Time {
	deficit := 1 - b.tokens
	if deficit <= 0 {
		return now
	}
	perToken := window.Seconds() / float64(limit)
	return now.Add(time.Duration(deficit * perToken * float64(time.Second)))
}

// maybeCleanupLocked drops state that has been idle past its window plus an
// hour of slack. Runs opportunistically at most every ten minutes.
func (l *Limiter) maybeCleanupLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < 10*time.Minute {
		return
	}
	l.lastCleanup = now

	const slack = time.Hour
	for id, stamps := range l.burst {
		if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) > l.cfg.BurstWindow+slack {
			delete(l.burst, id)
		}
	}
	for id, b := range l.minute {
		if now.Sub(b.last) > l.cfg.MinuteWindow+slack {
			delete(l.minute, id)
		}
	}
	for id, b := range l.hour {
		if now.Sub(b.last) > l.cfg.HourWindow+slack {
			delete(l.hour, id)
		}
	}
}

func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	kept := stamps[:0:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Fingerprint derives a client identity from the forwarded IP header,
// falling back to a hash of user-agent plus accept-language. This is a
// heuristic, not a strong identity; spoofing resistance is out of scope.
func Fingerprint(forwardedFor, userAgent, acceptLanguage string) string {
	if forwardedFor != "" {
		return forwardedFor
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(userAgent))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(acceptLanguage))
	return fmt.Sprintf("fp-%08x", h.Sum32())
}
