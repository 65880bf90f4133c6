package server

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Login submissions are throttled per client address so a runaway form (or a
// credential-stuffing script) cannot hammer the API's login endpoint through
// this front-end.
const (
	loginRatePerSecond = 1
	loginBurst         = 5

	// An address idle this long has refilled its burst anyway, so its
	// limiter can be forgotten and the map stays bounded.
	visitorIdleAfter = 10 * time.Minute
	pruneInterval    = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type loginLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastPrune time.Time
	now       func() time.Time
}

func newLoginLimiter(now func() time.Time) *loginLimiter {
	return &loginLimiter{
		visitors:  make(map[string]*visitor),
		lastPrune: now(),
		now:       now,
	}
}

// Allow reports whether another login attempt from remoteAddr is permitted.
func (l *loginLimiter) Allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	now := l.now()

	l.mu.Lock()
	l.pruneIdle(now)
	v, ok := l.visitors[host]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(loginRatePerSecond), loginBurst)}
		l.visitors[host] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.Allow()
}

// pruneIdle drops limiters for addresses that have not attempted a login
// recently. Caller holds the lock.
func (l *loginLimiter) pruneIdle(now time.Time) {
	if now.Sub(l.lastPrune) < pruneInterval {
		return
	}
	for host, v := range l.visitors {
		if now.Sub(v.lastSeen) >= visitorIdleAfter {
			delete(l.visitors, host)
		}
	}
	l.lastPrune = now
}
