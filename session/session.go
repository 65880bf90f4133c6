// Package session holds the reactive login state the whole UI reads. The
// state machine is explicit and UI-independent: checking until the stored
// token has been resolved against the profile endpoint, then authenticated
// or anonymous. Only the Manager mutates the state; everything else
// subscribes or takes snapshots.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/authclient"
)

type Status string

const (
	StatusChecking      Status = "checking"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// Fallback messages when the server supplies nothing usable.
const (
	genericLoginError    = "Login failed. Please check your credentials."
	genericRegisterError = "Registration failed."
)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	Status    Status
	User      *authclient.User
	LastError string
}

// Authenticated reports whether the snapshot carries a logged-in user.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Result is what login and register hand back to forms.
type Result struct {
	Success bool
	Error   string
}

// Manager owns the session state. Safe for concurrent use; subscribers are
// notified outside UI concerns with a plain callback.
type Manager struct {
	mu      sync.Mutex
	auth    *authclient.Service
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewManager(auth *authclient.Service) *Manager {
	return &Manager{
		auth: auth,
		snap: Snapshot{Status: StatusChecking},
		subs: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe registers a callback invoked on every transition. The returned
// function unsubscribes.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Bootstrap resolves the initial checking state. A stored token triggers a
// profile fetch; a failed fetch clears the tokens and lands on anonymous, so
// a stale token never leaves the UI stuck half logged in.
func (m *Manager) Bootstrap(ctx context.Context) {
	if !m.auth.IsAuthenticated() {
		m.transition(Snapshot{Status: StatusAnonymous})
		return
	}

	user, err := m.auth.GetUserProfile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session bootstrap: profile fetch failed, clearing tokens")
		m.auth.Logout()
		m.transition(Snapshot{Status: StatusAnonymous})
		return
	}

	m.logExpiryHint()
	m.transition(Snapshot{Status: StatusAuthenticated, User: user})
}

// Login runs the two-step login: exchange credentials for tokens, then fetch
// the profile. Any failure leaves the state where it was and reports the
// server's detail message when there is one.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	if _, err := m.auth.Login(ctx, email, password); err != nil {
		msg := loginErrorMessage(err)
		m.setLastError(msg)
		return Result{Success: false, Error: msg}
	}

	user, err := m.auth.GetUserProfile(ctx)
	if err != nil {
		msg := loginErrorMessage(err)
		m.setLastError(msg)
		return Result{Success: false, Error: msg}
	}

	log.Info().Str("username", user.Username).Msg("login succeeded")
	m.logExpiryHint()
	m.transition(Snapshot{Status: StatusAuthenticated, User: user})
	return Result{Success: true}
}

// Register creates the account and treats the returned user as the new
// session: registration auto-logs-in. Validation and server field errors
// collapse to the first relevant message (email, then username, then
// password).
func (m *Manager) Register(ctx context.Context, form authclient.RegistrationForm) Result {
	resp, err := m.auth.Register(ctx, form)
	if err != nil {
		msg := registerErrorMessage(err)
		m.setLastError(msg)
		return Result{Success: false, Error: msg}
	}

	user := resp.User
	if user == nil {
		// Register responses normally embed the user; fall back to the
		// profile endpoint when this one does not.
		user, err = m.auth.GetUserProfile(ctx)
		if err != nil {
			msg := registerErrorMessage(err)
			m.setLastError(msg)
			return Result{Success: false, Error: msg}
		}
	}

	log.Info().Str("username", user.Username).Msg("registration succeeded")
	m.transition(Snapshot{Status: StatusAuthenticated, User: user})
	return Result{Success: true}
}

// Logout clears the stored tokens and drops to anonymous. Local only.
func (m *Manager) Logout() {
	m.auth.Logout()
	m.transition(Snapshot{Status: StatusAnonymous})
}

func (m *Manager) transition(next Snapshot) {
	m.mu.Lock()
	m.snap = next
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (m *Manager) setLastError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.LastError = msg
}

func (m *Manager) logExpiryHint() {
	if expiry, ok := authclient.TokenExpiry(m.auth.AccessToken()); ok {
		log.Debug().Time("expires_at", expiry).Msg("access token expiry hint")
	}
}

func loginErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return genericLoginError
}

func registerErrorMessage(err error) string {
	var validationErr *authclient.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		for _, field := range []string{"email", "username", "password"} {
			if msg := apiErr.FieldError(field); msg != "" {
				return msg
			}
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	}
	return genericRegisterError
}
