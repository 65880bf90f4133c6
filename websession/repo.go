// Package websession tracks one state bundle per browser, keyed by the sid
// cookie: the token storage, the auth state machine and the dashboard
// controller.
package websession

import (
	"time"

	"github.com/sweetshoplabs/sweetshop-web/catalog"
	"github.com/sweetshoplabs/sweetshop-web/dashboard"
	"github.com/sweetshoplabs/sweetshop-web/inventory"
	"github.com/sweetshoplabs/sweetshop-web/kvstore"
	"github.com/sweetshoplabs/sweetshop-web/session"
)

type Session struct {
	ID        string
	Tokens    kvstore.Store
	Auth      *session.Manager
	Board     *dashboard.Controller
	Catalog   *catalog.Service
	Inventory *inventory.Service

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its TTL. Expiry only
// forgets the bundle server-side; token validity belongs to the API.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Touch extends the TTL from now, so the session expires only after the
// visitor has been idle for the full TTL rather than a fixed time after
// login.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.ExpiresAt = now.Add(ttl)
}

type Repo interface {
	Upsert(sessionID string, session *Session) error
	Get(sessionID string) (*Session, error)
	Delete(sessionID string) error
}
