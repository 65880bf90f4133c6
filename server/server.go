// Package server is the page and form surface of the sweet shop front-end.
// It renders the login, register and dashboard pages, guards the dashboard
// subtree behind the session state machine, and translates form submissions
// into calls on the per-visitor client stack.
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/authclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
	"github.com/sweetshoplabs/sweetshop-web/dashboard"
	"github.com/sweetshoplabs/sweetshop-web/internal/config"
	"github.com/sweetshoplabs/sweetshop-web/inventory"
	"github.com/sweetshoplabs/sweetshop-web/kvstore"
	"github.com/sweetshoplabs/sweetshop-web/session"
	"github.com/sweetshoplabs/sweetshop-web/websession"
)

const sessionCookieName = "sid"

type Server struct {
	env          string
	config       config.Config
	router       *mux.Router
	sessions     websession.Repo
	httpClient   *http.Client
	loginLimiter *loginLimiter
	nowTime      func() time.Time
}

type Option func(*Server)

// WithHTTPClient overrides the transport used against the REST API
// (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(cfg config.Config, sessions websession.Repo, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[server.New] config is required")
	}
	if sessions == nil {
		return nil, errors.New("[server.New] session repo is required")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		config:     cfg,
		sessions:   sessions,
		httpClient: http.DefaultClient,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.loginLimiter = newLoginLimiter(s.nowTime)

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newVisitorSession assembles the full client stack one browser gets: its
// own token store, API client bound to that store, auth state machine and
// dashboard controller.
func (s *Server) newVisitorSession() (*websession.Session, error) {
	tokens := kvstore.NewMemory()
	api := apiclient.New(s.config.GetAPIBaseURL(),
		apiclient.WithHTTPClient(s.httpClient),
		apiclient.WithTokenSource(func() string {
			token, _ := tokens.Get(authclient.AccessTokenKey)
			return token
		}),
	)

	authSvc, err := authclient.NewService(api, tokens)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitorSession] auth service")
	}
	catalogSvc, err := catalog.NewService(api)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitorSession] catalog service")
	}
	inventorySvc, err := inventory.NewService(api)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitorSession] inventory service")
	}
	board, err := dashboard.NewController(catalogSvc)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitorSession] dashboard controller")
	}

	now := s.nowTime()
	return &websession.Session{
		ID:        uuid.New().String(),
		Tokens:    tokens,
		Auth:      session.NewManager(authSvc),
		Board:     board,
		Catalog:   catalogSvc,
		Inventory: inventorySvc,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.GetSessionTTL()),
	}, nil
}

// ensureSession returns the visitor's session, creating one (and setting the
// cookie) when none exists or the existing one expired.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*websession.Session, error) {
	if sess := s.lookupSession(r); sess != nil {
		return sess, nil
	}

	sess, err := s.newVisitorSession()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Upsert(sess.ID, sess); err != nil {
		return nil, errors.Wrap(err, "[Server.ensureSession] upsert session")
	}
	s.setSessionCookie(w, sess.ID)
	return sess, nil
}

// lookupSession resolves the sid cookie to a live session, or nil. Each hit
// slides the expiry forward so active visitors are never cut off mid-visit.
func (s *Server) lookupSession(r *http.Request) *websession.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := s.sessions.Get(cookie.Value)
	if err != nil {
		return nil
	}
	now := s.nowTime()
	if sess.Expired(now) {
		_ = s.sessions.Delete(cookie.Value)
		return nil
	}
	sess.Touch(now, s.config.GetSessionTTL())
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}
