package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/session"
	"github.com/sweetshoplabs/sweetshop-web/websession"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the visitor's web session
const ContextKeySession ContextKey = "web_session"

// RequireSession is the route guard for the dashboard subtree. An unresolved
// session is bootstrapped first (the one-time profile fetch against the
// stored token); anything short of authenticated redirects to the login
// page. No side effects beyond that bootstrap.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.lookupSession(r)
		if sess == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		snap := sess.Auth.Snapshot()
		if snap.Status == session.StatusChecking {
			sess.Auth.Bootstrap(r.Context())
			snap = sess.Auth.Snapshot()
		}
		if !snap.Authenticated() {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext pulls the web session the guard injected. Handlers
// behind RequireSession can rely on it being present.
func sessionFromContext(ctx context.Context) *websession.Session {
	sess, _ := ctx.Value(ContextKeySession).(*websession.Session)
	return sess
}

func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			logRoute(r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("recovered from handler panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) FrameSecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent embedding on other sites
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next.ServeHTTP(w, r)
	})
}
