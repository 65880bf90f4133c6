package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const (
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteLogout    = "/logout"
	RouteDashboard = "/dashboard"

	RouteSweetNew      = "/sweets/new"
	RouteSweetEdit     = "/sweets/{id:[0-9]+}/edit"
	RouteSweetDelete   = "/sweets/{id:[0-9]+}/delete"
	RouteSweetPurchase = "/sweets/{id:[0-9]+}/purchase"
	RouteSweetRestock  = "/sweets/{id:[0-9]+}/restock"
)

func (s *Server) initRoutes() {
	r := mux.NewRouter()
	r.Use(s.RecoverMiddleware, s.LoggingMiddleware, s.FrameSecurityMiddleware)

	// Public pages
	r.HandleFunc(RouteRoot, s.RootHandler()).Methods(http.MethodGet)
	r.HandleFunc(RouteLogin, s.LoginPageHandler()).Methods(http.MethodGet)
	r.HandleFunc(RouteLogin, s.LoginSubmissionHandler()).Methods(http.MethodPost)
	r.HandleFunc(RouteRegister, s.RegisterPageHandler()).Methods(http.MethodGet)
	r.HandleFunc(RouteRegister, s.RegisterSubmissionHandler()).Methods(http.MethodPost)
	r.HandleFunc(RouteLogout, s.LogoutHandler()).Methods(http.MethodGet)

	// Static assets
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", FileServerHandler())).Methods(http.MethodGet)

	// Everything below requires an authenticated session
	guarded := r.NewRoute().Subrouter()
	guarded.Use(s.RequireSession)
	guarded.HandleFunc(RouteDashboard, s.DashboardHandler()).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetNew, s.SweetFormPageHandler(false)).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetNew, s.SweetCreateHandler()).Methods(http.MethodPost)
	guarded.HandleFunc(RouteSweetEdit, s.SweetFormPageHandler(true)).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetEdit, s.SweetUpdateHandler()).Methods(http.MethodPost)
	guarded.HandleFunc(RouteSweetDelete, s.DeleteConfirmationPageHandler()).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetDelete, s.SweetDeleteHandler()).Methods(http.MethodPost)
	guarded.HandleFunc(RouteSweetPurchase, s.PurchasePageHandler()).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetPurchase, s.PurchaseSubmissionHandler()).Methods(http.MethodPost)
	guarded.HandleFunc(RouteSweetRestock, s.RestockPageHandler()).Methods(http.MethodGet)
	guarded.HandleFunc(RouteSweetRestock, s.RestockSubmissionHandler()).Methods(http.MethodPost)

	s.router = r
}

// RootHandler redirects the bare root to the dashboard; the guard takes it
// from there.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	_ = s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil //nolint:nilerr
		}
		methods, err := route.GetMethods()
		if err != nil {
			logRoute("", path)
			return nil //nolint:nilerr
		}
		for _, method := range methods {
			logRoute(method, path)
		}
		return nil
	})
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[strings.ToUpper(method)]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
