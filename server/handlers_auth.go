package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/authclient"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form (POST /login). On success
// the visitor lands on the dashboard; on failure they come back here with
// the error message and their email preserved.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")

		if !s.loginLimiter.Allow(r.RemoteAddr) {
			redirectLoginError(w, r, email, "Too many login attempts. Please wait a moment and try again.")
			return
		}

		sess, err := s.ensureSession(w, r)
		if err != nil {
			log.Err(err).Msg("failed to create web session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		result := sess.Auth.Login(r.Context(), email, password)
		if !result.Success {
			redirectLoginError(w, r, email, result.Error)
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

func redirectLoginError(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	params := url.Values{}
	params.Set("error", errMsg)
	if email != "" {
		params.Set("email", email)
	}
	http.Redirect(w, r, RouteLogin+"?"+params.Encode(), http.StatusSeeOther)
}

// RegisterPageData contains data for rendering the registration page
type RegisterPageData struct {
	AppName string
	Error   string            // general banner
	Fields  map[string]string // per-field messages
	Form    authclient.RegistrationForm
}

// RegisterPageHandler displays the registration page (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	registerTmpl, err := ParseTemplate("register.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse register template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := RegisterPageData{AppName: s.config.GetAppName()}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := registerTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render register template")
			http.Error(w, "Failed to render register page", http.StatusInternalServerError)
		}
	}
}

// RegisterSubmissionHandler processes the registration form (POST
// /register). Local validation failures render per-field messages without
// touching the API; server failures come back as a single banner.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	registerTmpl, err := ParseTemplate("register.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse register template")
	}

	render := func(w http.ResponseWriter, data RegisterPageData) {
		data.AppName = s.config.GetAppName()
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := registerTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render register template")
			http.Error(w, "Failed to render register page", http.StatusInternalServerError)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := authclient.RegistrationForm{
			Email:     r.FormValue("email"),
			Username:  r.FormValue("username"),
			Password:  r.FormValue("password"),
			Password2: r.FormValue("password2"),
		}

		// Field-level validation first, so a bad form never reaches the API.
		if err := authclient.ValidateRegistration(form); err != nil {
			validationErr, ok := err.(*authclient.ValidationError)
			fields := map[string]string{}
			if ok {
				fields = validationErr.Fields
			}
			render(w, RegisterPageData{Fields: fields, Form: form})
			return
		}

		sess, err := s.ensureSession(w, r)
		if err != nil {
			log.Err(err).Msg("failed to create web session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		result := sess.Auth.Register(r.Context(), form)
		if !result.Success {
			render(w, RegisterPageData{Error: result.Error, Form: form})
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LogoutHandler clears the stored tokens and forgets the web session. Local
// only; there is no logout call against the API.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess := s.lookupSession(r); sess != nil {
			sess.Auth.Logout()
			_ = s.sessions.Delete(sess.ID)
		}
		s.clearSessionCookie(w)
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
