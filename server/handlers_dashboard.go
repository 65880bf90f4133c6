package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/authclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
)

// SuccessFlash is the success panel shown after a mutation, carried across
// the redirect as query parameters so the dashboard render stays stateless.
type SuccessFlash struct {
	Message string
	Details []FlashDetail
}

type FlashDetail struct {
	Label string
	Value string
}

// DashboardPageData contains data for rendering the dashboard page
type DashboardPageData struct {
	AppName    string
	User       *authclient.User
	Sweets     []catalog.Sweet
	IsSearch   bool
	Filter     catalog.Filter
	Categories []catalog.Category
	Success    *SuccessFlash
	Error      string
}

// DashboardHandler renders the catalog listing (GET /dashboard). Query
// parameters carry an optional search filter; an all-empty filter is the
// full listing. The list is fetched fresh on every render, so it always
// reflects server state.
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse dashboard template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())

		filter := filterFromQuery(r.URL.Query())
		data := DashboardPageData{
			AppName:    s.config.GetAppName(),
			User:       sess.Auth.Snapshot().User,
			Filter:     filter,
			Categories: catalog.Categories(),
			Success:    flashFromQuery(r.URL.Query()),
		}

		if err := sess.Board.Search(r.Context(), filter); err != nil {
			log.Err(err).Msg("dashboard listing failed")
			data.Error = "Could not load sweets. Please try again."
		}
		data.Sweets = sess.Board.Sweets()
		data.IsSearch = sess.Board.IsSearch()

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := dashboardTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
			http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		}
	}
}

func filterFromQuery(query url.Values) catalog.Filter {
	return catalog.Filter{
		Name:     query.Get("name"),
		Category: catalog.Category(query.Get("category")),
		MinPrice: query.Get("min_price"),
		MaxPrice: query.Get("max_price"),
	}
}

// flashFromQuery rebuilds the success panel after a mutation redirect. The
// purchase and restock flows hand their result values through verbatim.
func flashFromQuery(query url.Values) *SuccessFlash {
	message := query.Get("success")
	if message == "" {
		return nil
	}

	flash := &SuccessFlash{Message: message}
	for _, detail := range []struct {
		param string
		label string
	}{
		{"purchased", "Purchased"},
		{"total", "Total Cost"},
		{"remaining", "Remaining Stock"},
		{"added", "Added"},
		{"previous", "Previous Stock"},
		{"new", "New Stock"},
	} {
		if value := query.Get(detail.param); value != "" {
			flash.Details = append(flash.Details, FlashDetail{Label: detail.label, Value: value})
		}
	}
	return flash
}

// redirectDashboardSuccess sends the visitor back to the dashboard with a
// success flash. The current search, if any, is preserved so the reloaded
// listing matches what they were looking at.
func redirectDashboardSuccess(w http.ResponseWriter, r *http.Request, filter catalog.Filter, message string, details url.Values) {
	params := filter.Values()
	params.Set("success", message)
	for key, values := range details {
		for _, value := range values {
			params.Add(key, value)
		}
	}
	http.Redirect(w, r, RouteDashboard+"?"+params.Encode(), http.StatusSeeOther)
}
