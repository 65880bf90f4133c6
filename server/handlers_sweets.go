package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
	"github.com/sweetshoplabs/sweetshop-web/websession"
)

// SweetFormData is the create/edit form model. Values stay strings so a
// rejected submission renders back exactly what the visitor typed.
type SweetFormData struct {
	Name        string
	Category    string
	Description string
	Price       string
	Quantity    string
}

// SweetFormPageData contains data for rendering the sweet form page
type SweetFormPageData struct {
	AppName    string
	Title      string
	Action     string
	IsEdit     bool
	Form       SweetFormData
	Categories []catalog.Category
	Error      string
	Fields     map[string]string
}

// SweetFormPageHandler renders the create or edit form (GET /sweets/new,
// GET /sweets/{id}/edit). Admin affordance only; the API is the actual
// authority.
func (s *Server) SweetFormPageHandler(isEdit bool) http.HandlerFunc {
	formTmpl, err := ParseTemplate("sweet_form.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse sweet form template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}

		data := SweetFormPageData{
			AppName:    s.config.GetAppName(),
			Title:      "Add New Sweet",
			Action:     RouteSweetNew,
			IsEdit:     isEdit,
			Categories: catalog.Categories(),
			Form:       SweetFormData{Category: string(catalog.CategoryOther), Quantity: "0"},
		}

		if isEdit {
			id, ok := sweetIDFromRequest(r)
			if !ok {
				http.NotFound(w, r)
				return
			}
			sweet, err := sess.Catalog.Get(r.Context(), id)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			data.Title = "Edit Sweet"
			data.Action = fmt.Sprintf("/sweets/%d/edit", id)
			data.Form = SweetFormData{
				Name:        sweet.Name,
				Category:    string(sweet.Category),
				Description: sweet.Description,
				Price:       sweet.Price.String(),
				Quantity:    strconv.Itoa(sweet.Quantity),
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := formTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render sweet form template")
			http.Error(w, "Failed to render form", http.StatusInternalServerError)
		}
	}
}

// SweetCreateHandler processes the create form (POST /sweets/new).
func (s *Server) SweetCreateHandler() http.HandlerFunc {
	return s.sweetSubmissionHandler(false)
}

// SweetUpdateHandler processes the edit form (POST /sweets/{id}/edit).
func (s *Server) SweetUpdateHandler() http.HandlerFunc {
	return s.sweetSubmissionHandler(true)
}

func (s *Server) sweetSubmissionHandler(isEdit bool) http.HandlerFunc {
	formTmpl, err := ParseTemplate("sweet_form.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse sweet form template")
	}

	render := func(w http.ResponseWriter, data SweetFormPageData) {
		data.AppName = s.config.GetAppName()
		data.Categories = catalog.Categories()
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := formTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render sweet form template")
			http.Error(w, "Failed to render form", http.StatusInternalServerError)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := SweetFormData{
			Name:        r.FormValue("name"),
			Category:    r.FormValue("category"),
			Description: r.FormValue("description"),
			Price:       r.FormValue("price"),
			Quantity:    r.FormValue("quantity"),
		}
		data := SweetFormPageData{
			Title:  "Add New Sweet",
			Action: RouteSweetNew,
			IsEdit: isEdit,
			Form:   form,
		}

		// The edit form must keep posting back to its own sweet even when a
		// submission is rejected, so resolve the id before any validation.
		var id int64
		if isEdit {
			var ok bool
			id, ok = sweetIDFromRequest(r)
			if !ok {
				http.NotFound(w, r)
				return
			}
			data.Title = "Edit Sweet"
			data.Action = fmt.Sprintf("/sweets/%d/edit", id)
		}

		input, fields := parseSweetForm(form)
		if len(fields) > 0 {
			data.Fields = fields
			render(w, data)
			return
		}

		var (
			submitErr error
			success   string
		)
		if isEdit {
			_, submitErr = sess.Catalog.Update(r.Context(), id, input)
			success = fmt.Sprintf("%s updated successfully", input.Name)
		} else {
			_, submitErr = sess.Catalog.Create(r.Context(), input)
			success = fmt.Sprintf("%s added to the shop", input.Name)
		}

		if submitErr != nil {
			data.Fields, data.Error = sweetSubmissionErrors(submitErr)
			render(w, data)
			return
		}

		if err := sess.Board.Refresh(r.Context()); err != nil {
			log.Err(err).Msg("catalog refresh after sweet submission failed")
		}
		redirectDashboardSuccess(w, r, sess.Board.Filter(), success, nil)
	}
}

// DeleteConfirmationPageHandler renders the delete confirmation (GET
// /sweets/{id}/delete).
func (s *Server) DeleteConfirmationPageHandler() http.HandlerFunc {
	deleteTmpl, err := ParseTemplate("delete.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse delete template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}
		id, ok := sweetIDFromRequest(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		sweet, err := sess.Catalog.Get(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		data := struct {
			AppName string
			Sweet   catalog.Sweet
			Action  string
		}{
			AppName: s.config.GetAppName(),
			Sweet:   *sweet,
			Action:  fmt.Sprintf("/sweets/%d/delete", id),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := deleteTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render delete template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// SweetDeleteHandler removes a sweet (POST /sweets/{id}/delete).
func (s *Server) SweetDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}
		id, ok := sweetIDFromRequest(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := sess.Catalog.Delete(r.Context(), id); err != nil {
			log.Err(err).Int64("sweet_id", id).Msg("delete failed")
			params := url.Values{}
			params.Set("error", "Delete failed. Please try again.")
			http.Redirect(w, r, RouteDashboard+"?"+params.Encode(), http.StatusSeeOther)
			return
		}

		if err := sess.Board.Refresh(r.Context()); err != nil {
			log.Err(err).Msg("catalog refresh after delete failed")
		}
		redirectDashboardSuccess(w, r, sess.Board.Filter(), "Sweet deleted", nil)
	}
}

// requireAdmin hides admin-only pages from regular visitors. This is a UX
// affordance; the API rejects non-admin mutations regardless.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, sess *websession.Session) bool {
	user := sess.Auth.Snapshot().User
	if user == nil || !user.IsAdmin {
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
		return false
	}
	return true
}

func sweetIDFromRequest(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseSweetForm converts the string form into the API payload, collecting
// local parse errors per field.
func parseSweetForm(form SweetFormData) (catalog.SweetInput, map[string]string) {
	fields := make(map[string]string)

	if form.Name == "" {
		fields["name"] = "Name is required"
	}
	category := catalog.Category(form.Category)
	if !category.Valid() {
		fields["category"] = "Choose a valid category"
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		fields["price"] = "Enter a valid price"
	}
	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil || quantity < 0 {
		fields["quantity"] = "Enter a valid quantity"
	}

	if len(fields) > 0 {
		return catalog.SweetInput{}, fields
	}
	return catalog.SweetInput{
		Name:        form.Name,
		Category:    category,
		Description: form.Description,
		Price:       catalog.Decimal(price),
		Quantity:    quantity,
	}, nil
}

// sweetSubmissionErrors maps an API failure to per-field messages plus a
// general banner fallback.
func sweetSubmissionErrors(err error) (map[string]string, string) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return nil, "Something went wrong. Please try again."
	}

	fields := make(map[string]string)
	for _, field := range []string{"name", "category", "description", "price", "quantity"} {
		if msg := apiErr.FieldError(field); msg != "" {
			fields[field] = msg
		}
	}
	if len(fields) > 0 {
		return fields, ""
	}
	return nil, apiErr.Error()
}
