package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/sweetshoplabs/sweetshop-web/catalog"
	"github.com/sweetshoplabs/sweetshop-web/flows"
)

// PurchasePageData is the purchase dialog model, built from the flow state.
type PurchasePageData struct {
	AppName   string
	Sweet     catalog.Sweet
	Quantity  int
	StepDown  int
	StepUp    int
	Total     string
	UnitPrice string
	Advisory  string
	Error     string
	CanSubmit bool
	Action    string
}

// purchaseFlowForRequest builds the flow for the targeted sweet and applies
// whatever quantity the request carries (query on GET, form on POST). The
// flow clamps and raises the advisory; handlers just render what it says.
func purchaseFlowForRequest(r *http.Request, sweet catalog.Sweet) *flows.Purchase {
	flow := flows.NewPurchase(sweet)
	raw := r.FormValue("quantity")
	if raw == "" {
		raw = r.URL.Query().Get("quantity")
	}
	if raw != "" {
		if quantity, err := strconv.Atoi(raw); err == nil {
			flow.SetQuantity(quantity)
		}
	}
	return flow
}

func (s *Server) purchasePageData(flow *flows.Purchase) PurchasePageData {
	sweet := flow.Sweet()
	return PurchasePageData{
		AppName:   s.config.GetAppName(),
		Sweet:     sweet,
		Quantity:  flow.Quantity(),
		StepDown:  flow.Quantity() - 1,
		StepUp:    flow.Quantity() + 1,
		Total:     flow.TotalCost().String(),
		UnitPrice: sweet.Price.String(),
		Advisory:  flow.Advisory(),
		Error:     flow.Err(),
		CanSubmit: flow.CanSubmit(),
		Action:    fmt.Sprintf("/sweets/%d/purchase", sweet.ID),
	}
}

// PurchasePageHandler renders the purchase dialog (GET
// /sweets/{id}/purchase). The +-1 controls are links back here with the
// adjusted quantity.
func (s *Server) PurchasePageHandler() http.HandlerFunc {
	purchaseTmpl, err := ParseTemplate("purchase.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse purchase template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sweet, ok := s.sweetForRequest(w, r)
		if !ok {
			return
		}

		flow := purchaseFlowForRequest(r, *sweet)
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := purchaseTmpl.Execute(w, s.purchasePageData(flow)); err != nil {
			log.Err(err).Msg("Failed to render purchase template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// PurchaseSubmissionHandler confirms a purchase (POST /sweets/{id}/purchase).
// Success redirects to the dashboard with the result values verbatim;
// failure re-renders the dialog with the server's message.
func (s *Server) PurchaseSubmissionHandler() http.HandlerFunc {
	purchaseTmpl, err := ParseTemplate("purchase.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse purchase template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		sweet, ok := s.sweetForRequest(w, r)
		if !ok {
			return
		}

		flow := purchaseFlowForRequest(r, *sweet)
		result, err := flow.Submit(r.Context(), sess.Inventory)
		if err != nil {
			log.Warn().Err(err).Int64("sweet_id", sweet.ID).Msg("purchase failed")
			w.Header().Set("Content-Type", contentTypeHTML)
			if err := purchaseTmpl.Execute(w, s.purchasePageData(flow)); err != nil {
				log.Err(err).Msg("Failed to render purchase template")
				http.Error(w, "Failed to render page", http.StatusInternalServerError)
			}
			return
		}

		if err := sess.Board.Refresh(r.Context()); err != nil {
			log.Err(err).Msg("catalog refresh after purchase failed")
		}

		details := url.Values{}
		details.Set("purchased", strconv.Itoa(result.PurchasedQuantity))
		details.Set("total", result.TotalCost.String())
		details.Set("remaining", strconv.Itoa(result.RemainingQuantity))
		redirectDashboardSuccess(w, r, sess.Board.Filter(), result.Message, details)
	}
}

// RestockPageData is the restock dialog model.
type RestockPageData struct {
	AppName   string
	Sweet     catalog.Sweet
	Quantity  int
	NewTotal  int
	Error     string
	CanSubmit bool
	Action    string
	Steps     []RestockStep
}

type RestockStep struct {
	Label    string
	Quantity int
}

func (s *Server) restockPageData(flow *flows.Restock) RestockPageData {
	sweet := flow.Sweet()
	quantity := flow.Quantity()

	steps := make([]RestockStep, 0, 4)
	for _, delta := range []int{-10, -1, +1, +10} {
		label := fmt.Sprintf("%+d", delta)
		stepped := flows.NewRestock(sweet)
		stepped.SetQuantity(quantity)
		stepped.Step(delta)
		steps = append(steps, RestockStep{Label: label, Quantity: stepped.Quantity()})
	}

	return RestockPageData{
		AppName:   s.config.GetAppName(),
		Sweet:     sweet,
		Quantity:  quantity,
		NewTotal:  flow.NewTotal(),
		Error:     flow.Err(),
		CanSubmit: flow.CanSubmit(),
		Action:    fmt.Sprintf("/sweets/%d/restock", sweet.ID),
		Steps:     steps,
	}
}

func restockFlowForRequest(r *http.Request, sweet catalog.Sweet) *flows.Restock {
	flow := flows.NewRestock(sweet)
	raw := r.FormValue("quantity")
	if raw == "" {
		raw = r.URL.Query().Get("quantity")
	}
	if raw != "" {
		if quantity, err := strconv.Atoi(raw); err == nil {
			flow.SetQuantity(quantity)
		}
	}
	return flow
}

// RestockPageHandler renders the restock dialog (GET /sweets/{id}/restock).
// Admin only.
func (s *Server) RestockPageHandler() http.HandlerFunc {
	restockTmpl, err := ParseTemplate("restock.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse restock template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}
		sweet, ok := s.sweetForRequest(w, r)
		if !ok {
			return
		}

		flow := restockFlowForRequest(r, *sweet)
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := restockTmpl.Execute(w, s.restockPageData(flow)); err != nil {
			log.Err(err).Msg("Failed to render restock template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// RestockSubmissionHandler confirms a restock (POST /sweets/{id}/restock).
func (s *Server) RestockSubmissionHandler() http.HandlerFunc {
	restockTmpl, err := ParseTemplate("restock.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse restock template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if !s.requireAdmin(w, r, sess) {
			return
		}
		sweet, ok := s.sweetForRequest(w, r)
		if !ok {
			return
		}

		flow := restockFlowForRequest(r, *sweet)
		result, err := flow.Submit(r.Context(), sess.Inventory)
		if err != nil {
			log.Warn().Err(err).Int64("sweet_id", sweet.ID).Msg("restock failed")
			w.Header().Set("Content-Type", contentTypeHTML)
			if err := restockTmpl.Execute(w, s.restockPageData(flow)); err != nil {
				log.Err(err).Msg("Failed to render restock template")
				http.Error(w, "Failed to render page", http.StatusInternalServerError)
			}
			return
		}

		if err := sess.Board.Refresh(r.Context()); err != nil {
			log.Err(err).Msg("catalog refresh after restock failed")
		}

		details := url.Values{}
		details.Set("added", strconv.Itoa(result.AddedQuantity))
		details.Set("previous", strconv.Itoa(result.PreviousQuantity))
		details.Set("new", strconv.Itoa(result.NewQuantity))
		redirectDashboardSuccess(w, r, sess.Board.Filter(), result.Message, details)
	}
}

// sweetForRequest resolves the {id} path variable to a live sweet, writing
// the 404 itself when it cannot.
func (s *Server) sweetForRequest(w http.ResponseWriter, r *http.Request) (*catalog.Sweet, bool) {
	sess := sessionFromContext(r.Context())
	id, ok := sweetIDFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	sweet, err := sess.Catalog.Get(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	return sweet, true
}
