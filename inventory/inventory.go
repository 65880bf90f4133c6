// Package inventory wraps the purchase and restock endpoints. Both calls are
// pass-throughs: stock arithmetic and authorization live server-side, and
// any client-side bounds in the flows exist purely for UX.
package inventory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
)

const (
	DefaultPurchaseQuantity = 1
	DefaultRestockQuantity  = 10
)

// PurchaseResult mirrors the purchase response payload.
type PurchaseResult struct {
	Message           string          `json:"message"`
	PurchasedQuantity int             `json:"purchased_quantity"`
	TotalCost         catalog.Decimal `json:"total_cost"`
	RemainingQuantity int             `json:"remaining_quantity"`
	Sweet             *catalog.Sweet  `json:"sweet,omitempty"`
}

// RestockResult mirrors the restock response payload.
type RestockResult struct {
	Message          string         `json:"message"`
	AddedQuantity    int            `json:"added_quantity"`
	PreviousQuantity int            `json:"previous_quantity"`
	NewQuantity      int            `json:"new_quantity"`
	Sweet            *catalog.Sweet `json:"sweet,omitempty"`
}

type quantityBody struct {
	Quantity int `json:"quantity"`
}

type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) (*Service, error) {
	if api == nil {
		return nil, errors.New("[inventory.NewService] api client is required")
	}
	return &Service{api: api}, nil
}

// Purchase decrements stock server-side. A non-positive quantity falls back
// to the default of 1.
func (s *Service) Purchase(ctx context.Context, sweetID int64, quantity int) (*PurchaseResult, error) {
	if quantity <= 0 {
		quantity = DefaultPurchaseQuantity
	}

	var result PurchaseResult
	path := fmt.Sprintf("/sweets/%d/purchase/", sweetID)
	if err := s.api.Post(ctx, path, quantityBody{Quantity: quantity}, &result); err != nil {
		return nil, errors.Wrapf(err, "[Service.Purchase] POST %s", path)
	}
	return &result, nil
}

// Restock increments stock server-side. Admin only, enforced by the API. A
// non-positive quantity falls back to the default of 10.
func (s *Service) Restock(ctx context.Context, sweetID int64, quantity int) (*RestockResult, error) {
	if quantity <= 0 {
		quantity = DefaultRestockQuantity
	}

	var result RestockResult
	path := fmt.Sprintf("/sweets/%d/restock/", sweetID)
	if err := s.api.Post(ctx, path, quantityBody{Quantity: quantity}, &result); err != nil {
		return nil, errors.Wrapf(err, "[Service.Restock] POST %s", path)
	}
	return &result, nil
}
