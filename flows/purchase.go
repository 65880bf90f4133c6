// Package flows contains the purchase and restock submission state machines
// that back the confirmation dialogs. They are deliberately free of any UI
// concern: editing -> submitting -> done, with a failed submit dropping back
// to editing. Quantity bounds here only improve UX; the API remains the
// authority on stock.
package flows

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/inventory"
)

type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
)

const (
	genericPurchaseError = "Purchase failed. Please try again."
	invalidQuantityError = "Invalid quantity selected"
)

// Purchaser is the slice of the inventory service a purchase flow needs.
type Purchaser interface {
	Purchase(ctx context.Context, sweetID int64, quantity int) (*inventory.PurchaseResult, error)
}

// Purchase drives one purchase confirmation for one sweet. Quantity is
// clamped to [1, stock]; out-of-range input sets an advisory message rather
// than a hard error. Not safe for concurrent use beyond the in-flight guard:
// like its UI counterpart, one flow belongs to one dialog.
type Purchase struct {
	mu       sync.Mutex
	sweet    catalog.Sweet
	quantity int
	advisory string
	errMsg   string
	state    State
	result   *inventory.PurchaseResult
}

func NewPurchase(sweet catalog.Sweet) *Purchase {
	return &Purchase{
		sweet:    sweet,
		quantity: inventory.DefaultPurchaseQuantity,
		state:    StateEditing,
	}
}

// SetQuantity applies edited input, clamping to the nearest bound. Values
// above the available stock clamp to the stock ceiling and raise the
// "Only N units available" advisory; values below one clamp to one silently.
func (p *Purchase) SetQuantity(quantity int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advisory = ""
	switch {
	case quantity < 1:
		p.quantity = 1
	case quantity > p.sweet.Quantity:
		p.quantity = p.sweet.Quantity
		p.advisory = fmt.Sprintf("Only %d units available", p.sweet.Quantity)
	default:
		p.quantity = quantity
	}
}

// Increment raises the quantity by one, bounded by available stock.
func (p *Purchase) Increment() {
	p.SetQuantity(p.Quantity() + 1)
}

// Decrement lowers the quantity by one, bounded by one.
func (p *Purchase) Decrement() {
	p.SetQuantity(p.Quantity() - 1)
}

func (p *Purchase) Sweet() catalog.Sweet {
	return p.sweet
}

func (p *Purchase) Quantity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quantity
}

func (p *Purchase) Advisory() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advisory
}

func (p *Purchase) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *Purchase) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Purchase) Result() *inventory.PurchaseResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// TotalCost previews price times quantity.
func (p *Purchase) TotalCost() catalog.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sweet.Price * catalog.Decimal(p.quantity)
}

// CanSubmit reports whether the confirm control should be enabled: editing
// state and quantity within [1, stock].
func (p *Purchase) CanSubmit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canSubmitLocked()
}

func (p *Purchase) canSubmitLocked() bool {
	return p.state == StateEditing && p.quantity >= 1 && p.quantity <= p.sweet.Quantity
}

// Submit confirms the purchase. While a request is in flight the flow is in
// submitting state and a second Submit is rejected, mirroring the disabled
// confirm button. Failure surfaces the server message and returns the flow
// to editing.
func (p *Purchase) Submit(ctx context.Context, svc Purchaser) (*inventory.PurchaseResult, error) {
	p.mu.Lock()
	if p.state == StateSubmitting {
		p.mu.Unlock()
		return nil, weberrors.ErrSubmissionInFlight
	}
	if !p.canSubmitLocked() {
		p.errMsg = invalidQuantityError
		p.mu.Unlock()
		return nil, weberrors.ErrInvalidQuantity
	}
	p.state = StateSubmitting
	p.errMsg = ""
	quantity := p.quantity
	sweetID := p.sweet.ID
	p.mu.Unlock()

	result, err := svc.Purchase(ctx, sweetID, quantity)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateEditing
		p.errMsg = submissionErrorMessage(err, genericPurchaseError)
		return nil, err
	}
	p.state = StateDone
	p.result = result
	return result, nil
}

func submissionErrorMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fallback
}
