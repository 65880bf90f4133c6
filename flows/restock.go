package flows

import (
	"context"
	"sync"

	"github.com/sweetshoplabs/sweetshop-web/catalog"
	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/inventory"
)

// MaxRestockQuantity is a UI ceiling on a single restock, not a server
// contract.
const MaxRestockQuantity = 1000

const genericRestockError = "Restock failed. Please try again."

// Restocker is the slice of the inventory service a restock flow needs.
type Restocker interface {
	Restock(ctx context.Context, sweetID int64, quantity int) (*inventory.RestockResult, error)
}

// Restock drives one restock confirmation. Same machine as Purchase but the
// only client-side bound is [1, MaxRestockQuantity], with +-1 and +-10 step
// controls for convenience.
type Restock struct {
	mu       sync.Mutex
	sweet    catalog.Sweet
	quantity int
	errMsg   string
	state    State
	result   *inventory.RestockResult
}

func NewRestock(sweet catalog.Sweet) *Restock {
	return &Restock{
		sweet:    sweet,
		quantity: inventory.DefaultRestockQuantity,
		state:    StateEditing,
	}
}

// SetQuantity applies edited input, clamped to [1, MaxRestockQuantity].
func (r *Restock) SetQuantity(quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case quantity < 1:
		r.quantity = 1
	case quantity > MaxRestockQuantity:
		r.quantity = MaxRestockQuantity
	default:
		r.quantity = quantity
	}
}

// Step adjusts the quantity by delta (the +-1/+-10 buttons), staying within
// bounds.
func (r *Restock) Step(delta int) {
	r.SetQuantity(r.Quantity() + delta)
}

func (r *Restock) Sweet() catalog.Sweet {
	return r.sweet
}

func (r *Restock) Quantity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quantity
}

func (r *Restock) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

func (r *Restock) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Restock) Result() *inventory.RestockResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// NewTotal previews current stock plus the quantity to add.
func (r *Restock) NewTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweet.Quantity + r.quantity
}

// CanSubmit reports whether the confirm control should be enabled.
func (r *Restock) CanSubmit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canSubmitLocked()
}

func (r *Restock) canSubmitLocked() bool {
	return r.state == StateEditing && r.quantity >= 1 && r.quantity <= MaxRestockQuantity
}

// Submit confirms the restock, with the same in-flight guard and
// failure-returns-to-editing behavior as Purchase.
func (r *Restock) Submit(ctx context.Context, svc Restocker) (*inventory.RestockResult, error) {
	r.mu.Lock()
	if r.state == StateSubmitting {
		r.mu.Unlock()
		return nil, weberrors.ErrSubmissionInFlight
	}
	if !r.canSubmitLocked() {
		r.errMsg = invalidQuantityError
		r.mu.Unlock()
		return nil, weberrors.ErrInvalidQuantity
	}
	r.state = StateSubmitting
	r.errMsg = ""
	quantity := r.quantity
	sweetID := r.sweet.ID
	r.mu.Unlock()

	result, err := svc.Restock(ctx, sweetID, quantity)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StateEditing
		r.errMsg = submissionErrorMessage(err, genericRestockError)
		return nil, err
	}
	r.state = StateDone
	r.result = result
	return result, nil
}
