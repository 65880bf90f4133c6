package flows_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
	"github.com/sweetshoplabs/sweetshop-web/flows"
	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/inventory"
)

// fakePurchaser is a controllable stand-in for the inventory service.
type fakePurchaser struct {
	mu      sync.Mutex
	calls   int
	lastQty int
	result  *inventory.PurchaseResult
	err     error
	release chan struct{} // when set, Purchase blocks until closed
}

func (f *fakePurchaser) Purchase(ctx context.Context, sweetID int64, quantity int) (*inventory.PurchaseResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastQty = quantity
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return f.result, f.err
}

func testSweet() catalog.Sweet {
	return catalog.Sweet{ID: 1, Name: "Fudge", Category: catalog.CategoryChocolate, Price: 2.50, Quantity: 5}
}

func TestNewPurchase_StartsEditingWithQuantityOne(t *testing.T) {
	flow := flows.NewPurchase(testSweet())

	require.Equal(t, flows.StateEditing, flow.State())
	require.Equal(t, 1, flow.Quantity())
	require.True(t, flow.CanSubmit())
}

func TestSetQuantity_ClampsToStockWithAdvisory(t *testing.T) {
	flow := flows.NewPurchase(testSweet())

	flow.SetQuantity(9)
	require.Equal(t, 5, flow.Quantity())
	require.Equal(t, "Only 5 units available", flow.Advisory())

	// A subsequent in-range edit clears the advisory.
	flow.SetQuantity(3)
	require.Equal(t, 3, flow.Quantity())
	require.Empty(t, flow.Advisory())
}

func TestSetQuantity_ClampsBelowOneSilently(t *testing.T) {
	flow := flows.NewPurchase(testSweet())

	flow.SetQuantity(-3)
	require.Equal(t, 1, flow.Quantity())
	require.Empty(t, flow.Advisory())
}

func TestIncrementDecrement_StayWithinBounds(t *testing.T) {
	flow := flows.NewPurchase(testSweet())

	flow.Decrement()
	require.Equal(t, 1, flow.Quantity())

	for i := 0; i < 10; i++ {
		flow.Increment()
	}
	require.Equal(t, 5, flow.Quantity())
}

func TestTotalCost_PreviewsPriceTimesQuantity(t *testing.T) {
	flow := flows.NewPurchase(testSweet())
	flow.SetQuantity(3)

	require.EqualValues(t, 7.50, flow.TotalCost())
	require.Equal(t, "7.50", flow.TotalCost().String())
}

func TestCanSubmit_FalseForOutOfStockSweet(t *testing.T) {
	sweet := testSweet()
	sweet.Quantity = 0
	flow := flows.NewPurchase(sweet)

	require.False(t, flow.CanSubmit())
}

func TestSubmit_SuccessLandsDone(t *testing.T) {
	svc := &fakePurchaser{result: &inventory.PurchaseResult{
		Message:           "Successfully purchased 2 units",
		PurchasedQuantity: 2,
		TotalCost:         5.00,
		RemainingQuantity: 3,
	}}

	flow := flows.NewPurchase(testSweet())
	flow.SetQuantity(2)

	result, err := flow.Submit(context.Background(), svc)
	require.NoError(t, err)
	require.Equal(t, flows.StateDone, flow.State())
	require.Equal(t, 2, svc.lastQty)
	require.Equal(t, result, flow.Result())
	require.False(t, flow.CanSubmit())
}

func TestSubmit_FailureReturnsToEditingWithServerMessage(t *testing.T) {
	svc := &fakePurchaser{err: &apiclient.APIError{
		Status: 400,
		Reason: "Insufficient stock. Only 2 units available.",
	}}

	flow := flows.NewPurchase(testSweet())
	flow.SetQuantity(4)

	_, err := flow.Submit(context.Background(), svc)
	require.Error(t, err)
	require.Equal(t, flows.StateEditing, flow.State())
	require.Equal(t, "Insufficient stock. Only 2 units available.", flow.Err())
	require.True(t, flow.CanSubmit(), "failed submit leaves the flow editable")
}

func TestSubmit_FailureWithoutAPIErrorUsesGenericMessage(t *testing.T) {
	svc := &fakePurchaser{err: context.DeadlineExceeded}

	flow := flows.NewPurchase(testSweet())

	_, err := flow.Submit(context.Background(), svc)
	require.Error(t, err)
	require.Equal(t, "Purchase failed. Please try again.", flow.Err())
}

func TestSubmit_InvalidQuantityRejectedWithoutNetwork(t *testing.T) {
	svc := &fakePurchaser{}
	sweet := testSweet()
	sweet.Quantity = 0
	flow := flows.NewPurchase(sweet)

	_, err := flow.Submit(context.Background(), svc)
	require.ErrorIs(t, err, weberrors.ErrInvalidQuantity)
	require.Equal(t, "Invalid quantity selected", flow.Err())
	require.Zero(t, svc.calls)
}

// TestSubmit_SecondSubmitWhileInFlightIsRejected mirrors the disabled
// confirm button: only one request per flow at a time.
func TestSubmit_SecondSubmitWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	svc := &fakePurchaser{
		result:  &inventory.PurchaseResult{Message: "ok"},
		release: release,
	}

	flow := flows.NewPurchase(testSweet())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = flow.Submit(context.Background(), svc)
	}()

	require.Eventually(t, func() bool {
		return flow.State() == flows.StateSubmitting
	}, testWait, testTick)

	_, err := flow.Submit(context.Background(), svc)
	require.ErrorIs(t, err, weberrors.ErrSubmissionInFlight)

	close(release)
	<-done
	require.Equal(t, flows.StateDone, flow.State())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Equal(t, 1, svc.calls)
}
