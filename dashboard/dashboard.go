// Package dashboard orchestrates the catalog listing: what is currently
// displayed, whether it is the full catalog or search results, and the
// reload-after-mutation rule. The displayed list is always replaced wholesale
// from the API, never patched incrementally, so it reflects server state at
// the cost of an extra round trip per action.
package dashboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/sweetshoplabs/sweetshop-web/catalog"
)

// Listing distinguishes the full catalog from search results; it decides the
// empty-state copy and whether a clear-search affordance is shown.
type Listing string

const (
	ListingAll    Listing = "all"
	ListingSearch Listing = "search"
)

// Catalog is the slice of the catalog service the controller needs.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Sweet, error)
	Search(ctx context.Context, filter catalog.Filter) ([]catalog.Sweet, error)
}

type Controller struct {
	mu      sync.Mutex
	catalog Catalog
	sweets  []catalog.Sweet
	listing Listing
	filter  catalog.Filter
}

func NewController(svc Catalog) (*Controller, error) {
	if svc == nil {
		return nil, errors.New("[dashboard.NewController] catalog service is required")
	}
	return &Controller{catalog: svc, listing: ListingAll}, nil
}

// Load fetches the full catalog and switches to the all-items listing.
func (c *Controller) Load(ctx context.Context) error {
	sweets, err := c.catalog.List(ctx)
	if err != nil {
		return errors.Wrap(err, "[Controller.Load] list")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweets = sweets
	c.listing = ListingAll
	c.filter = catalog.Filter{}
	return nil
}

// Search applies a filter. An all-empty filter is the same as Load: no
// query parameters are sent and the view returns to the all-items listing.
func (c *Controller) Search(ctx context.Context, filter catalog.Filter) error {
	if filter.IsZero() {
		return c.Load(ctx)
	}

	sweets, err := c.catalog.Search(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "[Controller.Search] search")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweets = sweets
	c.listing = ListingSearch
	c.filter = filter
	return nil
}

// ClearSearch drops the filter and reloads the full catalog.
func (c *Controller) ClearSearch(ctx context.Context) error {
	return c.Load(ctx)
}

// Refresh re-fetches whichever listing is current. Called after every
// successful create, update, delete, purchase or restock so no stale entry
// survives a mutation.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	listing := c.listing
	filter := c.filter
	c.mu.Unlock()

	if listing == ListingSearch {
		return c.Search(ctx, filter)
	}
	return c.Load(ctx)
}

// Sweets returns a copy of the displayed list.
func (c *Controller) Sweets() []catalog.Sweet {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]catalog.Sweet, len(c.sweets))
	copy(out, c.sweets)
	return out
}

// Listing reports which listing is displayed.
func (c *Controller) Listing() Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing
}

// IsSearch reports whether search results are displayed, i.e. whether the
// clear-search affordance applies.
func (c *Controller) IsSearch() bool {
	return c.Listing() == ListingSearch
}

// Filter returns the active search filter (zero when listing all).
func (c *Controller) Filter() catalog.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}
