// Package catalog wraps the /sweets CRUD and search endpoints. Each call is
// a thin pass-through: the API owns all validation and the normalized error
// from the request layer propagates unchanged.
package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
)

type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) (*Service, error) {
	if api == nil {
		return nil, errors.New("[catalog.NewService] api client is required")
	}
	return &Service{api: api}, nil
}

// List fetches the full catalog.
func (s *Service) List(ctx context.Context) ([]Sweet, error) {
	var sweets []Sweet
	if err := s.api.Get(ctx, "/sweets/", &sweets); err != nil {
		return nil, errors.Wrap(err, "[Service.List] GET /sweets/")
	}
	return sweets, nil
}

// Get fetches a single sweet by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Sweet, error) {
	var sweet Sweet
	if err := s.api.Get(ctx, fmt.Sprintf("/sweets/%d/", id), &sweet); err != nil {
		return nil, errors.Wrapf(err, "[Service.Get] GET /sweets/%d/", id)
	}
	return &sweet, nil
}

// Create adds a new sweet. Admin only, enforced server-side.
func (s *Service) Create(ctx context.Context, input SweetInput) (*Sweet, error) {
	var sweet Sweet
	if err := s.api.Post(ctx, "/sweets/", input, &sweet); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] POST /sweets/")
	}
	return &sweet, nil
}

// Update replaces a sweet. Admin only, enforced server-side.
func (s *Service) Update(ctx context.Context, id int64, input SweetInput) (*Sweet, error) {
	var sweet Sweet
	if err := s.api.Put(ctx, fmt.Sprintf("/sweets/%d/", id), input, &sweet); err != nil {
		return nil, errors.Wrapf(err, "[Service.Update] PUT /sweets/%d/", id)
	}
	return &sweet, nil
}

// Delete removes a sweet. Admin only, enforced server-side.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/sweets/%d/", id)); err != nil {
		return errors.Wrapf(err, "[Service.Delete] DELETE /sweets/%d/", id)
	}
	return nil
}

// Search fetches sweets matching the filter. Absent filter fields are not
// sent at all; an all-empty filter issues the search with no query string,
// which the API treats the same as a full listing.
func (s *Service) Search(ctx context.Context, filter Filter) ([]Sweet, error) {
	path := "/sweets/search/"
	if params := filter.Values(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	var sweets []Sweet
	if err := s.api.Get(ctx, path, &sweets); err != nil {
		return nil, errors.Wrap(err, "[Service.Search] GET /sweets/search/")
	}
	return sweets, nil
}
