package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/catalog"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func setupService(t *testing.T, status int, responseBody string) (*catalog.Service, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.RawQuery
		captured.Body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	service, err := catalog.NewService(apiclient.New(server.URL))
	require.NoError(t, err)
	return service, captured
}

func TestList_FetchesFullCatalog(t *testing.T) {
	service, captured := setupService(t, http.StatusOK,
		`[{"id": 1, "name": "Fudge", "category": "Chocolate", "price": "2.50", "quantity": 10}]`)

	sweets, err := service.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, captured.Method)
	require.Equal(t, "/sweets/", captured.Path)
	require.Len(t, sweets, 1)
	require.Equal(t, "Fudge", sweets[0].Name)
	require.Equal(t, catalog.CategoryChocolate, sweets[0].Category)
}

func TestGet_FetchesSingleSweet(t *testing.T) {
	service, captured := setupService(t, http.StatusOK,
		`{"id": 4, "name": "Cola Bottles", "category": "Gummy", "price": "1.20", "quantity": 30}`)

	sweet, err := service.Get(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "/sweets/4/", captured.Path)
	require.Equal(t, int64(4), sweet.ID)
}

func TestCreate_PostsInput(t *testing.T) {
	service, captured := setupService(t, http.StatusCreated,
		`{"id": 9, "name": "Sherbet Lemons", "category": "Hard Candy", "price": "0.80", "quantity": 50}`)

	sweet, err := service.Create(context.Background(), catalog.SweetInput{
		Name:     "Sherbet Lemons",
		Category: catalog.CategoryHardCandy,
		Price:    0.80,
		Quantity: 50,
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, captured.Method)
	require.Equal(t, "/sweets/", captured.Path)
	require.Equal(t, int64(9), sweet.ID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(captured.Body, &payload))
	require.Equal(t, "Sherbet Lemons", payload["name"])
	require.Equal(t, "Hard Candy", payload["category"])
	require.Equal(t, "0.80", payload["price"], "prices go over the wire as strings")
}

func TestUpdate_PutsToSweetPath(t *testing.T) {
	service, captured := setupService(t, http.StatusOK,
		`{"id": 2, "name": "Renamed", "category": "Sour", "price": "1.00", "quantity": 5}`)

	_, err := service.Update(context.Background(), 2, catalog.SweetInput{
		Name:     "Renamed",
		Category: catalog.CategorySour,
		Price:    1.00,
		Quantity: 5,
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, captured.Method)
	require.Equal(t, "/sweets/2/", captured.Path)
}

func TestDelete_SendsDelete(t *testing.T) {
	service, captured := setupService(t, http.StatusNoContent, ``)

	err := service.Delete(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, captured.Method)
	require.Equal(t, "/sweets/7/", captured.Path)
}

func TestSearch_SendsOnlyPresentFields(t *testing.T) {
	service, captured := setupService(t, http.StatusOK, `[]`)

	_, err := service.Search(context.Background(), catalog.Filter{
		Name:     "fudge",
		MaxPrice: "5",
	})
	require.NoError(t, err)
	require.Equal(t, "/sweets/search/", captured.Path)
	require.Equal(t, "max_price=5&name=fudge", captured.Query)
}

// TestSearch_EmptyFilterSendsNoQueryString checks that an all-empty filter
// hits the search endpoint with no parameters at all.
func TestSearch_EmptyFilterSendsNoQueryString(t *testing.T) {
	service, captured := setupService(t, http.StatusOK, `[]`)

	_, err := service.Search(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	require.Equal(t, "/sweets/search/", captured.Path)
	require.Empty(t, captured.Query)
}

func TestFilter_IsZero(t *testing.T) {
	require.True(t, catalog.Filter{}.IsZero())
	require.False(t, catalog.Filter{Name: "x"}.IsZero())
	require.False(t, catalog.Filter{Category: catalog.CategoryGummy}.IsZero())
	require.False(t, catalog.Filter{MinPrice: "1"}.IsZero())
	require.False(t, catalog.Filter{MaxPrice: "9"}.IsZero())
}

func TestDecimal_AcceptsStringsAndNumbers(t *testing.T) {
	var sweet catalog.Sweet
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "price": "2.50"}`), &sweet))
	require.EqualValues(t, 2.50, sweet.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "price": 7.5}`), &sweet))
	require.EqualValues(t, 7.5, sweet.Price)
	require.Equal(t, "7.50", sweet.Price.String())

	require.Error(t, json.Unmarshal([]byte(`{"id": 1, "price": "not-a-price"}`), &sweet))
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range catalog.Categories() {
		require.True(t, c.Valid(), string(c))
	}
	require.False(t, catalog.Category("Fruity").Valid())
	require.False(t, catalog.Category("").Valid())
}
