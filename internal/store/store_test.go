package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelhazem/storefront/internal/api"
)

func TestProductsFetchEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Products", r.URL.Path)
		assert.Equal(t, "mug", r.URL.Query().Get("search"))
		json.NewEncoder(w).Encode(api.Page[api.Product]{
			Items:      []api.Product{{ID: "p1", Name: "Mug"}},
			PageIndex:  1,
			PageSize:   10,
			TotalPages: 3,
			TotalCount: 25,
		})
	}))
	defer srv.Close()

	s := NewProducts(api.NewClient(srv.URL))
	require.NoError(t, s.Fetch(context.Background(), &ProductFilters{Search: "mug"}))

	require.Len(t, s.Items(), 1)
	pageIndex, pageSize, totalPages, totalCount := s.PageInfo()
	assert.Equal(t, 1, pageIndex)
	assert.Equal(t, 10, pageSize)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, int64(25), totalCount)
	assert.Equal(t, []int{1, 2, 3}, s.Window())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
}

func TestProductsFetchErrorClearsLoading(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
	}))
	defer srv.Close()

	s := NewProducts(api.NewClient(srv.URL))
	require.Error(t, s.Fetch(context.Background(), nil))
	assert.Equal(t, "backend down", s.Err())
	assert.False(t, s.Loading())
}

func TestProductsDeleteSplicesRow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(api.Page[api.Product]{
				Items:      []api.Product{{ID: "p1"}, {ID: "p2"}},
				PageIndex:  1, PageSize: 10, TotalPages: 1, TotalCount: 2,
			})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	s := NewProducts(api.NewClient(srv.URL))
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, nil))
	require.NoError(t, s.Delete(ctx, "p1"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestCategoriesFilter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Category{
			{CategoryID: "c1", Name: "Kitchen"},
			{CategoryID: "c2", Name: "Garden", Description: "outdoor things"},
		})
	}))
	defer srv.Close()

	s := NewCategories(api.NewClient(srv.URL))
	require.NoError(t, s.Fetch(context.Background()))

	assert.Len(t, s.Filter(""), 2)
	assert.Len(t, s.Filter("kitch"), 1)
	assert.Len(t, s.Filter("OUTDOOR"), 1)
	assert.Empty(t, s.Filter("nothing"))
}

func TestUsersClientSidePaging(t *testing.T) {
	t.Parallel()

	users := make([]api.User, 0, 23)
	for i := 1; i <= 23; i++ {
		users = append(users, api.User{
			UserID:   strconv.Itoa(i),
			Email:    fmt.Sprintf("user%d@shop.test", i),
			FullName: fmt.Sprintf("User %d", i),
		})
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(users)
	}))
	defer srv.Close()

	s := NewUsers(api.NewClient(srv.URL))
	require.NoError(t, s.Fetch(context.Background()))

	rows, totalPages, window := s.Page("", 3, 10)
	assert.Len(t, rows, 3)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, []int{1, 2, 3}, window)

	rows, totalPages, _ = s.Page("user1@", 1, 10)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].UserID)
	assert.Equal(t, 1, totalPages)

	// page index beyond the end clamps to the last page
	rows, _, _ = s.Page("", 99, 10)
	assert.Len(t, rows, 3)
}

func TestWriteFailureSetsErrorAndRethrows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string][]string{"sku": {"SKU already exists"}},
		})
	}))
	defer srv.Close()

	s := NewProducts(api.NewClient(srv.URL))
	_, err := s.Create(context.Background(), api.SaveProductRequest{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, "SKU already exists", s.Err())
	assert.Equal(t, "SKU already exists", api.ErrorMessage(err))
}
