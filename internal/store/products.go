package store

import (
	"context"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/pagination"
)

type ProductFilters struct {
	Search     string
	CategoryID string
	Published  *bool
}

type Products struct {
	api *api.Client

	mu         sync.Mutex
	items      []api.Product
	err        string
	loading    bool
	pageIndex  int
	pageSize   int
	totalPages int
	totalCount int64
	filters    ProductFilters
}

func NewProducts(client *api.Client) *Products {
	return &Products{api: client, pageIndex: DefaultPageIndex, pageSize: DefaultPageSize}
}

// Fetch merges the optional filter override with current state, issues one
// list call and replaces the page. Loading is cleared no matter how the call
// ends.
func (s *Products) Fetch(ctx context.Context, override *ProductFilters) error {
	s.mu.Lock()
	if override != nil {
		s.filters = *override
		s.pageIndex = DefaultPageIndex
	}
	s.loading = true
	params := api.ListProductsParams{
		PageIndex:  s.pageIndex,
		PageSize:   s.pageSize,
		Search:     s.filters.Search,
		CategoryID: s.filters.CategoryID,
		Published:  s.filters.Published,
	}
	s.mu.Unlock()

	page, err := s.api.ListProducts(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = api.ErrorMessage(err)
		return err
	}
	s.err = ""
	s.items = page.Items
	s.pageIndex = page.PageIndex
	s.pageSize = page.PageSize
	s.totalPages = page.TotalPages
	s.totalCount = page.TotalCount
	return nil
}

// SetFilters replaces the filters without resetting pagination, for callers
// that carry both in the same request.
func (s *Products) SetFilters(f ProductFilters) {
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
}

func (s *Products) Create(ctx context.Context, req api.SaveProductRequest) (*api.Product, error) {
	product, err := s.api.CreateProduct(ctx, req)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	return product, nil
}

// Update splices the result into the current page so the row reflects the
// save without a full re-fetch.
func (s *Products) Update(ctx context.Context, id string, req api.SaveProductRequest) (*api.Product, error) {
	product, err := s.api.UpdateProduct(ctx, id, req)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = *product
			break
		}
	}
	s.mu.Unlock()
	return product, nil
}

func (s *Products) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	items := s.items[:0]
	for _, p := range s.items {
		if p.ID != id {
			items = append(items, p)
		}
	}
	s.items = items
	if s.totalCount > 0 {
		s.totalCount--
	}
	s.mu.Unlock()
	return nil
}

func (s *Products) setErr(err error) {
	s.mu.Lock()
	s.err = api.ErrorMessage(err)
	s.mu.Unlock()
}

func (s *Products) SetPage(n int) {
	s.mu.Lock()
	s.pageIndex, _ = normalizePage(n, s.pageSize)
	s.mu.Unlock()
}

func (s *Products) SetPageSize(n int) {
	s.mu.Lock()
	_, s.pageSize = normalizePage(s.pageIndex, n)
	s.pageIndex = DefaultPageIndex
	s.mu.Unlock()
}

func (s *Products) Items() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Products) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Products) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Products) PageInfo() (pageIndex, pageSize, totalPages int, totalCount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex, s.pageSize, s.totalPages, s.totalCount
}

// Window is the visible page-number strip for the table pager.
func (s *Products) Window() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.Window(s.pageIndex, s.totalPages, pagination.WindowSize)
}
