package store

import (
	"context"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/pagination"
)

type OrderFilters struct {
	Status string
	Search string
}

type Orders struct {
	api *api.Client

	mu         sync.Mutex
	items      []api.Order
	err        string
	pageIndex  int
	pageSize   int
	totalPages int
	totalCount int64
	filters    OrderFilters
}

func NewOrders(client *api.Client) *Orders {
	return &Orders{api: client, pageIndex: DefaultPageIndex, pageSize: DefaultPageSize}
}

func (s *Orders) Fetch(ctx context.Context, override *OrderFilters) error {
	s.mu.Lock()
	if override != nil {
		s.filters = *override
		s.pageIndex = DefaultPageIndex
	}
	params := api.ListOrdersParams{
		PageIndex: s.pageIndex,
		PageSize:  s.pageSize,
		Status:    s.filters.Status,
		Search:    s.filters.Search,
	}
	s.mu.Unlock()

	page, err := s.api.ListOrders(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
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

// SetFilters replaces the filters without resetting pagination.
func (s *Orders) SetFilters(f OrderFilters) {
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
}

// Delete removes the order server-side, then drops the row locally. Status
// changes are backend-owned, delete is the only admin mutation.
func (s *Orders) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		s.mu.Lock()
		s.err = api.ErrorMessage(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	items := s.items[:0]
	for _, o := range s.items {
		if o.OrderID != id {
			items = append(items, o)
		}
	}
	s.items = items
	if s.totalCount > 0 {
		s.totalCount--
	}
	s.mu.Unlock()
	return nil
}

func (s *Orders) SetPage(n int) {
	s.mu.Lock()
	s.pageIndex, _ = normalizePage(n, s.pageSize)
	s.mu.Unlock()
}

func (s *Orders) SetPageSize(n int) {
	s.mu.Lock()
	_, s.pageSize = normalizePage(s.pageIndex, n)
	s.pageIndex = DefaultPageIndex
	s.mu.Unlock()
}

func (s *Orders) Items() []api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Orders) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Orders) PageInfo() (pageIndex, pageSize, totalPages int, totalCount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex, s.pageSize, s.totalPages, s.totalCount
}

func (s *Orders) Window() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.Window(s.pageIndex, s.totalPages, pagination.WindowSize)
}
