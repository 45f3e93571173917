package store

import (
	"context"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/pagination"
)

// Payments is read-only in the admin console: a paged list plus aggregate
// stats.
type Payments struct {
	api *api.Client

	mu         sync.Mutex
	items      []api.Payment
	stats      *api.PaymentStats
	err        string
	pageIndex  int
	pageSize   int
	totalPages int
	totalCount int64
	status     string
}

func NewPayments(client *api.Client) *Payments {
	return &Payments{api: client, pageIndex: DefaultPageIndex, pageSize: DefaultPageSize}
}

// SetStatus replaces the status filter without resetting pagination.
func (s *Payments) SetStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *Payments) Fetch(ctx context.Context, statusOverride *string) error {
	s.mu.Lock()
	if statusOverride != nil {
		s.status = *statusOverride
		s.pageIndex = DefaultPageIndex
	}
	params := api.ListPaymentsParams{
		PageIndex: s.pageIndex,
		PageSize:  s.pageSize,
		Status:    s.status,
	}
	s.mu.Unlock()

	page, err := s.api.ListPayments(ctx, params)

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

func (s *Payments) FetchStats(ctx context.Context) error {
	stats, err := s.api.PaymentStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = api.ErrorMessage(err)
		return err
	}
	s.stats = stats
	return nil
}

func (s *Payments) SetPage(n int) {
	s.mu.Lock()
	s.pageIndex, _ = normalizePage(n, s.pageSize)
	s.mu.Unlock()
}

func (s *Payments) SetPageSize(n int) {
	s.mu.Lock()
	_, s.pageSize = normalizePage(s.pageIndex, n)
	s.pageIndex = DefaultPageIndex
	s.mu.Unlock()
}

func (s *Payments) Items() []api.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Payments) Stats() *api.PaymentStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Payments) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Payments) PageInfo() (pageIndex, pageSize, totalPages int, totalCount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex, s.pageSize, s.totalPages, s.totalCount
}

func (s *Payments) Window() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.Window(s.pageIndex, s.totalPages, pagination.WindowSize)
}
