package store

import (
	"context"
	"strings"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
)

// Categories is a flat-list container: the backend returns everything at
// once and filtering happens client-side.
type Categories struct {
	api *api.Client

	mu    sync.Mutex
	items []api.Category
	err   string
}

func NewCategories(client *api.Client) *Categories {
	return &Categories{api: client}
}

func (s *Categories) Fetch(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = api.ErrorMessage(err)
		return err
	}
	s.err = ""
	s.items = categories
	return nil
}

func (s *Categories) Create(ctx context.Context, req api.SaveCategoryRequest) (*api.Category, error) {
	category, err := s.api.CreateCategory(ctx, req)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.items = append(s.items, *category)
	s.mu.Unlock()
	return category, nil
}

func (s *Categories) Update(ctx context.Context, id string, req api.SaveCategoryRequest) (*api.Category, error) {
	category, err := s.api.UpdateCategory(ctx, id, req)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].CategoryID == id {
			s.items[i] = *category
			break
		}
	}
	s.mu.Unlock()
	return category, nil
}

func (s *Categories) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	items := s.items[:0]
	for _, c := range s.items {
		if c.CategoryID != id {
			items = append(items, c)
		}
	}
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *Categories) setErr(err error) {
	s.mu.Lock()
	s.err = api.ErrorMessage(err)
	s.mu.Unlock()
}

func (s *Categories) Items() []api.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// Filter returns categories whose name or description contains the query,
// case-insensitive.
func (s *Categories) Filter(query string) []api.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.items
	}
	out := make([]api.Category, 0, len(s.items))
	for _, c := range s.items {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Categories) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
