package store

import (
	"context"
	"strings"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/pagination"
)

// Users is a flat list from the backend; search and paging happen
// client-side in the admin table.
type Users struct {
	api *api.Client

	mu    sync.Mutex
	items []api.User
	err   string
}

func NewUsers(client *api.Client) *Users {
	return &Users{api: client}
}

func (s *Users) Fetch(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = api.ErrorMessage(err)
		return err
	}
	s.err = ""
	s.items = users
	return nil
}

func (s *Users) Update(ctx context.Context, id string, req api.SaveUserRequest) (*api.User, error) {
	user, err := s.api.UpdateUser(ctx, id, req)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].UserID == id {
			s.items[i] = *user
			break
		}
	}
	s.mu.Unlock()
	return user, nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	items := s.items[:0]
	for _, u := range s.items {
		if u.UserID != id {
			items = append(items, u)
		}
	}
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *Users) setErr(err error) {
	s.mu.Lock()
	s.err = api.ErrorMessage(err)
	s.mu.Unlock()
}

// Page filters client-side and slices out one page, returning the rows, the
// total page count and the pager window.
func (s *Users) Page(query string, pageIndex, pageSize int) ([]api.User, int, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pageIndex, pageSize = normalizePage(pageIndex, pageSize)

	q := strings.ToLower(strings.TrimSpace(query))
	filtered := s.items
	if q != "" {
		filtered = make([]api.User, 0, len(s.items))
		for _, u := range s.items {
			if strings.Contains(strings.ToLower(u.Email), q) ||
				strings.Contains(strings.ToLower(u.FullName), q) {
				filtered = append(filtered, u)
			}
		}
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if pageIndex > totalPages {
		pageIndex = totalPages
	}

	start := (pageIndex - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], totalPages, pagination.Window(pageIndex, totalPages, pagination.WindowSize)
}

func (s *Users) Items() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Users) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
