package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/adelhazem/storefront/internal/api"
)

var ErrNotLoaded = errors.New("cart: not loaded")

// State holds the active cart snapshot for one user. Quantity edits go to the
// backend and are reconciled by an authoritative re-fetch, local deltas are
// never trusted for money-bearing totals.
type State struct {
	api *api.Client

	mu      sync.Mutex
	userID  string
	current *api.Cart
}

func New(client *api.Client) *State {
	return &State{api: client}
}

func (s *State) Load(ctx context.Context, userID string) error {
	cart, err := s.api.GetCartByUser(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.userID = userID
	s.current = cart
	s.mu.Unlock()
	return nil
}

func (s *State) Current() *api.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subtotal is a pure fold over unit price times quantity.
func (s *State) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	var total float64
	for _, it := range s.current.Items {
		total += it.UnitPriceAmount * float64(it.Quantity)
	}
	return total
}

func (s *State) item(itemID string) (*api.CartItem, string, error) {
	if s.current == nil {
		return nil, "", ErrNotLoaded
	}
	for i := range s.current.Items {
		if s.current.Items[i].ItemID == itemID {
			return &s.current.Items[i], s.current.ID, nil
		}
	}
	return nil, "", errors.New("cart: item not found")
}

// Decrement lowers an item's quantity by one. At quantity 1 the control is a
// no-op, removal goes through Remove instead.
func (s *State) Decrement(ctx context.Context, itemID string) error {
	s.mu.Lock()
	it, cartID, err := s.item(itemID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if it.Quantity <= 1 {
		s.mu.Unlock()
		return nil
	}
	next := it.Quantity - 1
	userID := s.userID
	s.mu.Unlock()

	if err := s.api.UpdateCartItem(ctx, cartID, itemID, next); err != nil {
		return err
	}
	return s.Load(ctx, userID)
}

func (s *State) Increment(ctx context.Context, itemID string) error {
	s.mu.Lock()
	it, cartID, err := s.item(itemID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next := it.Quantity + 1
	userID := s.userID
	s.mu.Unlock()

	if err := s.api.UpdateCartItem(ctx, cartID, itemID, next); err != nil {
		return err
	}
	return s.Load(ctx, userID)
}

// Remove deletes the line item and re-fetches the cart so totals stay
// authoritative. There is no optimistic removal.
func (s *State) Remove(ctx context.Context, itemID string) error {
	s.mu.Lock()
	_, cartID, err := s.item(itemID)
	userID := s.userID
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.api.RemoveCartItem(ctx, cartID, itemID); err != nil {
		return err
	}
	return s.Load(ctx, userID)
}
