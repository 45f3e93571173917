package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/logging"
)

// The checkout walks a linear state machine with back-navigation and no
// skip-ahead. Success and Cancelled are terminal.
type State string

const (
	StateCart         State = "Cart"
	StateShipping     State = "Shipping"
	StatePayment      State = "Payment"
	StateVerifyAndPay State = "VerifyAndPay"
	StateSuccess      State = "Success"
	StateCancelled    State = "Cancelled"
)

const (
	DeliveryFee = 20.0
	ServiceFee  = 20.0
)

var (
	ErrWrongState = errors.New("checkout: operation not allowed in current state")
	ErrEmptyCart  = errors.New("checkout: cart is empty")
	ErrNoShipping = errors.New("checkout: shipping info missing")
	ErrBadCode    = errors.New("checkout: verification code must be 4-8 digits")
)

// Flow threads a single draft order through the checkout screens. One flow
// per user, persisted between requests by the draft store.
type Flow struct {
	api *api.Client

	UserID    string
	State     State
	Cart      *api.Cart
	Shipping  *ShippingInfo
	OrderID   string
	PaymentID string
}

func NewFlow(client *api.Client, userID string) *Flow {
	return &Flow{api: client, UserID: userID, State: StateCart}
}

// Snapshot is the persistable part of a flow.
type Snapshot struct {
	UserID    string        `json:"userId"`
	State     State         `json:"state"`
	Shipping  *ShippingInfo `json:"shipping,omitempty"`
	OrderID   string        `json:"orderId,omitempty"`
	PaymentID string        `json:"paymentId,omitempty"`
}

func (f *Flow) Snapshot() Snapshot {
	return Snapshot{
		UserID:    f.UserID,
		State:     f.State,
		Shipping:  f.Shipping,
		OrderID:   f.OrderID,
		PaymentID: f.PaymentID,
	}
}

func Resume(client *api.Client, snap Snapshot) *Flow {
	f := &Flow{
		api:       client,
		UserID:    snap.UserID,
		State:     snap.State,
		Shipping:  snap.Shipping,
		OrderID:   snap.OrderID,
		PaymentID: snap.PaymentID,
	}
	if f.State == "" {
		f.State = StateCart
	}
	return f
}

func (f *Flow) LoadCart(ctx context.Context) error {
	cart, err := f.api.GetCartByUser(ctx, f.UserID)
	if err != nil {
		return err
	}
	f.Cart = cart
	return nil
}

func (f *Flow) Subtotal() float64 {
	if f.Cart == nil {
		return 0
	}
	var total float64
	for _, it := range f.Cart.Items {
		total += it.UnitPriceAmount * float64(it.Quantity)
	}
	return total
}

func (f *Flow) Total() float64 {
	return f.Subtotal() + DeliveryFee + ServiceFee
}

// AdvanceToShipping moves Cart -> Shipping once the cart has lines.
func (f *Flow) AdvanceToShipping() error {
	if f.State != StateCart {
		return ErrWrongState
	}
	if f.Cart == nil || len(f.Cart.Items) == 0 {
		return ErrEmptyCart
	}
	f.State = StateShipping
	return nil
}

// SubmitShipping validates the whole form, stores the draft and advances to
// Payment. Any field failure blocks the transition.
func (f *Flow) SubmitShipping(form *ShippingForm) error {
	if f.State != StateShipping {
		return ErrWrongState
	}
	if !form.Validate() {
		return fmt.Errorf("checkout: shipping form invalid: %d field(s)", len(form.Errors()))
	}
	info := form.Info()
	f.Shipping = &info
	f.State = StatePayment
	return nil
}

// Back steps one screen towards the cart. Terminal states stay put.
func (f *Flow) Back() {
	switch f.State {
	case StateShipping:
		f.State = StateCart
	case StatePayment:
		f.State = StateShipping
	case StateVerifyAndPay:
		f.State = StatePayment
	}
}

func (f *Flow) currency() string {
	if f.Cart != nil && f.Cart.Currency != "" {
		return f.Cart.Currency
	}
	return "EGP"
}

func (f *Flow) createDraftOrder(ctx context.Context) (*api.Order, error) {
	if f.Shipping == nil {
		return nil, ErrNoShipping
	}
	if f.Cart == nil || len(f.Cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]api.CreateOrderItem, 0, len(f.Cart.Items))
	for _, it := range f.Cart.Items {
		items = append(items, api.CreateOrderItem{
			ProductVariantID: it.ProductVariantID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPriceAmount,
			Currency:         f.currency(),
		})
	}

	order, err := f.api.CreateOrder(ctx, api.CreateOrderRequest{
		UserID: f.UserID,
		Status: "Draft",
		ShippingAddress: fmt.Sprintf("%s, %s, %s, %s",
			f.Shipping.FullName, f.Shipping.Address, f.Shipping.City, f.Shipping.PostalCode),
		PhoneNumber: f.Shipping.Phone,
		Items:       items,
		TotalAmount: f.Total(),
		Currency:    f.currency(),
	})
	if err != nil {
		return nil, err
	}
	f.OrderID = order.OrderID
	return order, nil
}

// StartPayment creates the Draft order, the Pending Stripe payment and the
// hosted checkout session, in that order, and returns the URL the browser is
// sent to. A failure part-way leaves whatever was already created in place;
// the only recovery is the manual cancel action.
func (f *Flow) StartPayment(ctx context.Context, successURL, cancelURL string) (string, error) {
	if f.State != StatePayment {
		return "", ErrWrongState
	}

	if _, err := f.createDraftOrder(ctx); err != nil {
		return "", err
	}

	payment, err := f.api.CreatePayment(ctx, api.CreatePaymentRequest{
		OrderID:  f.OrderID,
		Amount:   f.Total(),
		Currency: f.currency(),
		Provider: "Stripe",
		Status:   "Pending",
	})
	if err != nil {
		return "", err
	}
	f.PaymentID = payment.PaymentID

	session, err := f.api.CreateStripeSession(ctx, api.StripeSessionRequest{
		PaymentID:  f.PaymentID,
		OrderID:    f.OrderID,
		SuccessURL: withCheckoutParams(successURL, f.PaymentID, f.OrderID),
		CancelURL:  withCheckoutParams(cancelURL, f.PaymentID, f.OrderID),
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// EnterVerify switches to the manual card flow instead of the hosted
// redirect.
func (f *Flow) EnterVerify() error {
	if f.State != StatePayment {
		return ErrWrongState
	}
	f.State = StateVerifyAndPay
	return nil
}

type CardDetails struct {
	Number string
	Holder string
	Expiry string
	CVC    string
}

// VerifyAndPay runs the manual payment path: the order is created on the fly
// if the hosted step never made one, the code shape is checked locally and
// then soft-verified against the backend. A failing verify call is logged
// and the charge still goes through, that fallback is deliberate.
func (f *Flow) VerifyAndPay(ctx context.Context, card CardDetails, code string) error {
	if f.State != StateVerifyAndPay {
		return ErrWrongState
	}
	if !ValidVerificationCode(code) {
		return ErrBadCode
	}

	if f.OrderID == "" {
		if _, err := f.createDraftOrder(ctx); err != nil {
			return err
		}
	}

	if err := f.api.VerifyCode(ctx, api.VerifyCodeRequest{OrderID: f.OrderID, Code: code}); err != nil {
		logging.FromContext(ctx).Warn("verify_code_failed", "order_id", f.OrderID, "error", err)
	}

	payment, err := f.api.CreatePayment(ctx, api.CreatePaymentRequest{
		OrderID:          f.OrderID,
		Amount:           f.Total(),
		Currency:         f.currency(),
		Provider:         "Card",
		Status:           "Pending",
		CardNumber:       card.Number,
		CardHolder:       card.Holder,
		CardExpiry:       card.Expiry,
		CardCVC:          card.CVC,
		VerificationCode: code,
	})
	if err != nil {
		return err
	}
	f.PaymentID = payment.PaymentID
	f.State = StateSuccess
	return nil
}

// Complete marks the flow finished after the hosted checkout returned via
// the success URL.
func (f *Flow) Complete() {
	f.State = StateSuccess
}

// CancelOrder deletes the draft order. The payment record, if one exists, is
// left behind on purpose, there is no compensating delete.
func (f *Flow) CancelOrder(ctx context.Context) error {
	if f.OrderID == "" {
		return errors.New("checkout: no order to cancel")
	}
	if err := f.api.DeleteOrder(ctx, f.OrderID); err != nil {
		return err
	}
	f.State = StateCancelled
	return nil
}

func withCheckoutParams(base, paymentID, orderID string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("paymentId", paymentID)
	q.Set("orderId", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}
