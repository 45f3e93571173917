package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/cart"
	"github.com/adelhazem/storefront/internal/checkout"
	"github.com/adelhazem/storefront/internal/draft"
	"github.com/adelhazem/storefront/internal/events"
	"github.com/adelhazem/storefront/internal/logging"
	appmw "github.com/adelhazem/storefront/internal/middleware"
)

// CheckoutHTTP owns the cart and the checkout screens. The flow state lives
// in the draft store between requests, keyed by user.
type CheckoutHTTP struct {
	API    *api.Client
	Drafts *draft.Store
	Events *events.Producer

	PublicBaseURL string
}

func (h *CheckoutHTTP) RegisterRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.POST("/cart/add", h.AddToCart, requireLogin)
	e.GET("/my-orders", h.MyOrders, requireLogin)
	e.POST("/orders/:id/cancel", h.CancelOrder, requireLogin)

	g := e.Group("/checkout", requireLogin)
	g.GET("/cart", h.CartReview)
	g.POST("/cart/items/:id/increment", h.IncrementItem)
	g.POST("/cart/items/:id/decrement", h.DecrementItem)
	g.POST("/cart/items/:id/remove", h.RemoveItem)
	g.POST("/cart/continue", h.ContinueToShipping)
	g.GET("/shipping", h.ShippingPage)
	g.POST("/shipping", h.SubmitShipping)
	g.GET("/payment", h.PaymentPage)
	g.POST("/payment", h.StartPayment)
	g.POST("/payment/card", h.EnterCardFlow)
	g.POST("/verify-and-pay", h.VerifyAndPay)
	g.POST("/back", h.Back)
	g.GET("/success", h.Success)
	g.GET("/cancel", h.Cancelled)
}

func (h *CheckoutHTTP) flow(c echo.Context) (*checkout.Flow, error) {
	ctx := c.Request().Context()
	userID := appmw.UserID(c)

	snap, ok, err := h.Drafts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return checkout.NewFlow(h.API, userID), nil
	}
	return checkout.Resume(h.API, snap), nil
}

func (h *CheckoutHTTP) save(c echo.Context, f *checkout.Flow) {
	ctx := c.Request().Context()
	if err := h.Drafts.Save(ctx, f.Snapshot()); err != nil {
		logging.FromContext(ctx).Error("save_draft_failed", "user_id", f.UserID, "error", err)
	}
}

func (h *CheckoutHTTP) publish(c echo.Context, action string, f *checkout.Flow) {
	if h.Events == nil {
		return
	}
	ctx := c.Request().Context()
	event := echo.Map{
		"action":    action,
		"userId":    f.UserID,
		"state":     f.State,
		"orderId":   f.OrderID,
		"paymentId": f.PaymentID,
	}
	if err := h.Events.Publish(ctx, events.TopicCheckoutEvents, f.UserID, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicCheckoutEvents, "error", err)
	}
}

func (h *CheckoutHTTP) view(c echo.Context, f *checkout.Flow) error {
	return c.JSON(http.StatusOK, echo.Map{
		"state":       f.State,
		"cart":        f.Cart,
		"shipping":    f.Shipping,
		"subtotal":    f.Subtotal(),
		"deliveryFee": checkout.DeliveryFee,
		"serviceFee":  checkout.ServiceFee,
		"total":       f.Total(),
		"orderId":     f.OrderID,
		"paymentId":   f.PaymentID,
	})
}

func (h *CheckoutHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.add_to_cart")

	var req api.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.UserID = appmw.UserID(c)
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	updated, err := h.API.AddCartItem(ctx, req)
	if err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CheckoutHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.my_orders")

	orders, err := h.API.MyOrders(ctx)
	if err != nil {
		l.Error("my_orders_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *CheckoutHTTP) CartReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.cart_review")

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.LoadCart(ctx); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}
	return h.view(c, f)
}

func (h *CheckoutHTTP) cartEdit(c echo.Context, name string, op func(*cart.State, string) error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout."+name)

	state := cart.New(h.API)
	if err := state.Load(ctx, appmw.UserID(c)); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}
	if err := op(state, c.Param("id")); err != nil {
		l.Warn(name+"_failed", "status", 400, "item_id", c.Param("id"), "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, state.Current())
}

func (h *CheckoutHTTP) IncrementItem(c echo.Context) error {
	return h.cartEdit(c, "increment_item", func(s *cart.State, id string) error {
		return s.Increment(c.Request().Context(), id)
	})
}

func (h *CheckoutHTTP) DecrementItem(c echo.Context) error {
	return h.cartEdit(c, "decrement_item", func(s *cart.State, id string) error {
		return s.Decrement(c.Request().Context(), id)
	})
}

func (h *CheckoutHTTP) RemoveItem(c echo.Context) error {
	return h.cartEdit(c, "remove_item", func(s *cart.State, id string) error {
		return s.Remove(c.Request().Context(), id)
	})
}

func (h *CheckoutHTTP) ContinueToShipping(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.continue")

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.LoadCart(ctx); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}
	if err := f.AdvanceToShipping(); err != nil {
		l.Warn("advance_failed", "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	h.save(c, f)
	h.publish(c, "checkout_started", f)
	return h.view(c, f)
}

func (h *CheckoutHTTP) ShippingPage(c echo.Context) error {
	f, err := h.flow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if f.State != checkout.StateShipping && f.State != checkout.StatePayment {
		return c.Redirect(http.StatusFound, "/checkout/cart")
	}
	return h.view(c, f)
}

type shippingRequest struct {
	FullName   string `json:"fullName" form:"fullName"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	PostalCode string `json:"postalCode" form:"postalCode"`
}

func (h *CheckoutHTTP) SubmitShipping(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit_shipping")

	var req shippingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.LoadCart(ctx); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	form := checkout.NewShippingForm()
	form.Set(checkout.FieldFullName, req.FullName)
	form.Set(checkout.FieldEmail, req.Email)
	form.Set(checkout.FieldPhone, req.Phone)
	form.Set(checkout.FieldAddress, req.Address)
	form.Set(checkout.FieldCity, req.City)
	form.Set(checkout.FieldPostalCode, req.PostalCode)

	if err := f.SubmitShipping(form); err != nil {
		if errors.Is(err, checkout.ErrWrongState) {
			l.Warn("shipping_wrong_state", "status", 409, "state", string(f.State), "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		l.Warn("shipping_rejected", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "Please fix the highlighted fields.",
			"errors":  form.Errors(),
		})
	}

	h.save(c, f)
	return h.view(c, f)
}

func (h *CheckoutHTTP) PaymentPage(c echo.Context) error {
	f, err := h.flow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if f.State != checkout.StatePayment && f.State != checkout.StateVerifyAndPay {
		return c.Redirect(http.StatusFound, "/checkout/cart")
	}
	return h.view(c, f)
}

// StartPayment kicks off the hosted flow and sends the browser to the
// provider's checkout page.
func (h *CheckoutHTTP) StartPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.start_payment")

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.LoadCart(ctx); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	successURL := h.PublicBaseURL + "/checkout/success"
	cancelURL := h.PublicBaseURL + "/checkout/cancel"
	hostedURL, err := f.StartPayment(ctx, successURL, cancelURL)

	// the draft keeps whatever ids were created, even on failure, so the
	// user can still cancel the stranded order
	h.save(c, f)

	if err != nil {
		l.Error("start_payment_failed", "status", 502, "order_id", f.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	h.publish(c, "payment_started", f)
	return c.Redirect(http.StatusSeeOther, hostedURL)
}

func (h *CheckoutHTTP) EnterCardFlow(c echo.Context) error {
	f, err := h.flow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.EnterVerify(); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	h.save(c, f)
	return h.view(c, f)
}

type verifyAndPayRequest struct {
	CardNumber       string `json:"cardNumber" form:"cardNumber"`
	CardHolder       string `json:"cardHolder" form:"cardHolder"`
	CardExpiry       string `json:"cardExpiry" form:"cardExpiry"`
	CardCVC          string `json:"cardCvc" form:"cardCvc"`
	VerificationCode string `json:"verificationCode" form:"verificationCode"`
}

func (h *CheckoutHTTP) VerifyAndPay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.verify_and_pay")

	var req verifyAndPayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if err := f.LoadCart(ctx); err != nil {
		l.Error("load_cart_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	card := checkout.CardDetails{
		Number: req.CardNumber,
		Holder: req.CardHolder,
		Expiry: req.CardExpiry,
		CVC:    req.CardCVC,
	}
	err = f.VerifyAndPay(ctx, card, req.VerificationCode)

	h.save(c, f)

	if err != nil {
		l.Warn("verify_and_pay_failed", "status", 400, "order_id", f.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "payment_completed", f)
	return h.view(c, f)
}

func (h *CheckoutHTTP) Back(c echo.Context) error {
	f, err := h.flow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	f.Back()
	h.save(c, f)
	return h.view(c, f)
}

// Success is the hosted checkout's return URL. The draft is finished and
// cleared so the next checkout starts from an empty flow.
func (h *CheckoutHTTP) Success(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.success")

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	f.Complete()
	h.publish(c, "checkout_completed", f)

	if err := h.Drafts.Delete(ctx, f.UserID); err != nil {
		l.Error("delete_draft_failed", "user_id", f.UserID, "error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"state":     f.State,
		"orderId":   c.QueryParam("orderId"),
		"paymentId": c.QueryParam("paymentId"),
		"message":   "Payment received. Thank you for your order.",
	})
}

// Cancelled is the hosted checkout's cancel URL. The order and payment
// created before the redirect stay where they are, cancelling the order is a
// separate explicit action.
func (h *CheckoutHTTP) Cancelled(c echo.Context) error {
	f, err := h.flow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":     f.State,
		"orderId":   c.QueryParam("orderId"),
		"paymentId": c.QueryParam("paymentId"),
		"message":   "Checkout cancelled. Your cart is untouched.",
	})
}

func (h *CheckoutHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.cancel_order")

	f, err := h.flow(c)
	if err != nil {
		l.Error("load_draft_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load checkout")
	}
	if f.OrderID == "" || f.OrderID != c.Param("id") {
		return echo.NewHTTPError(http.StatusNotFound, "no such draft order")
	}

	if err := f.CancelOrder(ctx); err != nil {
		l.Error("cancel_order_failed", "status", 502, "order_id", f.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	h.publish(c, "order_cancelled", f)
	if err := h.Drafts.Delete(ctx, f.UserID); err != nil {
		l.Error("delete_draft_failed", "user_id", f.UserID, "error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"state": f.State})
}
