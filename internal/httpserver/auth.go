package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/events"
	"github.com/adelhazem/storefront/internal/logging"
	appmw "github.com/adelhazem/storefront/internal/middleware"
	"github.com/adelhazem/storefront/internal/session"
)

type AuthHTTP struct {
	API    *api.Client
	Events *events.Producer
}

func (h *AuthHTTP) publish(c echo.Context, action, key string) {
	if h.Events == nil {
		return
	}
	ctx := c.Request().Context()
	event := echo.Map{"action": action, "subject": key}
	if err := h.Events.Publish(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicUserEvents, "error", err)
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	auth, err := h.API.Login(ctx, req)
	if err != nil {
		l.Warn("login_failed", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, api.ErrorMessage(err))
	}

	if err := session.SetAuth(c, auth); err != nil {
		l.Error("set_session_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}

	h.publish(c, "login", auth.User.UserID)
	return c.JSON(http.StatusOK, auth.User)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req api.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	auth, err := h.API.Register(ctx, req)
	if err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	if err := session.SetAuth(c, auth); err != nil {
		l.Error("set_session_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}

	h.publish(c, "register", auth.User.UserID)
	return c.JSON(http.StatusCreated, auth.User)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if user, ok := session.CurrentUser(c); ok {
		h.publish(c, "logout", user.UserID)
	}
	session.ClearAuth(c)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req api.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.API.ForgotPassword(ctx, req); err != nil {
		l.Warn("forgot_password_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "If the address exists, a reset code was sent."})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req api.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.API.ResetPassword(ctx, req); err != nil {
		l.Warn("reset_password_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated. You can log in now."})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	user, err := h.API.GetUser(ctx, appmw.UserID(c))
	if err != nil {
		l.Error("profile_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	var req api.SaveUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.API.UpdateUser(ctx, appmw.UserID(c), req)
	if err != nil {
		l.Warn("update_profile_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "profile_updated", user.UserID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	var req api.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.API.ChangePassword(ctx, appmw.UserID(c), req); err != nil {
		l.Warn("change_password_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed."})
}
