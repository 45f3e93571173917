package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/session"
)

const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
)

type accessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func claimsFromToken(tokenStr string, secret []byte) (*accessClaims, error) {
	var claims accessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, err
	}
	return &claims, nil
}

// WithAPIToken copies the token cookie into the request context so every
// downstream API call carries the bearer header.
func WithAPIToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := session.Token(c); token != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(api.WithToken(req.Context(), token)))
			}
			return next(c)
		}
	}
}

// RequireLogin gates a route on a valid session: a present, verifiable,
// unexpired token. Anything else bounces to the login page.
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := session.Token(c)
			if token == "" {
				return c.Redirect(http.StatusFound, "/login")
			}
			claims, err := claimsFromToken(token, secret)
			if err != nil || claims == nil || claims.Subject == "" {
				return c.Redirect(http.StatusFound, "/login")
			}

			c.Set(CtxUserID, claims.Subject)

			roles := claims.Roles
			if len(roles) == 0 {
				if user, ok := session.CurrentUser(c); ok {
					roles = user.Roles
				}
			}
			c.Set(CtxRoles, roles)

			return next(c)
		}
	}
}

// RequireAdmin gates the admin console. Authenticated non-admins go back to
// the storefront, not to the login page.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get(CtxRoles).([]string)
			for _, role := range roles {
				if role == "Admin" {
					return next(c)
				}
			}
			return c.Redirect(http.StatusFound, "/")
		}
	}
}

// UserID reads the subject stored by RequireLogin.
func UserID(c echo.Context) string {
	v, _ := c.Get(CtxUserID).(string)
	return v
}
