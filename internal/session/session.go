package session

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
)

const (
	CookieToken    = "authToken"
	CookieUser     = "user"
	CookieLanguage = "language"

	TTL = 7 * 24 * time.Hour
)

func NewCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuth writes the two session cookies: the bearer token and the
// serialized current user.
func SetAuth(c echo.Context, auth *api.AuthResponse) error {
	exp := time.Now().Add(TTL)
	c.SetCookie(NewCookie(CookieToken, auth.Token, "/", exp))

	data, err := json.Marshal(auth.User)
	if err != nil {
		return err
	}
	c.SetCookie(NewCookie(CookieUser, url.QueryEscape(string(data)), "/", exp))
	return nil
}

func ClearAuth(c echo.Context) {
	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(NewCookie(CookieToken, "", "/", expired))
	c.SetCookie(NewCookie(CookieUser, "", "/", expired))
}

func Token(c echo.Context) string {
	cookie, err := c.Cookie(CookieToken)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CurrentUser reads the serialized user from its cookie. A missing or
// unparseable cookie means no session.
func CurrentUser(c echo.Context) (*api.User, bool) {
	cookie, err := c.Cookie(CookieUser)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil, false
	}

	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

func Language(c echo.Context) string {
	cookie, err := c.Cookie(CookieLanguage)
	if err != nil || cookie.Value == "" {
		return "en"
	}
	return cookie.Value
}

func SetLanguage(c echo.Context, lang string) {
	cookie := NewCookie(CookieLanguage, lang, "/", time.Time{})
	cookie.HttpOnly = false
	c.SetCookie(cookie)
}

func IsAdmin(user *api.User) bool {
	if user == nil {
		return false
	}
	for _, role := range user.Roles {
		if role == "Admin" {
			return true
		}
	}
	return false
}
