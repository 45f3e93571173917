package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/draft"
	"github.com/adelhazem/storefront/internal/session"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T, backend http.Handler) *echo.Echo {
	t.Helper()

	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	drafts, err := draft.Open(context.Background(), "", filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drafts.Close() })

	e := echo.New()
	deps := &Deps{
		API:           api.NewClient(ts.URL),
		Drafts:        drafts,
		JWTSecret:     testSecret,
		PublicBaseURL: "http://shop.local",
	}
	require.NoError(t, Register(e, deps))
	return e
}

func signToken(t *testing.T, subject string, roles []string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func withSession(t *testing.T, req *http.Request, subject string, roles []string) {
	t.Helper()

	req.AddCookie(&http.Cookie{Name: session.CookieToken, Value: signToken(t, subject, roles)})

	user, err := json.Marshal(api.User{UserID: subject, Roles: roles})
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieUser, Value: url.QueryEscape(string(user))})
}

// withCSRF satisfies the double-submit check for unsafe methods.
func withCSRF(req *http.Request) {
	const token = "test-csrf-token"
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	req.Header.Set("X-CSRF-Token", token)
	req.Header.Set("Origin", "http://"+req.Host)
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookies(t *testing.T) {
	t.Parallel()

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Users/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"u1","email":"a@b.co","roles":["Customer"],"token":"tok-1"}`))
	})
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.co","password":"pw"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	res := rec.Result()
	token := cookieByName(res, session.CookieToken)
	require.NotNil(t, token)
	assert.Equal(t, "tok-1", token.Value)
	assert.True(t, token.HttpOnly)

	user := cookieByName(res, session.CookieUser)
	require.NotNil(t, user)
	raw, err := url.QueryUnescape(user.Value)
	require.NoError(t, err)
	assert.Contains(t, raw, `"userId":"u1"`)
}

func TestLogoutClearsSessionCookies(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	withSession(t, req, "u1", []string{"Customer"})
	withCSRF(req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	res := rec.Result()
	for _, name := range []string{session.CookieToken, session.CookieUser} {
		cookie := cookieByName(res, name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value, name)
		assert.True(t, cookie.Expires.Before(time.Now()), name)
	}
}

func TestLoginRequiredRedirects(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	}))

	for _, path := range []string{"/profile", "/checkout/cart", "/admin/products"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), path)
	}
}

func TestAdminGate(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	}))

	// authenticated customer bounces to the storefront, not the login page
	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	withSession(t, req, "u1", []string{"Customer"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	// admins hitting the console root land on the products screen
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	withSession(t, req, "a1", []string{"Admin"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/products", rec.Header().Get(echo.HeaderLocation))
}

func TestBearerTokenForwarded(t *testing.T) {
	t.Parallel()

	token := signToken(t, "u1", []string{"Customer"})

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Users/u1", r.URL.Path)
		require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"u1","email":"a@b.co"}`))
	})
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieToken, Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
}

func TestCreateProductDuplicateSKUNeverHitsBackend(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	e := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	body := `{"name":"Mug","variants":[{"sku":"MUG-1"},{"sku":"mug-1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	withSession(t, req, "a1", []string{"Admin"})
	withCSRF(req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate SKU")
	assert.Equal(t, int64(0), calls.Load())
}

func TestSearchFallbackKeepsQuery(t *testing.T) {
	t.Parallel()

	var gotSearch atomic.Value
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Products", r.URL.Path)
		gotSearch.Store(r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"pageIndex":1,"pageSize":10,"totalPages":0,"totalCount":0}`))
	})
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/search?q=mug", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mug", gotSearch.Load())
}

func TestAdminListKeepsPageWithPageSize(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Products", r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"pageIndex":3,"pageSize":20,"totalPages":5,"totalCount":90}`))
	})
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/admin/products?page=3&pageSize=20", nil)
	withSession(t, req, "a1", []string{"Admin"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	q, ok := gotQuery.Load().(url.Values)
	require.True(t, ok)
	assert.Equal(t, "3", q.Get("pageIndex"))
	assert.Equal(t, "20", q.Get("pageSize"))
}

func pngUpload(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadMediaMarksChosenPrimary(t *testing.T) {
	t.Parallel()

	// isPrimary per uploaded file name, as the backend saw it
	primaries := make(map[string]string)
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Media", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		name := r.FormValue("FileName")
		primaries[name] = r.FormValue("isPrimary")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m-` + name + `","fileName":"` + name + `","isPrimary":` + r.FormValue("isPrimary") + `}`))
	})
	e := newTestServer(t, backend)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("primary", "hero.png"))
	for _, name := range []string{"hero.png", "side.png"} {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(pngUpload(t))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/p1/media", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	withSession(t, req, "a1", []string{"Admin"})
	withCSRF(req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", primaries["hero.jpg"])
	assert.Equal(t, "false", primaries["side.jpg"])

	var uploaded []api.ProductMedia
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	var primaryCount int
	for _, m := range uploaded {
		if m.IsPrimary {
			primaryCount++
		}
	}
	assert.Equal(t, 1, primaryCount)
}

func TestSubmitShippingOutsideShippingStep(t *testing.T) {
	t.Parallel()

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Carts/user/u1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","userId":"u1","items":[{"itemId":"i1","quantity":1,"unitPriceAmount":50}],"currency":"EGP"}`))
	})
	e := newTestServer(t, backend)

	// no draft exists, so the flow is still on the cart step
	body := `{"fullName":"Ada Lovelace","email":"ada@example.com","phone":"01234567890","address":"12 Byron Street","city":"London","postalCode":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/shipping", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	withSession(t, req, "u1", []string{"Customer"})
	withCSRF(req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "highlighted fields")
}

func TestUnknownRouteRedirectsHome(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	}))

	req := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}
