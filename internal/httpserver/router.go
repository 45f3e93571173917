package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/draft"
	"github.com/adelhazem/storefront/internal/events"
	appmw "github.com/adelhazem/storefront/internal/middleware"
	"github.com/adelhazem/storefront/internal/middleware/csrf"
	"github.com/adelhazem/storefront/internal/search"
)

type Deps struct {
	API    *api.Client
	Drafts *draft.Store

	// optional integrations, nil disables them
	Search *search.Service
	Events *events.Producer

	JWTSecret     []byte
	PublicBaseURL string
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(ecM.Recover(), ecM.RequestID(), ecM.Secure())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.SkipPaths = []string{
		"/health/live", "/health/ready",
		"/login", "/register", "/forgot-password", "/reset-password",
	}
	e.Use(csrf.Middleware(csrfCfg))
	e.Use(appmw.WithAPIToken())

	storefront := &StorefrontHTTP{API: d.API, Search: d.Search}
	auth := &AuthHTTP{API: d.API, Events: d.Events}
	co := &CheckoutHTTP{API: d.API, Drafts: d.Drafts, Events: d.Events, PublicBaseURL: d.PublicBaseURL}
	admin := &AdminHTTP{API: d.API, Search: d.Search, Events: d.Events}

	e.GET("/", storefront.Home)
	e.GET("/products", storefront.Products)
	e.GET("/product/:id", storefront.Product)
	e.GET("/products/:category", storefront.ProductsByCategory)
	e.GET("/search", storefront.SearchProducts)
	e.POST("/language", storefront.SetLanguage)

	e.POST("/login", auth.Login)
	e.POST("/register", auth.Register)
	e.POST("/forgot-password", auth.ForgotPassword)
	e.POST("/reset-password", auth.ResetPassword)
	e.POST("/logout", auth.Logout)

	profile := e.Group("/profile", appmw.RequireLogin(d.JWTSecret))
	profile.GET("", auth.Profile)
	profile.PUT("", auth.UpdateProfile)
	profile.POST("/change-password", auth.ChangePassword)

	co.RegisterRoutes(e, appmw.RequireLogin(d.JWTSecret))

	ad := e.Group("/admin", appmw.RequireLogin(d.JWTSecret), appmw.RequireAdmin())
	ad.GET("", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/products")
	})
	ad.GET("/products", admin.ListProducts)
	ad.POST("/products", admin.CreateProduct)
	ad.PUT("/products/:id", admin.UpdateProduct)
	ad.DELETE("/products/:id", admin.DeleteProduct)
	ad.POST("/products/:id/media", admin.UploadProductMedia)
	ad.GET("/categories", admin.ListCategories)
	ad.POST("/categories", admin.CreateCategory)
	ad.PUT("/categories/:id", admin.UpdateCategory)
	ad.DELETE("/categories/:id", admin.DeleteCategory)
	ad.GET("/orders", admin.ListOrders)
	ad.DELETE("/orders/:id", admin.DeleteOrder)
	ad.GET("/payments", admin.ListPayments)
	ad.GET("/payments/stats", admin.PaymentStats)
	ad.GET("/users", admin.ListUsers)
	ad.PUT("/users/:id", admin.UpdateUser)
	ad.DELETE("/users/:id", admin.DeleteUser)

	// unmatched paths land back on the storefront
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/")
	})

	return nil
}
