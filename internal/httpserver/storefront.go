package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/catalog"
	"github.com/adelhazem/storefront/internal/logging"
	"github.com/adelhazem/storefront/internal/search"
	"github.com/adelhazem/storefront/internal/session"
	"github.com/adelhazem/storefront/internal/store"
)

type StorefrontHTTP struct {
	API    *api.Client
	Search *search.Service
}

// ProductCard is the grid/list view model with all the derived display
// fields resolved.
type ProductCard struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	ImageURL        string  `json:"imageUrl"`
	InStock         bool    `json:"inStock"`
}

func toCard(p api.Product, bandLow, bandHigh float64) ProductCard {
	card := ProductCard{
		ID:      p.ID,
		Name:    p.Name,
		Slug:    p.Slug,
		Price:   catalog.DisplayPrice(&p),
		InStock: catalog.HasStock(&p),
	}
	if v := catalog.ActiveVariant(&p); v != nil {
		card.Currency = v.PriceCurrency
	}
	if img := catalog.PrimaryImage(&p); img != nil {
		card.ImageURL = img.URL
	}
	card.OriginalPrice = catalog.OriginalPrice(p.ID, card.Price, bandLow, bandHigh)
	card.DiscountPercent = catalog.DiscountPercent(card.OriginalPrice, card.Price)
	return card
}

func (h *StorefrontHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.home")

	published := true
	page, err := h.API.ListProducts(ctx, api.ListProductsParams{PageSize: 8, Published: &published})
	if err != nil {
		l.Error("home_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	cards := make([]ProductCard, 0, len(page.Items))
	for _, p := range page.Items {
		cards = append(cards, toCard(p, catalog.GridBandLow, catalog.GridBandHigh))
	}

	user, _ := session.CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{
		"featured": cards,
		"user":     user,
		"language": session.Language(c),
	})
}

func (h *StorefrontHTTP) listProducts(c echo.Context, categoryID, search string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.products")

	products := store.NewProducts(h.API)
	published := true
	products.SetFilters(store.ProductFilters{
		Search:     search,
		CategoryID: categoryID,
		Published:  &published,
	})
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		products.SetPage(page)
	}

	if err := products.Fetch(ctx, nil); err != nil {
		l.Error("list_products_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	items := products.Items()
	cards := make([]ProductCard, 0, len(items))
	for _, p := range items {
		cards = append(cards, toCard(p, catalog.GridBandLow, catalog.GridBandHigh))
	}

	pageIndex, pageSize, totalPages, totalCount := products.PageInfo()
	return c.JSON(http.StatusOK, echo.Map{
		"products":   cards,
		"pageIndex":  pageIndex,
		"pageSize":   pageSize,
		"totalPages": totalPages,
		"totalCount": totalCount,
		"window":     products.Window(),
	})
}

func (h *StorefrontHTTP) Products(c echo.Context) error {
	return h.listProducts(c, c.QueryParam("categoryId"), c.QueryParam("search"))
}

func (h *StorefrontHTTP) ProductsByCategory(c echo.Context) error {
	return h.listProducts(c, c.Param("category"), c.QueryParam("search"))
}

func (h *StorefrontHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.product")

	id := c.Param("id")
	product, err := h.API.GetProduct(ctx, id)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			l.Warn("product_not_found", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	// detail page uses the wider band
	card := toCard(*product, catalog.DetailBandLow, catalog.DetailBandHigh)
	return c.JSON(http.StatusOK, echo.Map{
		"product": product,
		"display": card,
	})
}

func (h *StorefrontHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	// without a search service, fall back to the catalog API's own filter
	if h.Search == nil {
		return h.listProducts(c, "", query)
	}

	from := 0
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 1 {
		from = (page - 1) * store.DefaultPageSize
	}

	total, products, err := h.Search.Search(ctx, query, from, store.DefaultPageSize)
	if err != nil {
		l.Error("search_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
	}

	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, toCard(p, catalog.GridBandLow, catalog.GridBandHigh))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"products": cards,
		"total":    total,
	})
}

func (h *StorefrontHTTP) SetLanguage(c echo.Context) error {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.Bind(&req); err != nil || req.Language == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "language is required")
	}
	session.SetLanguage(c, req.Language)
	return c.NoContent(http.StatusNoContent)
}
