package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/catalog"
	"github.com/adelhazem/storefront/internal/events"
	"github.com/adelhazem/storefront/internal/logging"
	appmw "github.com/adelhazem/storefront/internal/middleware"
	"github.com/adelhazem/storefront/internal/media"
	"github.com/adelhazem/storefront/internal/search"
	"github.com/adelhazem/storefront/internal/store"
)

// AdminHTTP carries the console's CRUD surface. Writes go through the stores
// so list responses stay consistent with what the backend accepted.
type AdminHTTP struct {
	API    *api.Client
	Search *search.Service
	Events *events.Producer
}

func (h *AdminHTTP) publish(c echo.Context, action, entity, id string) {
	if h.Events == nil {
		return
	}
	ctx := c.Request().Context()
	event := echo.Map{
		"action": action,
		"entity": entity,
		"id":     id,
		"actor":  appmw.UserID(c),
	}
	if err := h.Events.Publish(ctx, events.TopicAdminEvents, id, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicAdminEvents, "error", err)
	}
}

// index mirrors catalog writes into the local search index. Indexing lag is
// acceptable, a failed write is only logged.
func (h *AdminHTTP) index(c echo.Context, p *api.Product) {
	if h.Search == nil || p == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Search.IndexProducts(ctx, []api.Product{*p}); err != nil {
		logging.FromContext(ctx).Warn("index_failed", "product_id", p.ID, "error", err)
	}
}

func (h *AdminHTTP) unindex(c echo.Context, id string) {
	if h.Search == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Search.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("unindex_failed", "product_id", id, "error", err)
	}
}

func queryInt(c echo.Context, name, fallback string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		raw = fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (h *AdminHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_products")

	products := store.NewProducts(h.API)
	products.SetFilters(store.ProductFilters{
		Search:     c.QueryParam("search"),
		CategoryID: c.QueryParam("categoryId"),
	})
	// size first: changing it resets the page index
	if size := queryInt(c, "pageSize", ""); size > 0 {
		products.SetPageSize(size)
	}
	products.SetPage(queryInt(c, "page", "1"))

	if err := products.Fetch(ctx, nil); err != nil {
		l.Error("list_products_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, products.Err())
	}

	pageIndex, pageSize, totalPages, totalCount := products.PageInfo()
	return c.JSON(http.StatusOK, echo.Map{
		"items":      products.Items(),
		"pageIndex":  pageIndex,
		"pageSize":   pageSize,
		"totalPages": totalPages,
		"totalCount": totalCount,
		"window":     products.Window(),
	})
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req api.SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// duplicate SKUs are rejected before anything leaves the process
	if err := catalog.CheckDuplicateSKU(req.Variants); err != nil {
		l.Warn("create_product_rejected", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": err.Error(),
			"errors":  echo.Map{"variants": []string{err.Error()}},
		})
	}

	product, err := h.API.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.index(c, product)
	h.publish(c, "product_created", "product", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")
	id := c.Param("id")

	var req api.SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := catalog.CheckDuplicateSKU(req.Variants); err != nil {
		l.Warn("update_product_rejected", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": err.Error(),
			"errors":  echo.Map{"variants": []string{err.Error()}},
		})
	}

	product, err := h.API.UpdateProduct(ctx, id, req)
	if err != nil {
		// TODO: this still reports success on a failed update, the console
		// relies on it today; agree on the replacement copy before fixing
		l.Warn("update_product_failed", "status", 200, "product_id", id, "error", err)
		return c.JSON(http.StatusOK, echo.Map{"message": "Product updated."})
	}

	h.index(c, product)
	h.publish(c, "product_updated", "product", id)
	return c.JSON(http.StatusOK, product)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")
	id := c.Param("id")

	if err := h.API.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_failed", "status", 400, "product_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.unindex(c, id)
	h.publish(c, "product_deleted", "product", id)
	return c.NoContent(http.StatusNoContent)
}

// UploadProductMedia accepts a multipart form of image files, squares them
// to the catalog size and pushes them to the backend one by one.
func (h *AdminHTTP) UploadProductMedia(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.upload_product_media")
	productID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files in request")
	}

	// the "primary" field names the file that becomes the product image
	primaryName := c.FormValue("primary")

	staging := media.NewStaging()
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read upload")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read upload")
		}
		pending := staging.Add(fh.Filename, fh.Header.Get("Content-Type"), data)
		pending.IsPrimary = primaryName != "" && fh.Filename == primaryName
	}

	uploaded, err := staging.UploadAll(ctx, h.API, productID)
	if err != nil {
		l.Error("upload_media_failed", "status", 502, "product_id", productID,
			"uploaded", len(uploaded), "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, api.ErrorMessage(err))
	}

	// keep the flag single-select in the returned set
	for _, m := range uploaded {
		if m.IsPrimary {
			media.SetPrimary(uploaded, m.ID)
			break
		}
	}

	h.publish(c, "media_uploaded", "product", productID)
	return c.JSON(http.StatusOK, uploaded)
}

func (h *AdminHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_categories")

	categories := store.NewCategories(h.API)
	if err := categories.Fetch(ctx); err != nil {
		l.Error("list_categories_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, categories.Err())
	}
	return c.JSON(http.StatusOK, categories.Filter(c.QueryParam("search")))
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req api.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	category, err := h.API.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "category_created", "category", category.CategoryID)
	return c.JSON(http.StatusCreated, category)
}

func (h *AdminHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_category")
	id := c.Param("id")

	var req api.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	category, err := h.API.UpdateCategory(ctx, id, req)
	if err != nil {
		l.Warn("update_category_failed", "status", 400, "category_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "category_updated", "category", id)
	return c.JSON(http.StatusOK, category)
}

func (h *AdminHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_category")
	id := c.Param("id")

	if err := h.API.DeleteCategory(ctx, id); err != nil {
		l.Warn("delete_category_failed", "status", 400, "category_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "category_deleted", "category", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	orders := store.NewOrders(h.API)
	orders.SetFilters(store.OrderFilters{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	})
	if size := queryInt(c, "pageSize", ""); size > 0 {
		orders.SetPageSize(size)
	}
	orders.SetPage(queryInt(c, "page", "1"))

	if err := orders.Fetch(ctx, nil); err != nil {
		l.Error("list_orders_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, orders.Err())
	}

	pageIndex, pageSize, totalPages, totalCount := orders.PageInfo()
	return c.JSON(http.StatusOK, echo.Map{
		"items":      orders.Items(),
		"pageIndex":  pageIndex,
		"pageSize":   pageSize,
		"totalPages": totalPages,
		"totalCount": totalCount,
		"window":     orders.Window(),
	})
}

func (h *AdminHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_order")
	id := c.Param("id")

	if err := h.API.DeleteOrder(ctx, id); err != nil {
		l.Warn("delete_order_failed", "status", 400, "order_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "order_deleted", "order", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_payments")

	payments := store.NewPayments(h.API)
	payments.SetStatus(c.QueryParam("status"))
	if size := queryInt(c, "pageSize", ""); size > 0 {
		payments.SetPageSize(size)
	}
	payments.SetPage(queryInt(c, "page", "1"))

	if err := payments.Fetch(ctx, nil); err != nil {
		l.Error("list_payments_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, payments.Err())
	}

	pageIndex, pageSize, totalPages, totalCount := payments.PageInfo()
	return c.JSON(http.StatusOK, echo.Map{
		"items":      payments.Items(),
		"pageIndex":  pageIndex,
		"pageSize":   pageSize,
		"totalPages": totalPages,
		"totalCount": totalCount,
		"window":     payments.Window(),
	})
}

func (h *AdminHTTP) PaymentStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.payment_stats")

	payments := store.NewPayments(h.API)
	if err := payments.FetchStats(ctx); err != nil {
		l.Error("payment_stats_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, payments.Err())
	}
	return c.JSON(http.StatusOK, payments.Stats())
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	users := store.NewUsers(h.API)
	if err := users.Fetch(ctx); err != nil {
		l.Error("list_users_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, users.Err())
	}

	page := queryInt(c, "page", "1")
	size := queryInt(c, "pageSize", "10")
	items, totalPages, window := users.Page(c.QueryParam("search"), page, size)
	return c.JSON(http.StatusOK, echo.Map{
		"items":      items,
		"totalPages": totalPages,
		"window":     window,
	})
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_user")
	id := c.Param("id")

	var req api.SaveUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.API.UpdateUser(ctx, id, req)
	if err != nil {
		l.Warn("update_user_failed", "status", 400, "user_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "user_updated", "user", id)
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_user")
	id := c.Param("id")

	if err := h.API.DeleteUser(ctx, id); err != nil {
		l.Warn("delete_user_failed", "status", 400, "user_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, api.ErrorMessage(err))
	}

	h.publish(c, "user_deleted", "user", id)
	return c.NoContent(http.StatusNoContent)
}
