package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func queryFloat(c echo.Context, name string) (*float64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func pageResponse(p *service.ProductPage) map[string]any {
	return map[string]any{
		"data": p.Items,
		"meta": util.Meta(p.Page, p.PageSize, p.Total),
	}
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	lo, ok := queryFloat(c, "price_min")
	if !ok {
		l.Warn("list_products_error", "status", 400, "reason", "price_min is not a number")
		return echo.NewHTTPError(http.StatusBadRequest, "price_min is not a number")
	}
	hi, ok := queryFloat(c, "price_max")
	if !ok {
		l.Warn("list_products_error", "status", 400, "reason", "price_max is not a number")
		return echo.NewHTTPError(http.StatusBadRequest, "price_max is not a number")
	}

	page, err := h.Svc.ListProducts(ctx, service.ProductFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		PriceMin: lo,
		PriceMax: hi,
		SortBy:   c.QueryParam("sort"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		PageSize: util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	})
	if err != nil {
		return fail(l, "list_products_error", err)
	}

	return c.JSON(http.StatusOK, pageResponse(page))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, ok := pathID(c, "id")
	if !ok {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page, err := h.Svc.Search(ctx,
		c.QueryParam("q"),
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)
	if err != nil {
		return fail(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, pageResponse(page))
}

func (h *CatalogHTTP) PriceBounds(c echo.Context) error {
	ctx := c.Request().Context()

	b, err := h.Svc.PriceBounds(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.price_bounds"), "price_bounds_error", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.categories"), "categories_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": cats})
}
