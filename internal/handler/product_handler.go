package handler

import (
	"errors"
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products と管理者CRUDのHTTP
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productListData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// GET /api/products
func (h *ProductHandler) List(c echo.Context) error {
	in, err := h.parseListQuery(c, false)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, productListData{
		Items:      out.Items,
		Pagination: newPagination(out.Page, out.Limit, out.Total),
	})
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, p)
}

type AdminProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int64   `json:"stock_quantity"`
	CategoryID    *int64  `json:"category_id"`
	ImageURL      string  `json:"image_url"`
	IsActive      bool    `json:"is_active"`
	IsFeatured    bool    `json:"is_featured"`
}

// GET /api/admin/products（非公開も含む）
func (h *ProductHandler) AdminList(c echo.Context) error {
	in, err := h.parseListQuery(c, true)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, productListData{
		Items:      out.Items,
		Pagination: newPagination(out.Page, out.Limit, out.Total),
	})
}

// POST /api/admin/products
func (h *ProductHandler) AdminCreate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), userID, usecase.AdminProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, p)
}

// PUT /api/admin/products/:id
func (h *ProductHandler) AdminUpdate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), userID, id, usecase.AdminProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
	}); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "updated")
}

// DELETE /api/admin/products/:id（ソフトデリート）
func (h *ProductHandler) AdminDelete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "deleted")
}

type AdminStockRequest struct {
	StockQuantity int64 `json:"stock_quantity"`
}

// PATCH /api/admin/products/:id/stock
func (h *ProductHandler) AdminSetStock(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req AdminStockRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.uc.AdminSetStock(c.Request().Context(), userID, id, req.StockQuantity); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "stock updated")
}

// クエリ文字列をListProductsInputへ。
func (h *ProductHandler) parseListQuery(c echo.Context, includeInactive bool) (usecase.ListProductsInput, error) {
	in := usecase.ListProductsInput{
		Page:            1,
		Limit:           20,
		Q:               c.QueryParam("q"),
		Sort:            c.QueryParam("sort"),
		IncludeInactive: includeInactive,
	}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("invalid page")
		}
		in.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("invalid limit")
		}
		in.Limit = n
	}
	if v := c.QueryParam("category_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, errors.New("invalid category_id")
		}
		in.CategoryID = &n
	}
	if v := c.QueryParam("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, errors.New("invalid featured")
		}
		in.Featured = &b
	}
	if v := c.QueryParam("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, errors.New("invalid min_price")
		}
		in.MinPrice = &f
	}
	if v := c.QueryParam("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, errors.New("invalid max_price")
		}
		in.MaxPrice = &f
	}

	return in, nil
}
