package handler

import (
	"net/http"
	"strconv"
	"time"

	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders のHTTP
type OrderHandler struct {
	uc      *usecase.OrderUsecase
	adminUC *usecase.AdminOrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, adminUC *usecase.AdminOrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, adminUC: adminUC}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type orderListData struct {
	Items      []usecase.OrderOutput `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

// POST /api/orders/from-cart
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	out, err := h.uc.CheckoutFromCart(c.Request().Context(), userID, usecase.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, out)
}

// GET /api/orders
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	page, limit := parsePageLimit(c)
	items, total, err := h.uc.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, orderListData{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// GET /api/orders/:id
func (h *OrderHandler) Detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, out)
}

// POST /api/orders/:id/cancel（所有者または管理者）
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), userID, isAdmin(c), id, usecase.CancelOrderInput{
		Reason: req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, out)
}

// PUT /api/orders/:id/status（管理者のみ）
func (h *OrderHandler) AdminUpdateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.adminUC.UpdateStatus(c.Request().Context(), userID, id, usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "status updated")
}

// GET /api/admin/orders
func (h *OrderHandler) AdminList(c echo.Context) error {
	page, limit := parsePageLimit(c)

	f := repo.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("user_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeBadRequest(c, "invalid user_id")
		}
		f.UserID = &n
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeBadRequest(c, "invalid from")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeBadRequest(c, "invalid to")
		}
		f.To = &t
	}

	items, total, err := h.adminUC.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, orderListData{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// page/limitクエリの共通パース。未指定は1/20。
func parsePageLimit(c echo.Context) (int, int) {
	page := 1
	limit := 20
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return page, limit
}
