package handler

import (
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/payments のHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type QuickPaymentRequest struct {
	OrderID       int64   `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
}

type paymentListData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// POST /api/payments/quick
func (h *PaymentHandler) Quick(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req QuickPaymentRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	out, err := h.uc.QuickPayment(c.Request().Context(), userID, usecase.QuickPaymentInput{
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, out)
}

// GET /api/payments
func (h *PaymentHandler) ListMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	page, limit := parsePageLimit(c)
	items, total, err := h.uc.ListMyPayments(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, paymentListData{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}
