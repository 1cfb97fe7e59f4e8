package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全レスポンス共通の封筒。
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// 一覧系のページ情報。
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page int, limit int, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func respondOK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: true, Message: msg})
}

// usecaseのAppErrorをHTTPへ写す。それ以外は500。
func writeError(c echo.Context, err error) error {
	if ae, ok := usecase.AsAppError(err); ok {
		return c.JSON(ae.Status, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: ae.Code, Message: ae.Message},
		})
	}
	return c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: usecase.CodeInternal, Message: "internal error"},
	})
}

func writeBadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: usecase.CodeValidation, Message: msg},
	})
}

func writeUnauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: usecase.CodeUnauthorized, Message: "unauthorized"},
	})
}

// AuthJWTがcontextに置いたuser_idを取り出す。
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	id, ok := raw.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func isAdmin(c echo.Context) bool {
	role, ok := c.Get(middleware.CtxUserRoleKey).(string)
	return ok && role == "admin"
}
