package usecase

import (
	"errors"
	"fmt"
)

// エラーコード（レスポンスのerror.codeにそのまま出る）
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeConflict          = "conflict"
	CodeInsufficientStock = "insufficient_stock"
	CodeEmptyCart         = "empty_cart"
	CodeInvalidTransition = "invalid_transition"
	CodeAlreadyPaid       = "already_paid"
	CodeAmountMismatch    = "amount_mismatch"
	CodeInternal          = "internal_error"
)

// AppErrorはusecase層の失敗をHTTPへ持ち帰るための型。
// handlerはStatusとCodeをそのままレスポンスに写す。
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewAppError(status int, code string, message string) error {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
