package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Payment, int64, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error)
}
