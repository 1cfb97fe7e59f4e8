package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// 同一商品は数量加算
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) (int64, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// 全削除（冪等。0件でもエラーにしない）
	DeleteByUserID(ctx context.Context, userID int64) error
	// 購入済み商品の行だけ削除（チェックアウトの後始末）
	DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error
}
