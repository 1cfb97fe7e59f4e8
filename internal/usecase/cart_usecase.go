package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は /api/cart の業務ロジック。
// 価格と在庫は取得のたびに商品の現在値を読む。古くなった表示は
// チェックアウトのトランザクション内の再検証で吸収する。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ID            int64   `json:"id"`
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int64   `json:"stock_quantity"`
	Quantity      int64   `json:"quantity"`
	Subtotal      float64 `json:"subtotal"`
}

type CartSummary struct {
	TotalItems  int64   `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
}

type CartResponse struct {
	Items   []CartItemResponse `json:"items"`
	Summary CartSummary        `json:"summary"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// カート取得（空でも200で空配列を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	return u.buildCartResponse(ctx, userID)
}

// カートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewAppError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "product unavailable")
	}

	// 既存数量＋追加数量が在庫を超えないか
	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	var existingQty int64 = 0
	for _, it := range items {
		if it.ProductID == in.ProductID {
			existingQty = it.Quantity
			break
		}
	}

	if existingQty+in.Quantity > p.StockQuantity {
		return CartResponse{}, NewAppError(http.StatusConflict, CodeInsufficientStock, "insufficient stock for "+p.Name)
	}

	// Upsert（同一商品は加算）
	if _, err := u.cartItemRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（所有チェック＋在庫チェック）。quantity<=0は拒否（削除は別API）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid quantity")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	// 他人の明細は「存在しない扱い」
	if item.UserID != userID {
		return CartResponse{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}

	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "product unavailable")
	}
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "product unavailable")
	}
	if in.Quantity > p.StockQuantity {
		return CartResponse{}, NewAppError(http.StatusConflict, CodeInsufficientStock, "insufficient stock for "+p.Name)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細削除。無ければ無いで成功扱い（冪等）。
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return u.buildCartResponse(ctx, userID)
	}
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if item.UserID != userID {
		return CartResponse{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil && err != repo.ErrNotFound {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 全削除（冪等）。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	if err := u.cartItemRepo.DeleteByUserID(ctx, userID); err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細と商品の現在値をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var totalItems int64 = 0
	var totalAmount float64 = 0

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		if !p.IsActive {
			continue
		}

		subtotal := round2(p.Price * float64(it.Quantity))
		respItems = append(respItems, CartItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Name:          p.Name,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Quantity:      it.Quantity,
			Subtotal:      subtotal,
		})

		totalItems += it.Quantity
		totalAmount += subtotal
	}

	return CartResponse{
		Items: respItems,
		Summary: CartSummary{
			TotalItems:  totalItems,
			TotalAmount: round2(totalAmount),
		},
	}, nil
}
