package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartUsecase_AddToCart_Merge(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	p := model.Product{ID: 101, Name: "Dog Food", Price: 3000, StockQuantity: 10, IsActive: true}
	productRepo.On("FindByID", mock.Anything, int64(101)).Return(p, nil)

	// 既存2個 + 追加3個 = 5個（在庫10以内）
	existing := []model.CartItem{{ID: 1, UserID: 7, ProductID: 101, Quantity: 2}}
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return(existing, nil).Once()
	cartRepo.On("UpsertByUserAndProduct", mock.Anything, int64(7), int64(101), int64(3)).Return(int64(5), nil)

	merged := []model.CartItem{{ID: 1, UserID: 7, ProductID: 101, Quantity: 5}}
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return(merged, nil)

	out, err := uc.AddToCart(ctx, 7, usecase.AddCartInput{ProductID: 101, Quantity: 3})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Equal(t, float64(15000), out.Items[0].Subtotal)
	assert.Equal(t, int64(5), out.Summary.TotalItems)
	assert.Equal(t, float64(15000), out.Summary.TotalAmount)
}

// 既存数量＋追加数量が在庫を超えるなら409。
func TestCartUsecase_AddToCart_StockGuard(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	p := model.Product{ID: 101, Name: "Dog Food", Price: 3000, StockQuantity: 4, IsActive: true}
	productRepo.On("FindByID", mock.Anything, int64(101)).Return(p, nil)
	existing := []model.CartItem{{ID: 1, UserID: 7, ProductID: 101, Quantity: 2}}
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return(existing, nil)

	_, err := uc.AddToCart(context.Background(), 7, usecase.AddCartInput{ProductID: 101, Quantity: 3})
	assertAppCode(t, err, usecase.CodeInsufficientStock)

	cartRepo.AssertNotCalled(t, "UpsertByUserAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InactiveProduct(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	productRepo.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, IsActive: false}, nil)

	_, err := uc.AddToCart(context.Background(), 7, usecase.AddCartInput{ProductID: 101, Quantity: 1})
	assertAppCode(t, err, usecase.CodeValidation)
}

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	productRepo.On("FindByID", mock.Anything, int64(404)).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), 7, usecase.AddCartInput{ProductID: 404, Quantity: 1})
	assertAppCode(t, err, usecase.CodeNotFound)
}

// 他人の明細は404扱い。
func TestCartUsecase_UpdateCartItem_Ownership(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	cartRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.CartItem{ID: 1, UserID: 99, ProductID: 101, Quantity: 2}, nil)

	_, err := uc.UpdateCartItem(context.Background(), 7, 1, usecase.UpdateCartItemInput{Quantity: 3})
	assertAppCode(t, err, usecase.CodeNotFound)
}

func TestCartUsecase_UpdateCartItem_StockGuard(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	cartRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.CartItem{ID: 1, UserID: 7, ProductID: 101, Quantity: 2}, nil)
	productRepo.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Cat Food", Price: 2000, StockQuantity: 4, IsActive: true}, nil)

	_, err := uc.UpdateCartItem(context.Background(), 7, 1, usecase.UpdateCartItemInput{Quantity: 5})
	assertAppCode(t, err, usecase.CodeInsufficientStock)
}

func TestCartUsecase_UpdateCartItem_ZeroQuantityRejected(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartItemRepoMock), new(ProductRepoMock))

	_, err := uc.UpdateCartItem(context.Background(), 7, 1, usecase.UpdateCartItemInput{Quantity: 0})
	assertAppCode(t, err, usecase.CodeValidation)
}

// 無い明細の削除は成功扱い。
func TestCartUsecase_RemoveCartItem_Idempotent(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	cartRepo.On("FindByID", mock.Anything, int64(1)).Return(model.CartItem{}, repo.ErrNotFound)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.RemoveCartItem(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

// 非公開になった商品は表示から外す。
func TestCartUsecase_GetCart_SkipsInactive(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	items := []model.CartItem{
		{ID: 1, UserID: 7, ProductID: 101, Quantity: 1},
		{ID: 2, UserID: 7, ProductID: 102, Quantity: 2},
	}
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return(items, nil)
	productRepo.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Toy", Price: 500, StockQuantity: 3, IsActive: true}, nil)
	productRepo.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, IsActive: false}, nil)

	out, err := uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Summary.TotalItems)
	assert.Equal(t, float64(500), out.Summary.TotalAmount)
}
