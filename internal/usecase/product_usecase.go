package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	categoryRepo  repo.CategoryRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// GET /api/products の入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	Featured   *bool
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string
	// 管理者一覧のみtrue
	IncludeInactive bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:            in.Page,
		Limit:           in.Limit,
		Q:               strings.TrimSpace(in.Q),
		CategoryID:      in.CategoryID,
		Featured:        in.Featured,
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		Sort:            in.Sort,
		IncludeInactive: in.IncludeInactive,
	})
	if err != nil {
		return ProductListOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 公開詳細。非公開商品は404。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if !p.IsActive {
		return model.Product{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	return p, nil
}

type AdminProductInput struct {
	Name          string
	Description   string
	Price         float64
	StockQuantity int64
	CategoryID    *int64
	ImageURL      string
	IsActive      bool
	IsFeatured    bool
}

func (u *ProductUsecase) validateAdminInput(ctx context.Context, in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewAppError(http.StatusBadRequest, CodeValidation, "name required")
	}
	if in.Price < 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "price must be >= 0")
	}
	if in.StockQuantity < 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "stock_quantity must be >= 0")
	}
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err == repo.ErrNotFound {
			return NewAppError(http.StatusBadRequest, CodeValidation, "category not found")
		} else if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if err := u.validateAdminInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
		ImageURL:      in.ImageURL,
		IsActive:      in.IsActive,
		IsFeatured:    in.IsFeatured,
	})
	if err != nil {
		return model.Product{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return p, nil
}

// 更新は在庫を触らない。在庫はAdminSetStockだけが動かす。
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid product id")
	}
	if err := u.validateAdminInput(ctx, in); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive,
		IsFeatured:  in.IsFeatured,
	})
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// ソフトデリート。注文履歴のFKは残る。
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid product id")
	}

	err := u.productRepo.SetActive(ctx, productID, false)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// 在庫を現在値に設定し、監査ログも残す。
func (u *ProductUsecase) AdminSetStock(ctx context.Context, adminUserID int64, productID int64, newStock int64) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid product id")
	}
	if newStock < 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "stock must be >= 0")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if err := u.inventoryRepo.SetStock(ctx, productID, newStock); err != nil {
		if err == repo.ErrNotFound {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	// 監査ログ（UPDATE_STOCK）
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   fmt.Sprintf(`{"stock_quantity":%d}`, before.StockQuantity),
		AfterJSON:    fmt.Sprintf(`{"stock_quantity":%d}`, newStock),
	}); err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return nil
}
