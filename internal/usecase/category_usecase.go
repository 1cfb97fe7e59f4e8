package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return cs, nil
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, in CategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewAppError(http.StatusBadRequest, CodeValidation, "name required")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
	if err != nil {
		// name uniqueインデックス競合
		return model.Category{}, NewAppError(http.StatusConflict, CodeConflict, "category name already exists")
	}
	return c, nil
}

func (u *CategoryUsecase) AdminUpdateCategory(ctx context.Context, adminUserID int64, categoryID int64, in CategoryInput) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewAppError(http.StatusBadRequest, CodeValidation, "name required")
	}

	err := u.categoryRepo.Update(ctx, model.Category{
		ID:          categoryID,
		Name:        name,
		Description: in.Description,
	})
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// 削除。アクティブ商品が紐づいている間は拒否する。
func (u *CategoryUsecase) AdminDeleteCategory(ctx context.Context, adminUserID int64, categoryID int64) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	count, err := u.categoryRepo.CountActiveProducts(ctx, categoryID)
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if count > 0 {
		return NewAppError(http.StatusConflict, CodeConflict, "category has active products")
	}

	err = u.categoryRepo.Delete(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}
