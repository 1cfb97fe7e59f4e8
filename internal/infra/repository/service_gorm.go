package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

// DI
func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) List(ctx context.Context, includeUnavailable bool) ([]model.Service, error) {
	tx := r.db.WithContext(ctx).Model(&model.Service{})
	if !includeUnavailable {
		tx = tx.Where("is_available = ?", true)
	}

	var ss []model.Service
	if err := tx.Order("name asc").Find(&ss).Error; err != nil {
		return []model.Service{}, err
	}
	return ss, nil
}

func (r *ServiceGormRepository) FindByID(ctx context.Context, id int64) (model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Service{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Service{}, err
	}
	return s, nil
}

func (r *ServiceGormRepository) Create(ctx context.Context, s model.Service) (model.Service, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Service{}, err
	}
	return s, nil
}

func (r *ServiceGormRepository) Update(ctx context.Context, s model.Service) error {
	res := r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":             s.Name,
		"description":      s.Description,
		"price":            s.Price,
		"duration_minutes": s.DurationMinutes,
		"is_available":     s.IsAvailable,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ソフトデリート（is_availableの切り替えだけ）
func (r *ServiceGormRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	res := r.db.WithContext(ctx).Model(&model.Service{}).
		Where("id = ?", id).
		Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
