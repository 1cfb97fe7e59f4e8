package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

// DI
func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Create(ctx context.Context, a model.Appointment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *AppointmentGormRepository) FindByID(ctx context.Context, id int64) (model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Appointment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Appointment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Appointment{}, 0, err
	}

	var items []model.Appointment
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Appointment{}, 0, err
	}

	return items, total, nil
}

func (r *AppointmentGormRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) ListAdmin(ctx context.Context, f repo.AppointmentListFilter) ([]model.Appointment, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Appointment{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Appointment{}, 0, err
	}

	var items []model.Appointment
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("scheduled_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Appointment{}, 0, err
	}

	return items, total, nil
}
