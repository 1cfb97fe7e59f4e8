package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AppointmentListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, a model.Appointment) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Appointment, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error

	// 管理者用の予約一覧
	ListAdmin(ctx context.Context, f AppointmentListFilter) ([]model.Appointment, int64, error)
}
