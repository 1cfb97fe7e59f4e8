package repository

import (
	"app/internal/domain/model"
	"context"
)

type ServiceRepository interface {
	List(ctx context.Context, includeUnavailable bool) ([]model.Service, error)
	FindByID(ctx context.Context, id int64) (model.Service, error)
	Create(ctx context.Context, s model.Service) (model.Service, error)
	Update(ctx context.Context, s model.Service) error
	// ソフトデリート（is_availableを落とすだけ）
	SetAvailable(ctx context.Context, id int64, available bool) error
}
