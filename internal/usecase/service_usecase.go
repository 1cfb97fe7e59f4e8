package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ServiceUsecase struct {
	serviceRepo repo.ServiceRepository
}

// DI
func NewServiceUsecase(serviceRepo repo.ServiceRepository) *ServiceUsecase {
	return &ServiceUsecase{serviceRepo: serviceRepo}
}

// 公開一覧（提供中のみ）。
func (u *ServiceUsecase) ListServices(ctx context.Context) ([]model.Service, error) {
	ss, err := u.serviceRepo.List(ctx, false)
	if err != nil {
		return []model.Service{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return ss, nil
}

// 公開詳細。提供停止中は404。
func (u *ServiceUsecase) GetServiceDetail(ctx context.Context, serviceID int64) (model.Service, error) {
	if serviceID <= 0 {
		return model.Service{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid service id")
	}

	s, err := u.serviceRepo.FindByID(ctx, serviceID)
	if err == repo.ErrNotFound {
		return model.Service{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return model.Service{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !s.IsAvailable {
		return model.Service{}, NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	return s, nil
}

type ServiceInput struct {
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
	IsAvailable     bool
}

func validateServiceInput(in ServiceInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewAppError(http.StatusBadRequest, CodeValidation, "name required")
	}
	if in.Price < 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "price must be >= 0")
	}
	if in.DurationMinutes <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "duration_minutes must be > 0")
	}
	return nil
}

func (u *ServiceUsecase) AdminCreateService(ctx context.Context, adminUserID int64, in ServiceInput) (model.Service, error) {
	if adminUserID <= 0 {
		return model.Service{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if err := validateServiceInput(in); err != nil {
		return model.Service{}, err
	}

	s, err := u.serviceRepo.Create(ctx, model.Service{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsAvailable:     in.IsAvailable,
	})
	if err != nil {
		return model.Service{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return s, nil
}

func (u *ServiceUsecase) AdminUpdateService(ctx context.Context, adminUserID int64, serviceID int64, in ServiceInput) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if serviceID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid service id")
	}
	if err := validateServiceInput(in); err != nil {
		return err
	}

	err := u.serviceRepo.Update(ctx, model.Service{
		ID:              serviceID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsAvailable:     in.IsAvailable,
	})
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// ソフトデリート。予約履歴のFKは残る。
func (u *ServiceUsecase) AdminDeleteService(ctx context.Context, adminUserID int64, serviceID int64) error {
	if adminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if serviceID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid service id")
	}

	err := u.serviceRepo.SetAvailable(ctx, serviceID, false)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}
