package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AppointmentUsecase はサービス予約の業務ロジック。
type AppointmentUsecase struct {
	appointmentRepo repo.AppointmentRepository
	serviceRepo     repo.ServiceRepository
	auditRepo       repo.AuditLogRepository
	clock           Clock
}

// DI
func NewAppointmentUsecase(
	appointmentRepo repo.AppointmentRepository,
	serviceRepo repo.ServiceRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *AppointmentUsecase {
	return &AppointmentUsecase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		auditRepo:       auditRepo,
		clock:           clock,
	}
}

type BookAppointmentInput struct {
	ServiceID   int64
	PetName     string
	ScheduledAt time.Time
	Notes       string
}

type AppointmentOutput struct {
	ID          int64     `json:"id"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name,omitempty"`
	PetName     string    `json:"pet_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

// 予約作成。提供中のサービスに対して、未来の時刻のみ。
func (u *AppointmentUsecase) Book(ctx context.Context, userID int64, in BookAppointmentInput) (AppointmentOutput, error) {
	if userID <= 0 {
		return AppointmentOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.ServiceID <= 0 {
		return AppointmentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid service_id")
	}
	petName := strings.TrimSpace(in.PetName)
	if petName == "" {
		return AppointmentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "pet_name required")
	}
	if !in.ScheduledAt.After(u.clock.Now()) {
		return AppointmentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "scheduled_at must be in the future")
	}

	s, err := u.serviceRepo.FindByID(ctx, in.ServiceID)
	if err == repo.ErrNotFound {
		return AppointmentOutput{}, NewAppError(http.StatusNotFound, CodeNotFound, "service not found")
	}
	if err != nil {
		return AppointmentOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !s.IsAvailable {
		return AppointmentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "service unavailable")
	}

	id, err := u.appointmentRepo.Create(ctx, model.Appointment{
		UserID:      userID,
		ServiceID:   in.ServiceID,
		PetName:     petName,
		ScheduledAt: in.ScheduledAt,
		Status:      model.AppointmentStatusPending,
		Notes:       strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return AppointmentOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return AppointmentOutput{
		ID:          id,
		ServiceID:   in.ServiceID,
		ServiceName: s.Name,
		PetName:     petName,
		ScheduledAt: in.ScheduledAt,
		Status:      string(model.AppointmentStatusPending),
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

// 自分の予約一覧。
func (u *AppointmentUsecase) ListMyAppointments(ctx context.Context, userID int64, page int, limit int) ([]model.Appointment, int64, error) {
	if userID <= 0 {
		return []model.Appointment{}, 0, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := u.appointmentRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return []model.Appointment{}, 0, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return items, total, nil
}

// 予約キャンセル（本人のみ、終端以外）。
func (u *AppointmentUsecase) Cancel(ctx context.Context, userID int64, appointmentID int64) error {
	if userID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if appointmentID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	a, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if a.UserID != userID {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if a.Status.IsTerminal() {
		return NewAppError(http.StatusBadRequest, CodeInvalidTransition,
			fmt.Sprintf("cannot cancel %s appointment", a.Status))
	}

	if err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusCancelled); err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// 管理者の予約一覧。
func (u *AppointmentUsecase) AdminList(ctx context.Context, f repo.AppointmentListFilter) ([]model.Appointment, int64, error) {
	if f.Page < 1 {
		return []model.Appointment{}, 0, NewAppError(http.StatusBadRequest, CodeValidation, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []model.Appointment{}, 0, NewAppError(http.StatusBadRequest, CodeValidation, "invalid limit")
	}

	items, total, err := u.appointmentRepo.ListAdmin(ctx, f)
	if err != nil {
		return []model.Appointment{}, 0, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return items, total, nil
}

type AdminUpdateAppointmentStatusInput struct {
	Status string
}

// 管理者のステータス更新。completed / cancelled は終端。
func (u *AppointmentUsecase) AdminUpdateStatus(ctx context.Context, actorAdminUserID int64, appointmentID int64, in AdminUpdateAppointmentStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if appointmentID <= 0 {
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	newStatus := model.AppointmentStatus(strings.TrimSpace(in.Status))
	switch newStatus {
	case model.AppointmentStatusPending, model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted, model.AppointmentStatusCancelled:
		// OK
	default:
		return NewAppError(http.StatusBadRequest, CodeValidation, "invalid status")
	}

	a, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err == repo.ErrNotFound {
		return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if a.Status == newStatus {
		return nil
	}
	if a.Status.IsTerminal() {
		return NewAppError(http.StatusBadRequest, CodeInvalidTransition,
			fmt.Sprintf("cannot change %s appointment", a.Status))
	}

	if err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	// 監査ログ
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateAppointment,
		ResourceType: model.AuditResourceAppointment,
		ResourceID:   appointmentID,
		BeforeJSON:   `{"status":"` + string(a.Status) + `"}`,
		AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
	}); err != nil {
		return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return nil
}
