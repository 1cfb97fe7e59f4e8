package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var apptNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newAppointmentUsecase(apptRepo *AppointmentRepoMock, svcRepo *ServiceRepoMock, auditRepo *AuditRepoMock) *usecase.AppointmentUsecase {
	return usecase.NewAppointmentUsecase(apptRepo, svcRepo, auditRepo, fixedClock{t: apptNow})
}

func TestAppointmentUsecase_Book_Success(t *testing.T) {
	apptRepo := new(AppointmentRepoMock)
	svcRepo := new(ServiceRepoMock)
	uc := newAppointmentUsecase(apptRepo, svcRepo, new(AuditRepoMock))

	svcRepo.On("FindByID", mock.Anything, int64(3)).
		Return(model.Service{ID: 3, Name: "Grooming", IsAvailable: true}, nil)
	apptRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.Appointment) bool {
		return a.Status == model.AppointmentStatusPending && a.PetName == "Pochi"
	})).Return(int64(9), nil)

	out, err := uc.Book(context.Background(), 7, usecase.BookAppointmentInput{
		ServiceID:   3,
		PetName:     "Pochi",
		ScheduledAt: apptNow.Add(48 * time.Hour),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "Grooming", out.ServiceName)
}

// 過去の時刻は予約できない。
func TestAppointmentUsecase_Book_PastTime(t *testing.T) {
	uc := newAppointmentUsecase(new(AppointmentRepoMock), new(ServiceRepoMock), new(AuditRepoMock))

	_, err := uc.Book(context.Background(), 7, usecase.BookAppointmentInput{
		ServiceID:   3,
		PetName:     "Pochi",
		ScheduledAt: apptNow.Add(-time.Hour),
	})
	assertAppCode(t, err, usecase.CodeValidation)
}

func TestAppointmentUsecase_Book_UnavailableService(t *testing.T) {
	svcRepo := new(ServiceRepoMock)
	uc := newAppointmentUsecase(new(AppointmentRepoMock), svcRepo, new(AuditRepoMock))

	svcRepo.On("FindByID", mock.Anything, int64(3)).
		Return(model.Service{ID: 3, IsAvailable: false}, nil)

	_, err := uc.Book(context.Background(), 7, usecase.BookAppointmentInput{
		ServiceID:   3,
		PetName:     "Pochi",
		ScheduledAt: apptNow.Add(time.Hour),
	})
	assertAppCode(t, err, usecase.CodeValidation)
}

// pending / confirmed だけ本人キャンセルできる。
func TestAppointmentUsecase_Cancel_TerminalRefused(t *testing.T) {
	for _, status := range []model.AppointmentStatus{model.AppointmentStatusCompleted, model.AppointmentStatusCancelled} {
		apptRepo := new(AppointmentRepoMock)
		uc := newAppointmentUsecase(apptRepo, new(ServiceRepoMock), new(AuditRepoMock))

		apptRepo.On("FindByID", mock.Anything, int64(9)).
			Return(model.Appointment{ID: 9, UserID: 7, Status: status}, nil)

		err := uc.Cancel(context.Background(), 7, 9)
		assertAppCode(t, err, usecase.CodeInvalidTransition)
	}
}

func TestAppointmentUsecase_Cancel_Ownership(t *testing.T) {
	apptRepo := new(AppointmentRepoMock)
	uc := newAppointmentUsecase(apptRepo, new(ServiceRepoMock), new(AuditRepoMock))

	apptRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Appointment{ID: 9, UserID: 99, Status: model.AppointmentStatusPending}, nil)

	err := uc.Cancel(context.Background(), 7, 9)
	assertAppCode(t, err, usecase.CodeNotFound)
}

func TestAppointmentUsecase_Cancel_Success(t *testing.T) {
	apptRepo := new(AppointmentRepoMock)
	uc := newAppointmentUsecase(apptRepo, new(ServiceRepoMock), new(AuditRepoMock))

	apptRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Appointment{ID: 9, UserID: 7, Status: model.AppointmentStatusConfirmed}, nil)
	apptRepo.On("UpdateStatus", mock.Anything, int64(9), model.AppointmentStatusCancelled).Return(nil)

	err := uc.Cancel(context.Background(), 7, 9)
	assert.NoError(t, err)
}

func TestAppointmentUsecase_AdminUpdateStatus_TerminalLocked(t *testing.T) {
	apptRepo := new(AppointmentRepoMock)
	uc := newAppointmentUsecase(apptRepo, new(ServiceRepoMock), new(AuditRepoMock))

	apptRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Appointment{ID: 9, UserID: 7, Status: model.AppointmentStatusCompleted}, nil)

	err := uc.AdminUpdateStatus(context.Background(), 1, 9, usecase.AdminUpdateAppointmentStatusInput{Status: "confirmed"})
	assertAppCode(t, err, usecase.CodeInvalidTransition)
}

func TestAppointmentUsecase_AdminUpdateStatus_AuditLogged(t *testing.T) {
	apptRepo := new(AppointmentRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newAppointmentUsecase(apptRepo, new(ServiceRepoMock), auditRepo)

	apptRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Appointment{ID: 9, UserID: 7, Status: model.AppointmentStatusPending}, nil)
	apptRepo.On("UpdateStatus", mock.Anything, int64(9), model.AppointmentStatusConfirmed).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateAppointment && l.ResourceID == 9
	})).Return(nil)

	err := uc.AdminUpdateStatus(context.Background(), 1, 9, usecase.AdminUpdateAppointmentStatusInput{Status: "confirmed"})
	assert.NoError(t, err)

	auditRepo.AssertExpectations(t)
}
