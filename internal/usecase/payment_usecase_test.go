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

type fixedRefs struct{}

func (fixedRefs) NewReferenceNumber() string { return "PAY-TEST-REF" }

func newPaymentUsecase(repos *txReposStub) *usecase.PaymentUsecase {
	return usecase.NewPaymentUsecase(
		&txManagerStub{repos: repos},
		new(PaymentRepoMock),
		fixedRefs{},
		fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func TestPaymentUsecase_QuickPayment_Success(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{
			ID: 5, UserID: 7, TotalAmount: 247000,
			Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		}, nil)
	repos.payments.On("Create", mock.Anything, mock.Anything).Return(int64(21), nil)
	repos.orders.On("MarkPaid", mock.Anything, int64(5), model.OrderStatusConfirmed).Return(nil)

	out, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID:       5,
		PaymentMethod: "credit_card",
		Amount:        247000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(21), out.ID)
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "PAY-TEST-REF", out.ReferenceNumber)

	repos.orders.AssertCalled(t, "MarkPaid", mock.Anything, int64(5), model.OrderStatusConfirmed)
}

func TestPaymentUsecase_QuickPayment_AlreadyPaid(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 7, TotalAmount: 1000, PaymentStatus: model.PaymentStatusPaid}, nil)

	_, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID: 5, PaymentMethod: "credit_card", Amount: 1000,
	})
	assertAppCode(t, err, usecase.CodeAlreadyPaid)

	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 許容誤差0.01を超える金額は拒否する。
func TestPaymentUsecase_QuickPayment_AmountMismatch(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{
			ID: 5, UserID: 7, TotalAmount: 247000,
			Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		}, nil)

	_, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID: 5, PaymentMethod: "credit_card", Amount: 246999,
	})
	assertAppCode(t, err, usecase.CodeAmountMismatch)
}

// 0.01以内のずれは許容する。
func TestPaymentUsecase_QuickPayment_ToleranceAccepted(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{
			ID: 5, UserID: 7, TotalAmount: 100.005,
			Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		}, nil)
	repos.payments.On("Create", mock.Anything, mock.Anything).Return(int64(22), nil)
	repos.orders.On("MarkPaid", mock.Anything, int64(5), model.OrderStatusConfirmed).Return(nil)

	_, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID: 5, PaymentMethod: "cash", Amount: 100.00,
	})
	assert.NoError(t, err)
}

func TestPaymentUsecase_QuickPayment_CancelledOrder(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 7, TotalAmount: 1000, Status: model.OrderStatusCancelled}, nil)

	_, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID: 5, PaymentMethod: "cash", Amount: 1000,
	})
	assertAppCode(t, err, usecase.CodeInvalidTransition)
}

func TestPaymentUsecase_QuickPayment_OtherUsersOrder(t *testing.T) {
	repos := newTxReposStub()
	uc := newPaymentUsecase(repos)

	repos.orders.On("FindByIDForUpdate", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 99, TotalAmount: 1000}, nil)

	_, err := uc.QuickPayment(context.Background(), 7, usecase.QuickPaymentInput{
		OrderID: 5, PaymentMethod: "cash", Amount: 1000,
	})
	assertAppCode(t, err, usecase.CodeNotFound)
}
