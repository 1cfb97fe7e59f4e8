package usecase

import (
	"context"
	"math"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 参照番号を作る約束。一意性の最終防衛線はDBのunique制約。
type ReferenceGenerator interface {
	NewReferenceNumber() string
}

// 金額一致の許容誤差
const amountTolerance = 0.01

// PaymentUsecase は即時承認の決済スタブ。
// 外部ゲートウェイ連携は無く、成功レコードを記録して注文を paid/confirmed にする。
type PaymentUsecase struct {
	tx          repo.TransactionManager
	paymentRepo repo.PaymentRepository
	refs        ReferenceGenerator
	clock       Clock
}

// DI
func NewPaymentUsecase(
	tx repo.TransactionManager,
	paymentRepo repo.PaymentRepository,
	refs ReferenceGenerator,
	clock Clock,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:          tx,
		paymentRepo: paymentRepo,
		refs:        refs,
		clock:       clock,
	}
}

type QuickPaymentInput struct {
	OrderID       int64
	PaymentMethod string
	Amount        float64
}

type PaymentOutput struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"payment_method"`
	Status          string  `json:"status"`
	ReferenceNumber string  `json:"reference_number"`
	PaidAt          string  `json:"paid_at"`
}

// 即時決済。決済レコード作成と注文の paid/confirmed 反映を1トランザクションで行う。
func (u *PaymentUsecase) QuickPayment(ctx context.Context, userID int64, in QuickPaymentInput) (PaymentOutput, error) {
	if userID <= 0 {
		return PaymentOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.OrderID <= 0 {
		return PaymentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid order_id")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return PaymentOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "payment_method required")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, in.OrderID)
		if err == repo.ErrNotFound {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		// 他人の注文は「存在しない扱い」
		if o.UserID != userID {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}

		if o.PaymentStatus == model.PaymentStatusPaid {
			return NewAppError(http.StatusBadRequest, CodeAlreadyPaid, "order already paid")
		}
		if o.Status == model.OrderStatusCancelled {
			return NewAppError(http.StatusBadRequest, CodeInvalidTransition, "cannot pay cancelled order")
		}

		// 金額一致チェック（許容誤差0.01）
		if math.Abs(o.TotalAmount-in.Amount) > amountTolerance {
			return NewAppError(http.StatusBadRequest, CodeAmountMismatch, "amount does not match order total")
		}

		now := u.clock.Now()
		payment := model.Payment{
			OrderID:         o.ID,
			UserID:          userID,
			Amount:          in.Amount,
			PaymentMethod:   method,
			Status:          model.PaymentRecordStatusSuccess, // 自動承認
			ReferenceNumber: u.refs.NewReferenceNumber(),
			PaidAt:          &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		paymentID, err := r.Payments().Create(ctx, payment)
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		// 支払い済みなら注文をconfirmedへ進める（それ以外のステータスは動かさない）
		nextStatus := o.Status
		if o.Status == model.OrderStatusPending {
			nextStatus = model.OrderStatusConfirmed
		}
		if err := r.Orders().MarkPaid(ctx, o.ID, nextStatus); err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out = PaymentOutput{
			ID:              paymentID,
			OrderID:         o.ID,
			Amount:          payment.Amount,
			PaymentMethod:   payment.PaymentMethod,
			Status:          string(payment.Status),
			ReferenceNumber: payment.ReferenceNumber,
			PaidAt:          now.Format("2006-01-02T15:04:05Z07:00"),
		}
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

// 自分の決済一覧。
func (u *PaymentUsecase) ListMyPayments(ctx context.Context, userID int64, page int, limit int) ([]model.Payment, int64, error) {
	if userID <= 0 {
		return []model.Payment{}, 0, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := u.paymentRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return []model.Payment{}, 0, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return items, total, nil
}
