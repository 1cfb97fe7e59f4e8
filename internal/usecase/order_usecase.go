package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文番号を作る約束。一意性の最終防衛線はDBのunique制約。
type OrderNumberGenerator interface {
	NewOrderNumber(now time.Time) string
}

// 金額計算の設定（税率・送料）。
type Pricing struct {
	TaxRate     float64
	ShippingFee float64
}

// OrderUsecase はチェックアウトと注文参照・キャンセルの業務ロジック。
type OrderUsecase struct {
	tx      repo.TransactionManager
	numbers OrderNumberGenerator
	clock   Clock
	pricing Pricing
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	numbers OrderNumberGenerator,
	clock Clock,
	pricing Pricing,
) *OrderUsecase {
	return &OrderUsecase{
		tx:      tx,
		numbers: numbers,
		clock:   clock,
		pricing: pricing,
	}
}

type CheckoutInput struct {
	ShippingAddress string
	PaymentMethod   string
	Notes           string
}

type OrderItemOutput struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	OrderNumber     string            `json:"order_number"`
	Subtotal        float64           `json:"subtotal"`
	TaxAmount       float64           `json:"tax_amount"`
	ShippingFee     float64           `json:"shipping_fee"`
	TotalAmount     float64           `json:"total_amount"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// カートから注文を作る。1トランザクション。
//
//  1. カート明細を読み、空なら中断
//  2. 商品行をFOR UPDATEで取り直し、公開・在庫を再検証
//  3. 現在価格で小計→税→送料→合計
//  4. 注文＋明細を作成（価格は凍結）
//  5. 在庫を条件付きUPDATEで減算
//  6. 購入分のカート行を削除
//
// 途中で失敗したら全部ロールバック。部分的な注文は残らない。
func (u *OrderUsecase) CheckoutFromCart(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return OrderOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "shipping_address required")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if len(cartItems) == 0 {
			return NewAppError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}

		// 在庫を確定時に再チェックして減らす
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		productIDs := make([]int64, 0, len(cartItems))
		var subtotal float64 = 0

		for _, ci := range cartItems {
			// 行ロックで同時チェックアウトを直列化
			p, err := r.Products().FindByIDForUpdate(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				// 消えた商品はスキップ
				continue
			}
			if err != nil {
				return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if !p.IsActive {
				continue
			}

			if p.StockQuantity < ci.Quantity {
				// どれか1つでも足りなければ注文全体を失敗させる
				return NewAppError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", p.Name))
			}

			// スナップショット（この時点の価格で凍結）
			lineTotal := round2(p.Price * float64(ci.Quantity))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    ci.Quantity,
				UnitPrice:   p.Price,
				TotalPrice:  lineTotal,
			})
			productIDs = append(productIDs, p.ID)
			subtotal += lineTotal
		}

		if len(orderItems) == 0 {
			return NewAppError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}

		subtotal = round2(subtotal)
		taxAmount := round2(subtotal * u.pricing.TaxRate)
		totalAmount := round2(subtotal + taxAmount + u.pricing.ShippingFee)

		now := u.clock.Now()
		order := model.Order{
			UserID:          userID,
			OrderNumber:     u.numbers.NewOrderNumber(now),
			Subtotal:        subtotal,
			TaxAmount:       taxAmount,
			ShippingFee:     u.pricing.ShippingFee,
			TotalAmount:     totalAmount,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: address,
			PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
			Notes:           strings.TrimSpace(in.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			// 注文番号のunique制約に当たった等
			return NewAppError(http.StatusConflict, CodeConflict, "could not create order")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		// 在庫減算。行ロック済みだが、条件付きUPDATEを最後の砦にする。
		for _, it := range orderItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if !ok {
				return NewAppError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", it.ProductName))
			}
		}

		// 購入した商品の行だけカートから消す
		if err := r.CartItems().DeleteByUserAndProducts(ctx, userID, productIDs); err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, int64, error) {
	if userID <= 0 {
		return []OrderOutput{}, 0, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

// 自分の注文詳細。他人の注文は「存在しない扱い」。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if o.UserID != userID {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type CancelOrderInput struct {
	Reason string
}

// 注文キャンセル。チェックアウトの在庫減算の逆操作を同じ原子性で行う。
// delivered / cancelled からはキャンセルできない。
// isAdmin=falseなら所有者のみ。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, isAdmin bool, orderID int64, in CancelOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !isAdmin && o.UserID != userID {
			return NewAppError(http.StatusNotFound, CodeNotFound, "not found")
		}

		// 終端ガード
		if o.Status.IsTerminal() {
			return NewAppError(http.StatusBadRequest, CodeInvalidTransition,
				fmt.Sprintf("cannot cancel %s order", o.Status))
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		// 在庫戻し（チェックアウトの逆）
		for _, it := range items {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
			}
		}

		// 理由と時刻をメモに残す
		now := u.clock.Now()
		notes := appendCancelNote(o.Notes, in.Reason, now)

		paymentStatus := o.PaymentStatus
		if paymentStatus == model.PaymentStatusPaid {
			paymentStatus = model.PaymentStatusRefunded
		}

		if err := r.Orders().UpdateStatusAndNotes(ctx, orderID, model.OrderStatusCancelled, paymentStatus, notes); err != nil {
			return NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		o.Status = model.OrderStatusCancelled
		o.PaymentStatus = paymentStatus
		o.Notes = notes
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func appendCancelNote(notes string, reason string, at time.Time) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "no reason given"
	}
	line := fmt.Sprintf("[cancelled %s] %s", at.Format(time.RFC3339), reason)
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingFee:     o.ShippingFee,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}

// 金額は小数2桁に丸める
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
