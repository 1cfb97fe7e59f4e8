package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// delivered / cancelled は終端。以降の遷移は受け付けない。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ステータス遷移の可否。
// 非終端からは任意の非終端または cancelled へ遷移できる。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return next != s
	default:
		return false
	}
}

type Order struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64         `gorm:"not null;index" json:"user_id"`
	OrderNumber     string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	Subtotal        float64       `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	TaxAmount       float64       `gorm:"type:decimal(14,2);not null" json:"tax_amount"`
	ShippingFee     float64       `gorm:"type:decimal(14,2);not null" json:"shipping_fee"`
	TotalAmount     float64       `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Status          OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	ShippingAddress string        `gorm:"type:text;not null" json:"shipping_address"`
	PaymentMethod   string        `gorm:"type:varchar(50)" json:"payment_method"`
	Notes           string        `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
