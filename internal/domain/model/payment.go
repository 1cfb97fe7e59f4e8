package model

import "time"

type PaymentRecordStatus string

const (
	PaymentRecordStatusPending   PaymentRecordStatus = "pending"
	PaymentRecordStatusSuccess   PaymentRecordStatus = "success"
	PaymentRecordStatusFailed    PaymentRecordStatus = "failed"
	PaymentRecordStatusCancelled PaymentRecordStatus = "cancelled"
)

// 決済レコード。外部ゲートウェイ連携は無く、即時成功で記録するスタブ。
type Payment struct {
	ID              int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64               `gorm:"not null;index" json:"order_id"`
	UserID          int64               `gorm:"not null;index" json:"user_id"`
	Amount          float64             `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentMethod   string              `gorm:"type:varchar(50);not null" json:"payment_method"`
	Status          PaymentRecordStatus `gorm:"type:varchar(20);not null" json:"status"`
	ReferenceNumber string              `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference_number"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
