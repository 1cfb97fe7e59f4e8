package model

import "time"

// 注文明細。価格は注文作成時点で凍結し、以降の商品価格変更の影響を受けない。
type OrderItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice  float64   `gorm:"type:decimal(14,2);not null" json:"total_price"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
