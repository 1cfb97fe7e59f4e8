package model

import "time"

// 商品。
// 在庫（StockQuantity）は負にならない。チェックアウトの
// トランザクション内の条件付きUPDATEで保証する。
// 削除はis_activeを落とすソフトデリート（注文明細のFKを守るため）。
type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	StockQuantity int64     `gorm:"not null;default:0" json:"stock_quantity"`
	CategoryID    *int64    `gorm:"index" json:"category_id"`
	ImageURL      string    `gorm:"type:varchar(512)" json:"image_url"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	IsFeatured    bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
