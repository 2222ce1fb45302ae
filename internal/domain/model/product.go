package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品の公開状態。
// deletedは論理削除（注文から参照されるので物理削除はしない）。
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDeleted  ProductStatus = "deleted"
)

type Product struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64 `gorm:"not null;index" json:"user_id"`
	CategoryID int64 `gorm:"not null;index" json:"category_id"`

	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	//在庫台帳。注文確定時だけ減る。負数にはならない。
	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`

	Condition string        `gorm:"type:varchar(20)" json:"condition"`
	Location  string        `gorm:"type:varchar(255)" json:"location"`
	Status    ProductStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
