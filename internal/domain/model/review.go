package model

import "time"

// 商品レビュー。(user_id, product_id)で1件まで。
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`
	OrderID   *int64    `json:"order_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
