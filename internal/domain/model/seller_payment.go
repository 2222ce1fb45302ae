package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SellerPaymentRecordStatus string

const (
	SellerPaymentRecordPending   SellerPaymentRecordStatus = "pending"
	SellerPaymentRecordCompleted SellerPaymentRecordStatus = "completed"
	SellerPaymentRecordFailed    SellerPaymentRecordStatus = "failed"
	SellerPaymentRecordRefunded  SellerPaymentRecordStatus = "refunded"
)

// 出品者の手動支払い申請。
// 同じユーザーが複数回申請できる。有効なのはcompletedの1件だけ。
type SellerPayment struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Amount           decimal.Decimal           `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod    string                    `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentReference string                    `gorm:"type:varchar(100);not null;uniqueIndex" json:"payment_reference"`
	PaymentNote      string                    `gorm:"type:text" json:"payment_note"`
	Status           SellerPaymentRecordStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
