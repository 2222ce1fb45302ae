package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// 購入者か出品者か
type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

// アカウント承認の状態。
// pending → active | rejected、active → suspended。
// rejected / suspended からの自動復帰は無い。
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusRejected  AccountStatus = "rejected"
)

// 出品者の支払い状態。paidになるまで出品不可。
type SellerPaymentStatus string

const (
	SellerPaymentStatusPending SellerPaymentStatus = "pending"
	SellerPaymentStatusPaid    SellerPaymentStatus = "paid"
	SellerPaymentStatusExpired SellerPaymentStatus = "expired"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	UserType      UserType      `gorm:"type:varchar(20);not null;default:'buyer'" json:"user_type"`
	AccountStatus AccountStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"account_status"`

	//出品者の支払いゲート（account_statusとは独立）
	SellerPaymentStatus SellerPaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"seller_payment_status"`
	SellerPaymentAmount decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"seller_payment_amount"`
	SellerPaymentDate   *time.Time          `json:"seller_payment_date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
