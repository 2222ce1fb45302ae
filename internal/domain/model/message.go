package model

import "time"

// 会員同士のダイレクトメッセージ。商品ページから送ると product_id が付く。
type Message struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64  `gorm:"not null;index" json:"sender_id"`
	ReceiverID int64  `gorm:"not null;index" json:"receiver_id"`
	ProductID  *int64 `gorm:"index" json:"product_id,omitempty"`
	Body       string `gorm:"column:message;type:text;not null" json:"message"`

	//受信者がスレッドを開いたらtrue
	ReadStatus bool `gorm:"not null;default:false" json:"read_status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
