package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m model.Message) (model.Message, error)
	// 2人の間のやりとりを古い順に取得
	ListThread(ctx context.Context, userID int64, otherUserID int64) ([]model.Message, error)
	// 自分が関わる全メッセージを新しい順に取得（会話一覧の組み立て用）
	ListByUserID(ctx context.Context, userID int64) ([]model.Message, error)
	// 相手から自分宛ての未読を既読にする
	MarkThreadRead(ctx context.Context, senderID int64, receiverID int64) error
	CountUnread(ctx context.Context, receiverID int64) (int64, error)
}
