package repository

import (
	"context"

	"marketplace/internal/domain/model"

	"gorm.io/gorm"
)

type MessageGormRepository struct {
	db *gorm.DB
}

// DI
func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func (r *MessageGormRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Message{}, err
	}
	return m, nil
}

// 2人の間のやりとりを古い順に取得
func (r *MessageGormRepository) ListThread(ctx context.Context, userID int64, otherUserID int64) ([]model.Message, error) {
	var items []model.Message

	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return []model.Message{}, err
	}

	return items, nil
}

// 自分が関わる全メッセージを新しい順に取得
func (r *MessageGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Message, error) {
	var items []model.Message

	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.Message{}, err
	}

	return items, nil
}

// 相手から自分宛ての未読を既読にする。対象0件でもエラーにしない。
func (r *MessageGormRepository) MarkThreadRead(ctx context.Context, senderID int64, receiverID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_status = ?", senderID, receiverID, false).
		Update("read_status", true).Error
}

func (r *MessageGormRepository) CountUnread(ctx context.Context, receiverID int64) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ? AND read_status = ?", receiverID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
