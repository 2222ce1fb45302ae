package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type MessageUsecase struct {
	messages repo.MessageRepository
	users    repo.UserRepository
	products repo.ProductRepository
}

func NewMessageUsecase(
	messages repo.MessageRepository,
	users repo.UserRepository,
	products repo.ProductRepository,
) *MessageUsecase {
	return &MessageUsecase{messages: messages, users: users, products: products}
}

type SendMessageInput struct {
	ReceiverID int64
	ProductID  *int64
	Body       string
}

type MessageOutput struct {
	ID           int64     `json:"id"`
	SenderID     int64     `json:"sender_id"`
	ReceiverID   int64     `json:"receiver_id"`
	ProductID    *int64    `json:"product_id,omitempty"`
	ProductTitle string    `json:"product_title,omitempty"`
	Body         string    `json:"message"`
	ReadStatus   bool      `json:"read_status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ThreadOutput struct {
	Items         []MessageOutput `json:"items"`
	OtherUserID   int64           `json:"other_user_id"`
	OtherUserName string          `json:"other_user_name"`
}

type ConversationOutput struct {
	OtherUserID   int64     `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	ProductID     *int64    `json:"product_id,omitempty"`
	ProductTitle  string    `json:"product_title,omitempty"`
	UnreadCount   int64     `json:"unread_count"`
}

type UnreadCountOutput struct {
	Count int64 `json:"count"`
}

// SendMessage はダイレクトメッセージ送信。自分宛ては不可。
func (u *MessageUsecase) SendMessage(ctx context.Context, userID int64, in SendMessageInput) (MessageOutput, error) {
	if userID <= 0 {
		return MessageOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.ReceiverID <= 0 {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "receiver required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "message cannot be empty")
	}
	if in.ReceiverID == userID {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, CodeSelfMessage, "cannot send message to yourself")
	}

	if _, err := u.users.FindByID(ctx, in.ReceiverID); err != nil {
		if err == repo.ErrUserNotFound {
			return MessageOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
		}
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//商品ページ発のメッセージは商品の存在も確認する
	if in.ProductID != nil {
		if _, err := u.products.FindByID(ctx, *in.ProductID); err != nil {
			if err == repo.ErrNotFound {
				return MessageOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
			}
			return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
	}

	created, err := u.messages.Create(ctx, model.Message{
		SenderID:   userID,
		ReceiverID: in.ReceiverID,
		ProductID:  in.ProductID,
		Body:       strings.TrimSpace(in.Body),
	})
	if err != nil {
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.toMessageOutput(ctx, created), nil
}

// GetThread は相手とのやりとり一覧。開いた時点で相手からの未読を既読にする。
func (u *MessageUsecase) GetThread(ctx context.Context, userID int64, otherUserID int64) (ThreadOutput, error) {
	if userID <= 0 {
		return ThreadOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if otherUserID <= 0 {
		return ThreadOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	other, err := u.users.FindByID(ctx, otherUserID)
	if err == repo.ErrUserNotFound {
		return ThreadOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
	}
	if err != nil {
		return ThreadOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	items, err := u.messages.ListThread(ctx, userID, otherUserID)
	if err != nil {
		return ThreadOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if err := u.messages.MarkThreadRead(ctx, otherUserID, userID); err != nil {
		return ThreadOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]MessageOutput, 0, len(items))
	for _, m := range items {
		outs = append(outs, u.toMessageOutput(ctx, m))
	}

	return ThreadOutput{
		Items:         outs,
		OtherUserID:   other.ID,
		OtherUserName: other.Name,
	}, nil
}

// ListConversations は会話相手ごとの最新メッセージ一覧。新しい順。
func (u *MessageUsecase) ListConversations(ctx context.Context, userID int64) ([]ConversationOutput, error) {
	if userID <= 0 {
		return []ConversationOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	items, err := u.messages.ListByUserID(ctx, userID)
	if err != nil {
		return []ConversationOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//新しい順で来るので、相手ごとに最初の1件が最新
	outs := make([]ConversationOutput, 0)
	seen := map[int64]int{}
	for _, m := range items {
		otherID := m.SenderID
		if m.SenderID == userID {
			otherID = m.ReceiverID
		}

		if idx, ok := seen[otherID]; ok {
			//未読数だけ積み増す
			if m.ReceiverID == userID && !m.ReadStatus {
				outs[idx].UnreadCount++
			}
			continue
		}

		conv := ConversationOutput{
			OtherUserID:   otherID,
			LastMessage:   m.Body,
			LastMessageAt: m.CreatedAt,
			ProductID:     m.ProductID,
		}
		if m.ReceiverID == userID && !m.ReadStatus {
			conv.UnreadCount = 1
		}
		if other, err := u.users.FindByID(ctx, otherID); err == nil && other != nil {
			conv.OtherUserName = other.Name
		}
		if m.ProductID != nil {
			if p, err := u.products.FindByID(ctx, *m.ProductID); err == nil {
				conv.ProductTitle = p.Title
			}
		}

		seen[otherID] = len(outs)
		outs = append(outs, conv)
	}

	return outs, nil
}

// UnreadCount は自分宛ての未読メッセージ数。ヘッダのバッジ用。
func (u *MessageUsecase) UnreadCount(ctx context.Context, userID int64) (UnreadCountOutput, error) {
	if userID <= 0 {
		return UnreadCountOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	count, err := u.messages.CountUnread(ctx, userID)
	if err != nil {
		return UnreadCountOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return UnreadCountOutput{Count: count}, nil
}

func (u *MessageUsecase) toMessageOutput(ctx context.Context, m model.Message) MessageOutput {
	out := MessageOutput{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ProductID:  m.ProductID,
		Body:       m.Body,
		ReadStatus: m.ReadStatus,
		CreatedAt:  m.CreatedAt,
	}
	if m.ProductID != nil {
		if p, err := u.products.FindByID(ctx, *m.ProductID); err == nil {
			out.ProductTitle = p.Title
		}
	}
	return out
}
