package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newMessageUsecaseForTest() (*usecase.MessageUsecase, *MessageRepoMock, *UserRepoMock, *ProductRepoMock) {
	messages := new(MessageRepoMock)
	users := new(UserRepoMock)
	products := new(ProductRepoMock)
	uc := usecase.NewMessageUsecase(messages, users, products)
	return uc, messages, users, products
}

// Test: メッセージ送信。商品ページ発なら商品タイトルも載る
func TestMessageUsecase_SendMessage(t *testing.T) {
	ctx := context.Background()
	uc, messages, users, products := newMessageUsecaseForTest()

	productID := int64(7)
	users.On("FindByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Name: "窯元"}, nil)
	products.On("FindByID", mock.Anything, productID).Return(model.Product{
		ID: 7, Title: "マグカップ", Status: model.ProductStatusActive,
	}, nil)
	messages.On("Create", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.SenderID == 1 && m.ReceiverID == 2 &&
			m.ProductID != nil && *m.ProductID == 7 &&
			m.Body == "在庫はありますか"
	})).Return(model.Message{
		ID: 5, SenderID: 1, ReceiverID: 2, ProductID: &productID, Body: "在庫はありますか",
	}, nil)

	out, err := uc.SendMessage(ctx, 1, usecase.SendMessageInput{
		ReceiverID: 2, ProductID: &productID, Body: "  在庫はありますか  ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "マグカップ", out.ProductTitle)
	messages.AssertExpectations(t)
}

// Test: 自分宛てには送れない
func TestMessageUsecase_SendMessage_ToSelf(t *testing.T) {
	ctx := context.Background()
	uc, messages, _, _ := newMessageUsecaseForTest()

	_, err := uc.SendMessage(ctx, 1, usecase.SendMessageInput{ReceiverID: 1, Body: "hello"})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeSelfMessage)
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 宛先がいなければ404。本文が空なら400
func TestMessageUsecase_SendMessage_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _, users, _ := newMessageUsecaseForTest()

	users.On("FindByID", mock.Anything, int64(99)).Return(nil, repo.ErrUserNotFound)

	_, err := uc.SendMessage(ctx, 1, usecase.SendMessageInput{ReceiverID: 99, Body: "hello"})
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)

	_, err = uc.SendMessage(ctx, 1, usecase.SendMessageInput{ReceiverID: 2, Body: "   "})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
}

// Test: スレッドを開くと相手からの未読が既読になる
func TestMessageUsecase_GetThread_MarksRead(t *testing.T) {
	ctx := context.Background()
	uc, messages, users, _ := newMessageUsecaseForTest()

	users.On("FindByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Name: "窯元"}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Name: "山田"}, nil)
	messages.On("ListThread", mock.Anything, int64(1), int64(2)).Return([]model.Message{
		{ID: 5, SenderID: 1, ReceiverID: 2, Body: "在庫はありますか"},
		{ID: 6, SenderID: 2, ReceiverID: 1, Body: "あります"},
	}, nil)
	messages.On("MarkThreadRead", mock.Anything, int64(2), int64(1)).Return(nil)

	out, err := uc.GetThread(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "窯元", out.OtherUserName)
	messages.AssertExpectations(t)
}

// Test: 存在しない相手とのスレッドは404
func TestMessageUsecase_GetThread_UnknownUser(t *testing.T) {
	ctx := context.Background()
	uc, messages, users, _ := newMessageUsecaseForTest()

	users.On("FindByID", mock.Anything, int64(99)).Return(nil, repo.ErrUserNotFound)

	_, err := uc.GetThread(ctx, 1, 99)
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	messages.AssertNotCalled(t, "MarkThreadRead", mock.Anything, mock.Anything, mock.Anything)
}

// Test: 会話一覧は相手ごとに最新1件、未読数つき
func TestMessageUsecase_ListConversations(t *testing.T) {
	ctx := context.Background()
	uc, messages, users, _ := newMessageUsecaseForTest()

	now := time.Now()
	messages.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Message{
		//新しい順。相手2とは2通（未読1）、相手3とは1通（既読）
		{ID: 8, SenderID: 2, ReceiverID: 1, Body: "発送しました", CreatedAt: now},
		{ID: 7, SenderID: 3, ReceiverID: 1, Body: "ありがとうございました", ReadStatus: true, CreatedAt: now.Add(-time.Hour)},
		{ID: 6, SenderID: 2, ReceiverID: 1, Body: "あります", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 5, SenderID: 1, ReceiverID: 2, Body: "在庫はありますか", CreatedAt: now.Add(-3 * time.Hour)},
	}, nil)
	users.On("FindByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Name: "窯元"}, nil)
	users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Name: "織元"}, nil)

	out, err := uc.ListConversations(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	assert.Equal(t, int64(2), out[0].OtherUserID)
	assert.Equal(t, "発送しました", out[0].LastMessage)
	assert.Equal(t, int64(2), out[0].UnreadCount)

	assert.Equal(t, int64(3), out[1].OtherUserID)
	assert.Equal(t, int64(0), out[1].UnreadCount)
}

// Test: 未読数
func TestMessageUsecase_UnreadCount(t *testing.T) {
	ctx := context.Background()
	uc, messages, _, _ := newMessageUsecaseForTest()

	messages.On("CountUnread", mock.Anything, int64(1)).Return(int64(3), nil)

	out, err := uc.UnreadCount(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.Count)
}
