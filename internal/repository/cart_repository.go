package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)
	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// ユーザーのカートを空にする。元々空でもエラーにしない。
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
