package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//出品者の商品が含まれる注文一覧（売上）
	ListBySellerID(ctx context.Context, sellerID int64) ([]model.Order, error)
}
