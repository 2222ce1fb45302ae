package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//注文の中に出品者の商品が1件でも入っているか
	SellerHasItems(ctx context.Context, orderID int64, sellerID int64) (bool, error)
	//注文の中の出品者の明細だけ
	ListByOrderAndSeller(ctx context.Context, orderID int64, sellerID int64) ([]model.OrderItem, error)
}
