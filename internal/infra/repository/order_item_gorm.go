package repository

import (
	"context"

	"marketplace/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 注文明細を一括作成
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].OrderID = orderID
	}

	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.OrderItem{}, err
	}

	return items, nil
}

// 注文に出品者の商品が入っているか
func (r *OrderItemGormRepository) SellerHasItems(ctx context.Context, orderID int64, sellerID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("join products on products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.user_id = ?", orderID, sellerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// 注文の中の出品者の明細だけ
func (r *OrderItemGormRepository) ListByOrderAndSeller(ctx context.Context, orderID int64, sellerID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem

	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Joins("join products on products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.user_id = ?", orderID, sellerID).
		Order("order_items.id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}

	return items, nil
}
