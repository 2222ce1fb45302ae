package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	Exists(ctx context.Context, userID int64, productID int64) (bool, error)
	Create(ctx context.Context, item model.WishlistItem) error
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
}
