package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// レビューの集計値
type ReviewSummary struct {
	TotalReviews  int64   `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	//同じユーザーが同じ商品をレビュー済みか
	ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	Summary(ctx context.Context, productID int64) (ReviewSummary, error)
	Update(ctx context.Context, r model.Review) error
	DeleteByID(ctx context.Context, reviewID int64) error
}
