package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Where("id = ?", reviewID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var items []model.Review

	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.Review{}, err
	}

	return items, nil
}

// 件数と平均を一回で取る
func (r *ReviewGormRepository) Summary(ctx context.Context, productID int64) (repo.ReviewSummary, error) {
	var row struct {
		TotalReviews  int64
		AverageRating *float64
	}

	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("count(*) as total_reviews, avg(rating) as average_rating").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return repo.ReviewSummary{}, err
	}

	out := repo.ReviewSummary{TotalReviews: row.TotalReviews}
	if row.AverageRating != nil {
		out.AverageRating = *row.AverageRating
	}
	return out, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", rv.ID).
		Updates(map[string]interface{}{
			"rating":  rv.Rating,
			"comment": rv.Comment,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) DeleteByID(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, reviewID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
