package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type SellerPaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewSellerPaymentGormRepository(db *gorm.DB) *SellerPaymentGormRepository {
	return &SellerPaymentGormRepository{db: db}
}

func (r *SellerPaymentGormRepository) Create(ctx context.Context, p model.SellerPayment) (model.SellerPayment, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.SellerPayment{}, err
	}
	return p, nil
}

func (r *SellerPaymentGormRepository) FindByID(ctx context.Context, paymentID int64) (model.SellerPayment, error) {
	var p model.SellerPayment
	err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SellerPayment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SellerPayment{}, err
	}
	return p, nil
}

func (r *SellerPaymentGormRepository) FindLatestByUserID(ctx context.Context, userID int64) (model.SellerPayment, error) {
	var p model.SellerPayment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SellerPayment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SellerPayment{}, err
	}
	return p, nil
}

// 承認待ちの申請を新しい順で返す
func (r *SellerPaymentGormRepository) ListPending(ctx context.Context) ([]model.SellerPayment, error) {
	var items []model.SellerPayment

	if err := r.db.WithContext(ctx).
		Where("status = ?", model.SellerPaymentRecordPending).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.SellerPayment{}, err
	}

	return items, nil
}

func (r *SellerPaymentGormRepository) UpdateStatus(ctx context.Context, paymentID int64, status model.SellerPaymentRecordStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.SellerPayment{}).
		Where("id = ?", paymentID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
