package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type SellerPaymentRepository interface {
	Create(ctx context.Context, p model.SellerPayment) (model.SellerPayment, error)
	FindByID(ctx context.Context, paymentID int64) (model.SellerPayment, error)
	//最新の申請1件（本人のステータス画面用）
	FindLatestByUserID(ctx context.Context, userID int64) (model.SellerPayment, error)
	//承認待ちの申請一覧（admin）
	ListPending(ctx context.Context) ([]model.SellerPayment, error)
	UpdateStatus(ctx context.Context, paymentID int64, status model.SellerPaymentRecordStatus) error
}
