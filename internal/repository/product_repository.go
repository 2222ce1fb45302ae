package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//公開中（status=active）のみ
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error

	//出品者自身の商品一覧（deleted以外）
	ListByUserID(ctx context.Context, userID int64) ([]model.Product, error)
	//全商品一覧（admin、deleted含む）
	ListAll(ctx context.Context) ([]model.Product, error)
	//公開中の商品数（admin統計）
	CountActive(ctx context.Context) (int64, error)
}
