package repository

import (
	"context"

	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartRepository
	products   repo.ProductRepository
	stock      repo.StockRepository
	users      repo.UserRepository
	payments   repo.SellerPaymentRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                 { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository         { return r.orderItems }
func (r *txReposGorm) CartItems() repo.CartRepository               { return r.cartItems }
func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Stock() repo.StockRepository                  { return r.stock }
func (r *txReposGorm) Users() repo.UserRepository                   { return r.users }
func (r *txReposGorm) SellerPayments() repo.SellerPaymentRepository { return r.payments }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			cartItems:  NewCartGormRepository(tx),
			products:   NewProductGormRepository(tx),
			stock:      NewStockGormRepository(tx),
			users:      NewUserGormRepository(tx),
			payments:   NewSellerPaymentGormRepository(tx),
		}
		return fn(r)
	})
}
