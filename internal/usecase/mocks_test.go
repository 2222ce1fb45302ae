package usecase_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) UpdateAccountStatus(ctx context.Context, userID int64, status model.AccountStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateSellerPayment(ctx context.Context, userID int64, status model.SellerPaymentStatus, amount decimal.Decimal, date *time.Time) error {
	args := m.Called(ctx, userID, status, amount, date)
	return args.Error(0)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) ListPendingBuyers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ProductRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type StockRepoMock struct{ mock.Mock }

func (m *StockRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartRepoMock) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, userID, productID, addQty)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Order, error) {
	args := m.Called(ctx, sellerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) SellerHasItems(ctx context.Context, orderID int64, sellerID int64) (bool, error) {
	args := m.Called(ctx, orderID, sellerID)
	return args.Bool(0), args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderAndSeller(ctx context.Context, orderID int64, sellerID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID, sellerID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type SellerPaymentRepoMock struct{ mock.Mock }

func (m *SellerPaymentRepoMock) Create(ctx context.Context, p model.SellerPayment) (model.SellerPayment, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.SellerPayment)
	return created, args.Error(1)
}

func (m *SellerPaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.SellerPayment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(model.SellerPayment)
	return p, args.Error(1)
}

func (m *SellerPaymentRepoMock) FindLatestByUserID(ctx context.Context, userID int64) (model.SellerPayment, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.SellerPayment)
	return p, args.Error(1)
}

func (m *SellerPaymentRepoMock) ListPending(ctx context.Context) ([]model.SellerPayment, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.SellerPayment)
	return items, args.Error(1)
}

func (m *SellerPaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.SellerPaymentRecordStatus) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) Create(ctx context.Context, r model.Review) (model.Review, error) {
	args := m.Called(ctx, r)
	created, _ := args.Get(0).(model.Review)
	return created, args.Error(1)
}

func (m *ReviewRepoMock) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	args := m.Called(ctx, reviewID)
	r, _ := args.Get(0).(model.Review)
	return r, args.Error(1)
}

func (m *ReviewRepoMock) ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.Review)
	return items, args.Error(1)
}

func (m *ReviewRepoMock) Summary(ctx context.Context, productID int64) (repo.ReviewSummary, error) {
	args := m.Called(ctx, productID)
	s, _ := args.Get(0).(repo.ReviewSummary)
	return s, args.Error(1)
}

func (m *ReviewRepoMock) Update(ctx context.Context, r model.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReviewRepoMock) DeleteByID(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.WishlistItem)
	return items, args.Error(1)
}

func (m *WishlistRepoMock) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *WishlistRepoMock) Create(ctx context.Context, item model.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WishlistRepoMock) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

type MessageRepoMock struct{ mock.Mock }

func (m *MessageRepoMock) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	args := m.Called(ctx, msg)
	created, _ := args.Get(0).(model.Message)
	return created, args.Error(1)
}

func (m *MessageRepoMock) ListThread(ctx context.Context, userID int64, otherUserID int64) ([]model.Message, error) {
	args := m.Called(ctx, userID, otherUserID)
	items, _ := args.Get(0).([]model.Message)
	return items, args.Error(1)
}

func (m *MessageRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Message, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Message)
	return items, args.Error(1)
}

func (m *MessageRepoMock) MarkThreadRead(ctx context.Context, senderID int64, receiverID int64) error {
	args := m.Called(ctx, senderID, receiverID)
	return args.Error(0)
}

func (m *MessageRepoMock) CountUnread(ctx context.Context, receiverID int64) (int64, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteByID(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// =====================
// トランザクション
// =====================

// テスト用のTxRepos。渡したmockをそのまま返す。
type txReposStub struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartRepository
	products   repo.ProductRepository
	stock      repo.StockRepository
	users      repo.UserRepository
	payments   repo.SellerPaymentRepository
}

func (s *txReposStub) Orders() repo.OrderRepository                 { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository         { return s.orderItems }
func (s *txReposStub) CartItems() repo.CartRepository               { return s.cartItems }
func (s *txReposStub) Products() repo.ProductRepository             { return s.products }
func (s *txReposStub) Stock() repo.StockRepository                  { return s.stock }
func (s *txReposStub) Users() repo.UserRepository                   { return s.users }
func (s *txReposStub) SellerPayments() repo.SellerPaymentRepository { return s.payments }

// fnにstubを渡すだけのTransactionManager。
// rollbackの検証はしない（gorm側の責務）。
type txManagerStub struct {
	repos *txReposStub
}

func (s *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s.repos)
}

// =====================
// ヘルパー
// =====================

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, code, he.Code)
	}
}
