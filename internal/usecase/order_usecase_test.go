package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecaseForTest() (*usecase.OrderUsecase, *txReposStub, *OrderRepoMock, *OrderItemRepoMock, *UserRepoMock) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	users := new(UserRepoMock)

	repos := &txReposStub{
		orders:     orders,
		orderItems: orderItems,
		cartItems:  new(CartRepoMock),
		products:   new(ProductRepoMock),
		stock:      new(StockRepoMock),
		users:      users,
		payments:   new(SellerPaymentRepoMock),
	}

	uc := usecase.NewOrderUsecase(&txManagerStub{repos: repos}, orders, orderItems, users)
	return uc, repos, orders, orderItems, users
}

// Test: カートからの注文確定（在庫減算・価格凍結・カートクリア）
func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	uc, repos, _, _, _ := newOrderUsecaseForTest()

	cart := repos.cartItems.(*CartRepoMock)
	products := repos.products.(*ProductRepoMock)
	stock := repos.stock.(*StockRepoMock)
	orders := repos.orders.(*OrderRepoMock)
	orderItems := repos.orderItems.(*OrderItemRepoMock)

	cart.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, UserID: 10, ProductID: 100, Quantity: 2},
		{ID: 2, UserID: 10, ProductID: 200, Quantity: 1},
	}, nil)

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, UserID: 50, Title: "コーヒー豆", Price: decimal.NewFromInt(1200),
		StockQuantity: 5, Status: model.ProductStatusActive,
	}, nil)
	products.On("FindByID", mock.Anything, int64(200)).Return(model.Product{
		ID: 200, UserID: 51, Title: "ドリッパー", Price: decimal.NewFromInt(800),
		StockQuantity: 3, Status: model.ProductStatusActive,
	}, nil)

	stock.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	stock.On("DecreaseStockIfEnough", mock.Anything, int64(200), int64(1)).Return(true, nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		// 1200*2 + 800*1 = 3200
		return o.UserID == 10 &&
			o.TotalAmount.Equal(decimal.NewFromInt(3200)) &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusPending
	})).Return(int64(555), nil)

	orderItems.On("CreateBulk", mock.Anything, int64(555), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		// 確定時の価格が凍結される
		return items[0].Price.Equal(decimal.NewFromInt(1200)) && items[1].Price.Equal(decimal.NewFromInt(800))
	})).Return(nil)

	cart.On("DeleteAllByUserID", mock.Anything, int64(10)).Return(nil)

	out, err := uc.PlaceOrder(ctx, 10, usecase.PlaceOrderInput{
		ShippingAddress: "東京都千代田区1-1",
		PaymentMethod:   "cash_on_delivery",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(555), out.ID)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(3200)))
	assert.Equal(t, "pending", out.Status)
	assert.Len(t, out.Items, 2)

	cart.AssertCalled(t, "DeleteAllByUserID", mock.Anything, int64(10))
	stock.AssertExpectations(t)
}

// Test: 在庫不足で注文全体を中断（対象の商品名を返す）
func TestOrderUsecase_PlaceOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	uc, repos, _, _, _ := newOrderUsecaseForTest()

	cart := repos.cartItems.(*CartRepoMock)
	products := repos.products.(*ProductRepoMock)
	stock := repos.stock.(*StockRepoMock)

	cart.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, UserID: 10, ProductID: 100, Quantity: 2},
		{ID: 2, UserID: 10, ProductID: 200, Quantity: 9},
	}, nil)

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Title: "A", Price: decimal.NewFromInt(100),
		StockQuantity: 5, Status: model.ProductStatusActive,
	}, nil)
	products.On("FindByID", mock.Anything, int64(200)).Return(model.Product{
		ID: 200, Title: "B", Price: decimal.NewFromInt(100),
		StockQuantity: 3, Status: model.ProductStatusActive,
	}, nil)

	stock.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	//2件目で在庫不足
	stock.On("DecreaseStockIfEnough", mock.Anything, int64(200), int64(9)).Return(false, nil)

	_, err := uc.PlaceOrder(ctx, 10, usecase.PlaceOrderInput{
		ShippingAddress: "addr", PaymentMethod: "bank_transfer",
	})
	requireHTTPError(t, err, http.StatusConflict, usecase.CodeInsufficientStock)
	assert.Contains(t, err.Error(), "B")

	//注文もカートクリアも起きない
	repos.orders.(*OrderRepoMock).AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cart.AssertNotCalled(t, "DeleteAllByUserID", mock.Anything, mock.Anything)
}

// Test: 空カートは400
func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	uc, repos, _, _, _ := newOrderUsecaseForTest()

	cart := repos.cartItems.(*CartRepoMock)
	cart.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(ctx, 10, usecase.PlaceOrderInput{
		ShippingAddress: "addr", PaymentMethod: "cash",
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyCart)
}

// Test: 非公開の商品の行だけのカートも空扱い
func TestOrderUsecase_PlaceOrder_OnlyInactiveItems(t *testing.T) {
	ctx := context.Background()
	uc, repos, _, _, _ := newOrderUsecaseForTest()

	cart := repos.cartItems.(*CartRepoMock)
	products := repos.products.(*ProductRepoMock)

	cart.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, UserID: 10, ProductID: 100, Quantity: 1},
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Status: model.ProductStatusInactive,
	}, nil)

	_, err := uc.PlaceOrder(ctx, 10, usecase.PlaceOrderInput{
		ShippingAddress: "addr", PaymentMethod: "cash",
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyCart)
}

// Test: 配送先必須
func TestOrderUsecase_PlaceOrder_MissingAddress(t *testing.T) {
	uc, _, _, _, _ := newOrderUsecaseForTest()

	_, err := uc.PlaceOrder(context.Background(), 10, usecase.PlaceOrderInput{
		ShippingAddress: "  ", PaymentMethod: "cash",
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
}

// Test: 他人の注文詳細は404
func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrder(t *testing.T) {
	uc, _, orders, _, _ := newOrderUsecaseForTest()

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 99}, nil)

	_, err := uc.GetMyOrderDetail(context.Background(), 10, 7)
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

// Test: 買い手による注文ステータス変更
func TestOrderUsecase_UpdateStatus_Buyer(t *testing.T) {
	uc, _, orders, _, _ := newOrderUsecaseForTest()

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 10}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), 10, "user", 7, usecase.UpdateOrderStatusInput{Status: "cancelled"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Message)
}

// Test: 商品を持つ出品者による変更
func TestOrderUsecase_UpdateStatus_Seller(t *testing.T) {
	uc, _, orders, orderItems, _ := newOrderUsecaseForTest()

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 10}, nil)
	orderItems.On("SellerHasItems", mock.Anything, int64(7), int64(50)).Return(true, nil)
	orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusShipped).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 50, "user", 7, usecase.UpdateOrderStatusInput{Status: "shipped"})
	assert.NoError(t, err)
}

// Test: 無関係なユーザーは403
func TestOrderUsecase_UpdateStatus_Stranger(t *testing.T) {
	uc, _, orders, orderItems, _ := newOrderUsecaseForTest()

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 10}, nil)
	orderItems.On("SellerHasItems", mock.Anything, int64(7), int64(77)).Return(false, nil)

	_, err := uc.UpdateStatus(context.Background(), 77, "user", 7, usecase.UpdateOrderStatusInput{Status: "shipped"})
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeForbidden)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// Test: 未知のステータスは400
func TestOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	uc, _, _, _, _ := newOrderUsecaseForTest()

	_, err := uc.UpdateStatus(context.Background(), 10, "user", 7, usecase.UpdateOrderStatusInput{Status: "teleported"})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidStatus)
}

// Test: 売上詳細は自分の明細が入っている注文だけ
func TestOrderUsecase_GetSaleDetail_NoSellerItems(t *testing.T) {
	uc, _, orders, orderItems, _ := newOrderUsecaseForTest()

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 10}, nil)
	orderItems.On("ListByOrderAndSeller", mock.Anything, int64(7), int64(50)).Return([]model.OrderItem{}, nil)

	_, err := uc.GetSaleDetail(context.Background(), 50, 7)
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

// Test: 売上一覧には自分の明細だけが載る
func TestOrderUsecase_ListSales(t *testing.T) {
	uc, _, orders, orderItems, users := newOrderUsecaseForTest()

	orders.On("ListBySellerID", mock.Anything, int64(50)).Return([]model.Order{
		{ID: 7, UserID: 10, Status: model.OrderStatusPending, TotalAmount: decimal.NewFromInt(3200)},
	}, nil)
	orderItems.On("ListByOrderAndSeller", mock.Anything, int64(7), int64(50)).Return([]model.OrderItem{
		{ID: 1, OrderID: 7, ProductID: 100, Quantity: 2, Price: decimal.NewFromInt(1200)},
	}, nil)
	users.On("FindByID", mock.Anything, int64(10)).Return(&model.User{ID: 10, Name: "買い手"}, nil)

	out, err := uc.ListSales(context.Background(), 50)
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(7), out[0].OrderID)
		assert.Equal(t, "買い手", out[0].BuyerName)
		assert.Len(t, out[0].Items, 1)
	}
}
