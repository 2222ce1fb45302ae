package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	users repo.UserRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		users:      users,
	}
}

type PlaceOrderInput struct {
	ShippingAddress string
	PaymentMethod   string
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 売上（出品者視点）の1件
type SaleOutput struct {
	OrderID       int64             `json:"order_id"`
	BuyerID       int64             `json:"buyer_id"`
	BuyerName     string            `json:"buyer_name"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

// 注文ステータス5値のチェック
func isValidOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusProcessing,
		model.OrderStatusShipped, model.OrderStatusDelivered,
		model.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PlaceOrder はカートから注文を作る。
// 在庫チェック＋減算、注文作成、明細作成、カートクリアまでを
// 1つのトランザクションで行う。途中で失敗したら全部ロールバックする。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "shipping address required")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "payment method required")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//公開中の商品の行だけが注文対象
		type line struct {
			item    model.CartItem
			product model.Product
		}
		lines := make([]line, 0, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if p.Status != model.ProductStatusActive {
				continue
			}
			lines = append(lines, line{item: ci, product: p})
		}

		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}

		//在庫を確定時に再チェックして減らす。
		//条件付きUPDATEなので同時注文との競合でも売り越さない。
		orderItems := make([]model.OrderItem, 0, len(lines))
		total := decimal.Zero

		for _, ln := range lines {
			ok, err := r.Stock().DecreaseStockIfEnough(ctx, ln.product.ID, ln.item.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if !ok {
				//どの商品で失敗したか名指しして全体を中断
				return NewHTTPError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", ln.product.Title))
			}

			//確定時点の価格をスナップショット
			orderItems = append(orderItems, model.OrderItem{
				ProductID: ln.product.ID,
				Quantity:  ln.item.Quantity,
				Price:     ln.product.Price,
			})

			total = total.Add(ln.product.Price.Mul(decimal.NewFromInt(ln.item.Quantity)))
		}

		// 注文作成
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//カートをクリア（再注文防止）
		if err := r.CartItems().DeleteAllByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		created := model.Order{
			ID:              orderID,
			UserID:          userID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			CreatedAt:       now,
		}
		titles := make(map[int64]string, len(lines))
		for _, ln := range lines {
			titles[ln.product.ID] = ln.product.Title
		}
		out = toOrderOutput(created, withTitles(orderItems, titles))
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	orders, _, err := u.orders.ListByUserID(ctx, userID, 1, 50)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		outs = append(outs, toOrderOutput(o, toItemOutputs(items)))
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if o.UserID != userID {
		//他人の注文は「存在しない扱い」にする
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return toOrderOutput(o, toItemOutputs(items)), nil
}

// ListSales は自分の商品が含まれる注文の一覧（出品者向け）。
func (u *OrderUsecase) ListSales(ctx context.Context, sellerID int64) ([]SaleOutput, error) {
	if sellerID <= 0 {
		return []SaleOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListBySellerID(ctx, sellerID)
	if err != nil {
		return []SaleOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]SaleOutput, 0, len(orders))
	for _, o := range orders {
		//自分の商品の明細だけを見せる
		items, err := u.orderItems.ListByOrderAndSeller(ctx, o.ID, sellerID)
		if err != nil {
			return []SaleOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		sale := SaleOutput{
			OrderID:       o.ID,
			BuyerID:       o.UserID,
			Status:        string(o.Status),
			PaymentStatus: string(o.PaymentStatus),
			TotalAmount:   o.TotalAmount,
			CreatedAt:     o.CreatedAt,
			Items:         toItemOutputs(items),
		}
		if buyer, err := u.users.FindByID(ctx, o.UserID); err == nil && buyer != nil {
			sale.BuyerName = buyer.Name
		}
		outs = append(outs, sale)
	}
	return outs, nil
}

func (u *OrderUsecase) GetSaleDetail(ctx context.Context, sellerID int64, orderID int64) (SaleOutput, error) {
	if sellerID <= 0 {
		return SaleOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return SaleOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}
	if err != nil {
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	items, err := u.orderItems.ListByOrderAndSeller(ctx, orderID, sellerID)
	if err != nil {
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	//自分の商品が入っていない注文は見せない
	if len(items) == 0 {
		return SaleOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}

	sale := SaleOutput{
		OrderID:       o.ID,
		BuyerID:       o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		CreatedAt:     o.CreatedAt,
		Items:         toItemOutputs(items),
	}
	if buyer, err := u.users.FindByID(ctx, o.UserID); err == nil && buyer != nil {
		sale.BuyerName = buyer.Name
	}
	return sale, nil
}

type UpdateOrderStatusInput struct {
	Status string
}

// UpdateStatus は注文ステータス変更。
// 買い手・商品を1つでも持つ出品者・adminだけが変更できる。
// 5値の間の順序は縛らない（出品者の運用を柔軟にするため）。
// cancelledにしても在庫は戻さない。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actorID int64, actorRole string, orderID int64, in UpdateOrderStatusInput) (SuccessResponse, error) {
	if actorID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if !isValidOrderStatus(in.Status) {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidStatus, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	isBuyer := o.UserID == actorID
	isAdmin := model.Role(actorRole) == model.RoleAdmin

	isSeller := false
	if !isBuyer && !isAdmin {
		isSeller, err = u.orderItems.SellerHasItems(ctx, orderID, actorID)
		if err != nil {
			return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
	}

	if !isBuyer && !isSeller && !isAdmin {
		return SuccessResponse{}, NewHTTPError(http.StatusForbidden, CodeForbidden, "not authorized")
	}

	if err := u.orders.UpdateStatus(ctx, orderID, model.OrderStatus(in.Status)); err != nil {
		if err == repo.ErrNotFound {
			return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "order status updated"}, nil
}

func toOrderOutput(o model.Order, items []OrderItemOutput) OrderOutput {
	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

func toItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return outs
}

// PlaceOrderのレスポンスにだけ商品名を足す
func withTitles(items []model.OrderItem, titles map[int64]string) []OrderItemOutput {
	outs := toItemOutputs(items)
	for i := range outs {
		outs[i].Title = titles[outs[i].ProductID]
	}
	return outs
}
