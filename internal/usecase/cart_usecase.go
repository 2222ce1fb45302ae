package usecase

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// priceは商品の現在価格。確定時の価格はOrderItem側で凍結する。
type CartItemResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	StockQuantity int64           `json:"stock_quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid quantity")
	}

	// 商品チェック（公開中のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeProductUnavailable, "product is not available")
	}

	//自分の商品は買えない
	if p.UserID == userID {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeSelfPurchase, "cannot add your own product to cart")
	}

	//既存数量＋追加分が在庫を超えないか
	var existingQty int64 = 0
	existing, err := u.cartRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err == nil {
		existingQty = existing.Quantity
	} else if err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if existingQty+in.Quantity > p.StockQuantity {
		return CartResponse{}, NewHTTPError(http.StatusConflict, CodeInsufficientStock, "insufficient stock")
	}

	// Upsert（同一商品は加算、行は増えない）
	if err := u.cartRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（所有チェック＋在庫チェック）。
// quantity < 1 は削除として扱う。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	//1未満は削除に委譲
	if in.Quantity < 1 {
		return u.DeleteCartItem(ctx, userID, cartItemID)
	}

	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//他人の明細は「存在しない扱い」
	if item.UserID != userID {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
	}

	//商品の在庫チェック
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeProductUnavailable, "product is not available")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeProductUnavailable, "product is not available")
	}
	if in.Quantity > p.StockQuantity {
		return CartResponse{}, NewHTTPError(http.StatusConflict, CodeInsufficientStock, "insufficient stock")
	}

	if err := u.cartRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if item.UserID != userID {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
	}

	if err := u.cartRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "cart item not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// カートを空にする。元々空でも成功。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (SuccessResponse, error) {
	if userID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	if err := u.cartRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "cart cleared"}, nil
}

// ユーザーの明細をまとめてCartResponseを作る。
// 公開でなくなった商品の行は表示から外す。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		if p.Status != model.ProductStatusActive {
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Title:         p.Title,
			Price:         p.Price,
			Quantity:      it.Quantity,
			StockQuantity: p.StockQuantity,
		})

		total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
