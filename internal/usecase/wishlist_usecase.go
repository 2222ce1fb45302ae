package usecase

import (
	"context"
	"net/http"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

type WishlistUsecase struct {
	wishlist repo.WishlistRepository
	products repo.ProductRepository
}

func NewWishlistUsecase(wishlist repo.WishlistRepository, products repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{wishlist: wishlist, products: products}
}

type WishlistItemOutput struct {
	ProductID     int64           `json:"product_id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
	AddedAt       time.Time       `json:"added_at"`
}

func (u *WishlistUsecase) GetWishlist(ctx context.Context, userID int64) ([]WishlistItemOutput, error) {
	if userID <= 0 {
		return []WishlistItemOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	items, err := u.wishlist.ListByUserID(ctx, userID)
	if err != nil {
		return []WishlistItemOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]WishlistItemOutput, 0, len(items))
	for _, wi := range items {
		p, err := u.products.FindByID(ctx, wi.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return []WishlistItemOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		//公開されなくなった商品は一覧から落とす
		if p.Status != model.ProductStatusActive {
			continue
		}
		outs = append(outs, WishlistItemOutput{
			ProductID:     p.ID,
			Title:         p.Title,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			AddedAt:       wi.CreatedAt,
		})
	}
	return outs, nil
}

// AddToWishlist はお気に入り追加。重複は409。
func (u *WishlistUsecase) AddToWishlist(ctx context.Context, userID int64, productID int64) (SuccessResponse, error) {
	if userID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeProductUnavailable, "product is not available")
	}

	exists, err := u.wishlist.Exists(ctx, userID, productID)
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if exists {
		return SuccessResponse{}, NewHTTPError(http.StatusConflict, CodeAlreadyInWishlist, "already in wishlist")
	}

	if err := u.wishlist.Create(ctx, model.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "added to wishlist"}, nil
}

// RemoveFromWishlist は削除。入っていなければ404。
func (u *WishlistUsecase) RemoveFromWishlist(ctx context.Context, userID int64, productID int64) (SuccessResponse, error) {
	if userID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	err := u.wishlist.DeleteByUserAndProduct(ctx, userID, productID)
	if err == repo.ErrNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "not in wishlist")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "removed from wishlist"}, nil
}
