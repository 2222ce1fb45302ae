package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type ReviewUsecase struct {
	reviews  repo.ReviewRepository
	products repo.ProductRepository
	users    repo.UserRepository
}

func NewReviewUsecase(
	reviews repo.ReviewRepository,
	products repo.ProductRepository,
	users repo.UserRepository,
) *ReviewUsecase {
	return &ReviewUsecase{reviews: reviews, products: products, users: users}
}

type CreateReviewInput struct {
	Rating  int
	Comment string
	OrderID *int64
}

type ReviewOutput struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductReviewsOutput struct {
	Items         []ReviewOutput `json:"items"`
	TotalReviews  int64          `json:"total_reviews"`
	AverageRating float64        `json:"average_rating"`
}

// CreateReview はレビュー投稿。1商品につき1人1件まで。
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in CreateReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "rating must be between 1 and 5")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.Status == model.ProductStatusDeleted {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}

	//自分の商品に星は付けられない
	if p.UserID == userID {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, CodeOwnProduct, "cannot review own product")
	}

	exists, err := u.reviews.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if exists {
		return ReviewOutput{}, NewHTTPError(http.StatusConflict, CodeAlreadyReviewed, "already reviewed this product")
	}

	created, err := u.reviews.Create(ctx, model.Review{
		ProductID: productID,
		UserID:    userID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.toReviewOutput(ctx, created), nil
}

// ListProductReviews は商品のレビュー一覧と集計。
func (u *ReviewUsecase) ListProductReviews(ctx context.Context, productID int64) (ProductReviewsOutput, error) {
	if productID <= 0 {
		return ProductReviewsOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	items, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return ProductReviewsOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	sum, err := u.reviews.Summary(ctx, productID)
	if err != nil {
		return ProductReviewsOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]ReviewOutput, 0, len(items))
	for _, rv := range items {
		outs = append(outs, u.toReviewOutput(ctx, rv))
	}

	return ProductReviewsOutput{
		Items:         outs,
		TotalReviews:  sum.TotalReviews,
		AverageRating: sum.AverageRating,
	}, nil
}

type UpdateReviewInput struct {
	Rating  int
	Comment string
}

// UpdateReview はレビュー編集。投稿者本人のみ。
func (u *ReviewUsecase) UpdateReview(ctx context.Context, userID int64, reviewID int64, in UpdateReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "rating must be between 1 and 5")
	}

	rv, err := u.reviews.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "review not found")
	}
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if rv.UserID != userID {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "review not found")
	}

	rv.Rating = in.Rating
	rv.Comment = strings.TrimSpace(in.Comment)

	if err := u.reviews.Update(ctx, rv); err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.toReviewOutput(ctx, rv), nil
}

// DeleteReview は削除。投稿者本人かadmin。
func (u *ReviewUsecase) DeleteReview(ctx context.Context, userID int64, role string, reviewID int64) (SuccessResponse, error) {
	if userID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	rv, err := u.reviews.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "review not found")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if rv.UserID != userID && model.Role(role) != model.RoleAdmin {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "review not found")
	}

	if err := u.reviews.DeleteByID(ctx, reviewID); err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "review deleted"}, nil
}

func (u *ReviewUsecase) toReviewOutput(ctx context.Context, rv model.Review) ReviewOutput {
	out := ReviewOutput{
		ID:        rv.ID,
		ProductID: rv.ProductID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
	if user, err := u.users.FindByID(ctx, rv.UserID); err == nil && user != nil {
		out.UserName = user.Name
	}
	return out
}
