package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReviewUsecaseForTest() (*usecase.ReviewUsecase, *ReviewRepoMock, *ProductRepoMock, *UserRepoMock) {
	reviews := new(ReviewRepoMock)
	products := new(ProductRepoMock)
	users := new(UserRepoMock)
	uc := usecase.NewReviewUsecase(reviews, products, users)
	return uc, reviews, products, users
}

// Test: レビュー投稿
func TestReviewUsecase_CreateReview(t *testing.T) {
	ctx := context.Background()
	uc, reviews, products, users := newReviewUsecaseForTest()

	products.On("FindByID", mock.Anything, int64(7)).Return(model.Product{
		ID: 7, UserID: 3, Status: model.ProductStatusActive,
	}, nil)
	reviews.On("ExistsByUserAndProduct", mock.Anything, int64(1), int64(7)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(rv model.Review) bool {
		return rv.ProductID == 7 && rv.UserID == 1 && rv.Rating == 5 && rv.Comment == "良い買い物でした"
	})).Return(model.Review{ID: 11, ProductID: 7, UserID: 1, Rating: 5, Comment: "良い買い物でした"}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Name: "山田"}, nil)

	out, err := uc.CreateReview(ctx, 1, 7, usecase.CreateReviewInput{
		Rating: 5, Comment: "  良い買い物でした  ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "山田", out.UserName)
	assert.Equal(t, 5, out.Rating)
}

// Test: 自分の商品にはレビューできない
func TestReviewUsecase_CreateReview_OwnProduct(t *testing.T) {
	ctx := context.Background()
	uc, reviews, products, _ := newReviewUsecaseForTest()

	products.On("FindByID", mock.Anything, int64(7)).Return(model.Product{
		ID: 7, UserID: 1, Status: model.ProductStatusActive,
	}, nil)

	_, err := uc.CreateReview(ctx, 1, 7, usecase.CreateReviewInput{Rating: 4})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeOwnProduct)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 同じ商品への2件目は409
func TestReviewUsecase_CreateReview_Duplicate(t *testing.T) {
	ctx := context.Background()
	uc, reviews, products, _ := newReviewUsecaseForTest()

	products.On("FindByID", mock.Anything, int64(7)).Return(model.Product{
		ID: 7, UserID: 3, Status: model.ProductStatusActive,
	}, nil)
	reviews.On("ExistsByUserAndProduct", mock.Anything, int64(1), int64(7)).Return(true, nil)

	_, err := uc.CreateReview(ctx, 1, 7, usecase.CreateReviewInput{Rating: 4})
	requireHTTPError(t, err, http.StatusConflict, usecase.CodeAlreadyReviewed)
}

// Test: ratingの範囲外は400
func TestReviewUsecase_CreateReview_InvalidRating(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newReviewUsecaseForTest()

	_, err := uc.CreateReview(ctx, 1, 7, usecase.CreateReviewInput{Rating: 0})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)

	_, err = uc.CreateReview(ctx, 1, 7, usecase.CreateReviewInput{Rating: 6})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
}

// Test: 他人のレビューの編集は404
func TestReviewUsecase_UpdateReview_OtherUsersReview(t *testing.T) {
	ctx := context.Background()
	uc, reviews, _, _ := newReviewUsecaseForTest()

	reviews.On("FindByID", mock.Anything, int64(11)).Return(model.Review{
		ID: 11, UserID: 99, Rating: 3,
	}, nil)

	_, err := uc.UpdateReview(ctx, 1, 11, usecase.UpdateReviewInput{Rating: 5})
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Test: adminは他人のレビューを削除できる
func TestReviewUsecase_DeleteReview_Admin(t *testing.T) {
	ctx := context.Background()
	uc, reviews, _, _ := newReviewUsecaseForTest()

	reviews.On("FindByID", mock.Anything, int64(11)).Return(model.Review{
		ID: 11, UserID: 99,
	}, nil)
	reviews.On("DeleteByID", mock.Anything, int64(11)).Return(nil)

	_, err := uc.DeleteReview(ctx, 1, string(model.RoleAdmin), 11)
	assert.NoError(t, err)
	reviews.AssertExpectations(t)
}
