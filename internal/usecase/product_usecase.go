package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	users      repo.UserRepository
	reviews    repo.ReviewRepository
}

func NewProductUsecase(
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	users repo.UserRepository,
	reviews repo.ReviewRepository,
) *ProductUsecase {
	return &ProductUsecase{
		products:   products,
		categories: categories,
		users:      users,
		reviews:    reviews,
	}
}

type ProductOutput struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	CategoryID    int64           `json:"category_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
	Condition     string          `json:"condition,omitempty"`
	Location      string          `json:"location,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ProductDetailOutput struct {
	ProductOutput
	SellerName    string  `json:"seller_name"`
	TotalReviews  int64   `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type SaveProductInput struct {
	CategoryID    int64
	Title         string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
	Condition     string
	Location      string
}

func (in SaveProductInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "title required")
	}
	if in.CategoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "category required")
	}
	if !in.Price.IsPositive() {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "price must be positive")
	}
	if in.StockQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "stock must not be negative")
	}
	return nil
}

// ListPublicProducts は公開中の商品一覧。未ログインでも見られる。
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, q repo.ProductListQuery) (ProductListOutput, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	items, total, err := u.products.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return ProductListOutput{
		Items: toProductOutputs(items),
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// GetProductDetail は商品詳細。activeの商品だけ見せる。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}

	out := ProductDetailOutput{ProductOutput: toProductOutput(p)}

	if seller, err := u.users.FindByID(ctx, p.UserID); err == nil && seller != nil {
		out.SellerName = seller.Name
	}
	if sum, err := u.reviews.Summary(ctx, productID); err == nil {
		out.TotalReviews = sum.TotalReviews
		out.AverageRating = sum.AverageRating
	}

	return out, nil
}

// CreateProduct は出品。user_typeがsellerで、かつ登録料がpaidの人だけ。
func (u *ProductUsecase) CreateProduct(ctx context.Context, userID int64, in SaveProductInput) (ProductOutput, error) {
	if userID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return ProductOutput{}, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//出品者ゲート。買い手や未払いの出品者はここで止まる
	if user.UserType != model.UserTypeSeller || user.SellerPaymentStatus != model.SellerPaymentStatusPaid {
		return ProductOutput{}, NewHTTPError(http.StatusForbidden, CodeSellerNotVerified, "seller registration not completed")
	}

	if _, err := u.categories.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "category not found")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	created, err := u.products.Create(ctx, model.Product{
		UserID:        userID,
		CategoryID:    in.CategoryID,
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Condition:     in.Condition,
		Location:      in.Location,
		Status:        model.ProductStatusActive,
	})
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return toProductOutput(created), nil
}

// UpdateProduct は商品編集。出品者本人のみ。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, userID int64, productID int64, in SaveProductInput) (ProductOutput, error) {
	if userID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if err := in.validate(); err != nil {
		return ProductOutput{}, err
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.UserID != userID {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if p.Status == model.ProductStatusDeleted {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}

	if _, err := u.categories.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "category not found")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	p.CategoryID = in.CategoryID
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.Condition = in.Condition
	p.Location = in.Location

	if err := u.products.Update(ctx, p); err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return toProductOutput(p), nil
}

// DeleteProduct は論理削除。出品者本人かadmin。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, userID int64, role string, productID int64) (SuccessResponse, error) {
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

	if p.UserID != userID && model.Role(role) != model.RoleAdmin {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}

	//注文履歴から価格参照される可能性があるので物理削除しない
	if err := u.products.UpdateStatus(ctx, productID, model.ProductStatusDeleted); err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "product deleted"}, nil
}

// ListMyProducts は自分の出品一覧。deleted以外は全部見せる。
func (u *ProductUsecase) ListMyProducts(ctx context.Context, userID int64) ([]ProductOutput, error) {
	if userID <= 0 {
		return []ProductOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	items, err := u.products.ListByUserID(ctx, userID)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return toProductOutputs(items), nil
}

type CategoryOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]CategoryOutput, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return []CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]CategoryOutput, 0, len(items))
	for _, c := range items {
		outs = append(outs, CategoryOutput{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		})
	}
	return outs, nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:            p.ID,
		UserID:        p.UserID,
		CategoryID:    p.CategoryID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Condition:     p.Condition,
		Location:      p.Location,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

func toProductOutputs(items []model.Product) []ProductOutput {
	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		outs = append(outs, toProductOutput(p))
	}
	return outs
}
