package usecase

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type AdminUsecase struct {
	users      repo.UserRepository
	products   repo.ProductRepository
	categories repo.CategoryRepository
	payments   repo.SellerPaymentRepository
}

func NewAdminUsecase(
	users repo.UserRepository,
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	payments repo.SellerPaymentRepository,
) *AdminUsecase {
	return &AdminUsecase{
		users:      users,
		products:   products,
		categories: categories,
		payments:   payments,
	}
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return []UserDTO{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]UserDTO, 0, len(users))
	for i := range users {
		outs = append(outs, toUserDTO(&users[i]))
	}
	return outs, nil
}

// ListPendingBuyers は承認待ちの買い手アカウント一覧。
func (u *AdminUsecase) ListPendingBuyers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.ListPendingBuyers(ctx)
	if err != nil {
		return []UserDTO{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]UserDTO, 0, len(users))
	for i := range users {
		outs = append(outs, toUserDTO(&users[i]))
	}
	return outs, nil
}

// ApproveAccount はアカウント承認。pending以外からでも上書きできる
// （suspendedの解除も兼ねる）。
func (u *AdminUsecase) ApproveAccount(ctx context.Context, userID int64) (SuccessResponse, error) {
	return u.setAccountStatus(ctx, userID, model.AccountStatusActive, "account approved")
}

func (u *AdminUsecase) RejectAccount(ctx context.Context, userID int64) (SuccessResponse, error) {
	return u.setAccountStatus(ctx, userID, model.AccountStatusRejected, "account rejected")
}

func (u *AdminUsecase) SuspendAccount(ctx context.Context, userID int64) (SuccessResponse, error) {
	return u.setAccountStatus(ctx, userID, model.AccountStatusSuspended, "account suspended")
}

func (u *AdminUsecase) setAccountStatus(ctx context.Context, userID int64, status model.AccountStatus, msg string) (SuccessResponse, error) {
	if userID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//admin同士の凍結合戦は防ぐ
	if user.Role == model.RoleAdmin && status != model.AccountStatusActive {
		return SuccessResponse{}, NewHTTPError(http.StatusForbidden, CodeForbidden, "cannot change admin account status")
	}

	if err := u.users.UpdateAccountStatus(ctx, userID, status); err != nil {
		if err == repo.ErrUserNotFound {
			return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
		}
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: msg}, nil
}

type PendingSellerPaymentOutput struct {
	SellerPaymentOutput
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ListPendingSellerPayments は承認待ちの登録料申請一覧。申請者情報つき。
func (u *AdminUsecase) ListPendingSellerPayments(ctx context.Context) ([]PendingSellerPaymentOutput, error) {
	payments, err := u.payments.ListPending(ctx)
	if err != nil {
		return []PendingSellerPaymentOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]PendingSellerPaymentOutput, 0, len(payments))
	for _, p := range payments {
		out := PendingSellerPaymentOutput{SellerPaymentOutput: toSellerPaymentOutput(p)}
		if user, err := u.users.FindByID(ctx, p.UserID); err == nil && user != nil {
			out.UserName = user.Name
			out.UserEmail = user.Email
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// AdminListProducts はステータス問わず全商品を返す（モデレーション用）。
func (u *AdminUsecase) AdminListProducts(ctx context.Context) ([]ProductOutput, error) {
	items, err := u.products.ListAll(ctx)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return toProductOutputs(items), nil
}

type UpdateProductStatusInput struct {
	Status string
}

// UpdateProductStatus は商品の公開/非公開/削除の切り替え（admin用）。
func (u *AdminUsecase) UpdateProductStatus(ctx context.Context, productID int64, in UpdateProductStatusInput) (SuccessResponse, error) {
	if productID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	switch model.ProductStatus(in.Status) {
	case model.ProductStatusActive, model.ProductStatusInactive, model.ProductStatusDeleted:
	default:
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidStatus, "invalid status")
	}

	if err := u.products.UpdateStatus(ctx, productID, model.ProductStatus(in.Status)); err != nil {
		if err == repo.ErrNotFound {
			return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
		}
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "product status updated"}, nil
}

type StatsOutput struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveProducts int64 `json:"active_products"`
	Categories     int64 `json:"categories"`
}

// Stats はダッシュボード用の件数サマリ。
func (u *AdminUsecase) Stats(ctx context.Context) (StatsOutput, error) {
	users, err := u.users.Count(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	products, err := u.products.CountActive(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	categories, err := u.categories.Count(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return StatsOutput{
		TotalUsers:     users,
		ActiveProducts: products,
		Categories:     categories,
	}, nil
}
