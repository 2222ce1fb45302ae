package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/domain/model"

	"github.com/shopspring/decimal"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//アカウント承認状態の変更（admin操作）
	UpdateAccountStatus(ctx context.Context, userID int64, status model.AccountStatus) error
	//出品者の支払いゲートの更新。dateはpaidになった時だけ入る。
	UpdateSellerPayment(ctx context.Context, userID int64, status model.SellerPaymentStatus, amount decimal.Decimal, date *time.Time) error
	//全ユーザー一覧（admin）
	List(ctx context.Context) ([]model.User, error)
	//承認待ちのbuyer一覧（admin）
	ListPendingBuyers(ctx context.Context) ([]model.User, error)
	//ユーザー数（admin統計）
	Count(ctx context.Context) (int64, error)
}
