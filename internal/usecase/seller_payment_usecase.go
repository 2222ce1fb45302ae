package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SellerPaymentUsecase struct {
	tx       repo.TransactionManager
	payments repo.SellerPaymentRepository
	users    repo.UserRepository
}

func NewSellerPaymentUsecase(
	tx repo.TransactionManager,
	payments repo.SellerPaymentRepository,
	users repo.UserRepository,
) *SellerPaymentUsecase {
	return &SellerPaymentUsecase{tx: tx, payments: payments, users: users}
}

type SubmitSellerPaymentInput struct {
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentNote   string
}

type SellerPaymentOutput struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	PaymentNote      string          `json:"payment_note,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

type SellerActivationOutput struct {
	UserType            string               `json:"user_type"`
	SellerPaymentStatus string               `json:"seller_payment_status"`
	SellerPaymentDate   *time.Time           `json:"seller_payment_date,omitempty"`
	LatestPayment       *SellerPaymentOutput `json:"latest_payment,omitempty"`
}

// Submit は出品者登録料の支払い申請。
// レコード作成と本人のpending化＋申請額の記録を1トランザクションで行う。
// 承認されるまで出品はできない。
func (u *SellerPaymentUsecase) Submit(ctx context.Context, userID int64, in SubmitSellerPaymentInput) (SellerPaymentOutput, error) {
	if userID <= 0 {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if !in.Amount.IsPositive() {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "payment method required")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
	}
	if err != nil {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//買い手アカウントには出品者登録料の概念がない
	if user.UserType != model.UserTypeSeller {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusBadRequest, CodeNotASeller, "not a seller account")
	}
	if user.SellerPaymentStatus == model.SellerPaymentStatusPaid {
		return SellerPaymentOutput{}, NewHTTPError(http.StatusConflict, CodeAlreadyProcessed, "seller payment already completed")
	}

	var created model.SellerPayment
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err = r.SellerPayments().Create(ctx, model.SellerPayment{
			UserID:        userID,
			Amount:        in.Amount,
			PaymentMethod: in.PaymentMethod,
			//照合用の参照番号を発行
			PaymentReference: uuid.NewString(),
			PaymentNote:      in.PaymentNote,
			Status:           model.SellerPaymentRecordPending,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//却下やexpired後の再申請でも本人をpendingに戻し、申請額を記録する
		if err := r.Users().UpdateSellerPayment(ctx, userID, model.SellerPaymentStatusPending, in.Amount, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return SellerPaymentOutput{}, err
	}

	return toSellerPaymentOutput(created), nil
}

// PaymentStatus は自分の出品者登録状況を返す。
func (u *SellerPaymentUsecase) PaymentStatus(ctx context.Context, userID int64) (SellerActivationOutput, error) {
	if userID <= 0 {
		return SellerActivationOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		return SellerActivationOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "user not found")
	}
	if err != nil {
		return SellerActivationOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	out := SellerActivationOutput{
		UserType:            string(user.UserType),
		SellerPaymentStatus: string(user.SellerPaymentStatus),
		SellerPaymentDate:   user.SellerPaymentDate,
	}

	latest, err := u.payments.FindLatestByUserID(ctx, userID)
	if err == nil {
		lp := toSellerPaymentOutput(latest)
		out.LatestPayment = &lp
	} else if err != repo.ErrNotFound {
		return SellerActivationOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return out, nil
}

// ApprovePayment は支払いレコードの承認（admin用）。
// レコードをcompletedに、本人をpaidにするのを1トランザクションで行う。
func (u *SellerPaymentUsecase) ApprovePayment(ctx context.Context, paymentID int64) (SuccessResponse, error) {
	if paymentID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.SellerPayments().FindByID(ctx, paymentID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//pending以外のレコードは二重処理
		if p.Status != model.SellerPaymentRecordPending {
			return NewHTTPError(http.StatusConflict, CodeAlreadyProcessed, "payment already processed")
		}

		now := time.Now()
		if err := r.SellerPayments().UpdateStatus(ctx, paymentID, model.SellerPaymentRecordCompleted); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if err := r.Users().UpdateSellerPayment(ctx, p.UserID, model.SellerPaymentStatusPaid, p.Amount, &now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return SuccessResponse{}, err
	}

	return SuccessResponse{Message: "seller payment approved"}, nil
}

// RejectPayment は支払いレコードの却下（admin用）。
// レコードだけfailedにする。本人のseller_payment_statusは触らないので、
// 再申請すれば新しいレコードで同じフローに乗れる。
func (u *SellerPaymentUsecase) RejectPayment(ctx context.Context, paymentID int64) (SuccessResponse, error) {
	if paymentID <= 0 {
		return SuccessResponse{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	p, err := u.payments.FindByID(ctx, paymentID)
	if err == repo.ErrNotFound {
		return SuccessResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "payment not found")
	}
	if err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if p.Status != model.SellerPaymentRecordPending {
		return SuccessResponse{}, NewHTTPError(http.StatusConflict, CodeAlreadyProcessed, "payment already processed")
	}

	if err := u.payments.UpdateStatus(ctx, paymentID, model.SellerPaymentRecordFailed); err != nil {
		return SuccessResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return SuccessResponse{Message: "seller payment rejected"}, nil
}

func toSellerPaymentOutput(p model.SellerPayment) SellerPaymentOutput {
	return SellerPaymentOutput{
		ID:               p.ID,
		UserID:           p.UserID,
		Amount:           p.Amount,
		PaymentMethod:    p.PaymentMethod,
		PaymentReference: p.PaymentReference,
		PaymentNote:      p.PaymentNote,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
	}
}
