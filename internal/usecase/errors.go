package usecase

import (
	"errors"
	"fmt"
)

// クライアントが分岐に使うエラーコード。
// メッセージは人間向け、codeは機械向け。
const (
	CodeValidation         = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountPending     = "account_pending"
	CodeAccountSuspended   = "account_suspended"
	CodeAccountRejected    = "account_rejected"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeEmailTaken         = "email_taken"
	CodeEmptyCart          = "empty_cart"
	CodeInsufficientStock  = "insufficient_stock"
	CodeProductUnavailable = "product_unavailable"
	CodeSelfPurchase       = "self_purchase"
	CodeOwnProduct         = "own_product"
	CodeSelfMessage        = "self_message"
	CodeNotASeller         = "not_a_seller"
	CodeSellerNotVerified  = "seller_not_verified"
	CodeAlreadyProcessed   = "already_processed"
	CodeAlreadyReviewed    = "already_reviewed"
	CodeAlreadyInWishlist  = "already_in_wishlist"
	CodeInvalidStatus      = "invalid_status"
	CodeInternal           = "internal_error"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
