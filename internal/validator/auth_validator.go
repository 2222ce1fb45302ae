package validator

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// 会員登録の入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, name string, email string, password string, userType string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	// 必須チェック
	if name == "" || email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "name, email and password are required")
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "invalid email format")
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "password must be at least 8 characters")
	}

	// user_typeは未指定ならbuyer扱いなので空は許す
	switch model.UserType(userType) {
	case "", model.UserTypeBuyer, model.UserTypeSeller:
	default:
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "user_type must be buyer or seller")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "email and password are required")
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidation, "invalid email format")
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
