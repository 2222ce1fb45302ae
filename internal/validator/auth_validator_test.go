package validator_test

import (
	"context"
	"testing"

	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/stretchr/testify/assert"
)

// Test: 会員登録の入力検証
func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := validator.NewAuthValidator()
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		userType string
		wantErr  bool
	}{
		{"valid buyer", "山田", "yamada@example.com", "password123", "buyer", false},
		{"valid seller", "窯元", "kamamoto@example.com", "password123", "seller", false},
		{"user_type省略はbuyer扱い", "山田", "yamada@example.com", "password123", "", false},
		{"名前なし", "", "yamada@example.com", "password123", "buyer", true},
		{"emailなし", "山田", "", "password123", "buyer", true},
		{"email形式が不正", "山田", "not-an-email", "password123", "buyer", true},
		{"パスワード7文字", "山田", "yamada@example.com", "1234567", "buyer", true},
		{"不明なuser_type", "山田", "yamada@example.com", "password123", "admin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegister(ctx, tt.userName, tt.email, tt.password, tt.userType)
			if tt.wantErr {
				he, ok := usecase.AsHTTPError(err)
				assert.True(t, ok)
				assert.Equal(t, usecase.CodeValidation, he.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Test: ログインの入力検証
func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "yamada@example.com", "password123"))
	assert.Error(t, v.ValidateLogin(ctx, "", "password123"))
	assert.Error(t, v.ValidateLogin(ctx, "yamada@example.com", ""))
	assert.Error(t, v.ValidateLogin(ctx, "yamada@", "password123"))
}
