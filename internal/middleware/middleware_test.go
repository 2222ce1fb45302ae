package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	repo "marketplace/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) UpdateAccountStatus(ctx context.Context, userID int64, status model.AccountStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *userRepoMock) UpdateSellerPayment(ctx context.Context, userID int64, status model.SellerPaymentStatus, amount decimal.Decimal, date *time.Time) error {
	args := m.Called(ctx, userID, status, amount, date)
	return args.Error(0)
}

func (m *userRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *userRepoMock) ListPendingBuyers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *userRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.UserRepository = (*userRepoMock)(nil)

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func signToken(t *testing.T, secret string, userID int64, role string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func doRequest(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
}

// Test: 正しいtokenでuser_idとroleがcontextに入る
func TestAuthJWT_ValidToken(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		assert.Equal(t, int64(1), c.Get(middleware.CtxUserIDKey))
		assert.Equal(t, "user", c.Get(middleware.CtxUserRoleKey))
		return okHandler(c)
	}, middleware.AuthJWT(testCfg()))

	rec := doRequest(e, "Bearer "+signToken(t, "test-secret", 1, "user"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Test: 別の鍵で署名されたtokenは401
func TestAuthJWT_WrongSecret(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, middleware.AuthJWT(testCfg()))

	rec := doRequest(e, "Bearer "+signToken(t, "another-secret", 1, "user"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test: ヘッダなし・Bearer形式でないのは401
func TestAuthJWT_MissingOrMalformedHeader(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, middleware.AuthJWT(testCfg()))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Bearer ").Code)
}

// Test: tokenが有効でもpendingユーザーは403 account_pending
func TestAccountStatusGuard_PendingUser(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID: 1, AccountStatus: model.AccountStatusPending,
	}, nil)

	e := echo.New()
	e.GET("/protected", okHandler,
		middleware.AuthJWT(testCfg()), middleware.AccountStatusGuard(users))

	rec := doRequest(e, "Bearer "+signToken(t, "test-secret", 1, "user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "account_pending", body["code"])
}

// Test: ログイン後に凍結されたユーザーは既存tokenでも403
func TestAccountStatusGuard_SuspendedAfterLogin(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID: 1, AccountStatus: model.AccountStatusSuspended,
	}, nil)

	e := echo.New()
	e.GET("/protected", okHandler,
		middleware.AuthJWT(testCfg()), middleware.AccountStatusGuard(users))

	rec := doRequest(e, "Bearer "+signToken(t, "test-secret", 1, "user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "account_suspended", body["code"])
}

// Test: activeユーザーは通る
func TestAccountStatusGuard_ActiveUser(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID: 1, AccountStatus: model.AccountStatusActive,
	}, nil)

	e := echo.New()
	e.GET("/protected", okHandler,
		middleware.AuthJWT(testCfg()), middleware.AccountStatusGuard(users))

	rec := doRequest(e, "Bearer "+signToken(t, "test-secret", 1, "user"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Test: roleがadminでないと管理画面には入れない
func TestAdminRoleGuard(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler,
		middleware.AuthJWT(testCfg()), middleware.AdminRoleGuard())

	rec := doRequest(e, "Bearer "+signToken(t, "test-secret", 1, "user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, "Bearer "+signToken(t, "test-secret", 2, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
