package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// refreshtokenの有効期限
const refreshTokenTTL = 30 * 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, name string, email string, password string, userType string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type UserDTO struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Role                string `json:"role"`
	UserType            string `json:"user_type"`
	AccountStatus       string `json:"account_status"`
	SellerPaymentStatus string `json:"seller_payment_status"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
}

type AuthRegisterResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type LoginResult struct {
	Body              AuthLoginResponse
	RefreshTokenPlain string
}

type RefreshResult struct {
	Body              JwtAccessTokenDTO
	RefreshTokenPlain string
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	validator AuthValidator
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		rtRepo:    rtRepo,
		validator: validator,
	}
}

// 会員登録。buyerもsellerもpendingで作る（admin承認待ち）。
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Name, req.Email, req.Password, req.UserType); err != nil {
		return nil, err
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, NewHTTPError(http.StatusConflict, CodeEmailTaken, "email already registered")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	userType := model.UserType(req.UserType)
	if userType == "" {
		userType = model.UserTypeBuyer
	}

	user := &model.User{
		Name:                req.Name,
		Email:               req.Email,
		PasswordHash:        string(pwHash),
		Phone:               req.Phone,
		Role:                model.RoleUser,
		UserType:            userType,
		AccountStatus:       model.AccountStatusPending,
		SellerPaymentStatus: model.SellerPaymentStatusPending,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique制約違反は409扱い
		return nil, NewHTTPError(http.StatusConflict, CodeEmailTaken, "email already registered")
	}

	return &AuthRegisterResponse{
		Message: "Account created successfully. Your account is pending admin approval.",
		User:    toUserDTO(user),
	}, nil
}

// ログイン。
// パスワード照合が先、account_statusの判定は後。
// 間違ったパスワードならpendingでもinvalid_credentialsを返す。
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest, userAgent string) (*LoginResult, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
	}

	//認証が通った後にaccount_statusを判定する
	if err := accountStatusError(user.AccountStatus); err != nil {
		return nil, err
	}

	//access token発行
	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	//refresh token発行（DBにはhash保存）
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}

	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	return &LoginResult{
		Body: AuthLoginResponse{
			User: toUserDTO(user),
			Token: JwtAccessTokenDTO{
				AccessToken: accessToken,
				ExpiresIn:   expiresIn,
			},
		},
		RefreshTokenPlain: refreshPlain,
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (*RefreshResult, error) {
	if refreshTokenPlain == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	tokenHash := hashToken(refreshTokenPlain)

	rt, err := u.rtRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil || rt == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//期限切れ
	if rt.ExpiresAt.Before(time.Now()) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//revoked
	if rt.RevokedAt != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//used済みが来たら replay → 全削除
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "token reuse detected")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//トークンはaccount_statusを持たないので、ここでDBの最新状態を見る
	if err := accountStatusError(user.AccountStatus); err != nil {
		return nil, err
	}

	//旧tokenをusedにする
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, time.Now()); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//新tokenを作って保存
	newPlain, newHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	newRT := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: newHash,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}

	if err := u.rtRepo.Create(ctx, newRT); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	return &RefreshResult{
		Body: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
		RefreshTokenPlain: newPlain,
	}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) (*SuccessResponse, error) {
	if refreshTokenPlain == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	tokenHash := hashToken(refreshTokenPlain)

	rt, err := u.rtRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil || rt == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	//refreshを削除（失効）
	if err := u.rtRepo.DeleteByID(ctx, rt.ID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}

	return &SuccessResponse{Message: "logout success"}, nil
}

// account_statusごとに区別できるエラーを返す。activeならnil。
func accountStatusError(status model.AccountStatus) error {
	switch status {
	case model.AccountStatusActive:
		return nil
	case model.AccountStatusPending:
		return NewHTTPError(http.StatusForbidden, CodeAccountPending,
			"your account is pending admin approval")
	case model.AccountStatusSuspended:
		return NewHTTPError(http.StatusForbidden, CodeAccountSuspended,
			"your account has been suspended")
	case model.AccountStatusRejected:
		return NewHTTPError(http.StatusForbidden, CodeAccountRejected,
			"your account has been rejected")
	default:
		return NewHTTPError(http.StatusForbidden, CodeForbidden, "forbidden")
	}
}

// jwt発行。account_statusはclaimsに入れない（毎回DBから引く）。
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

// refresh token生成（平文 + DB保存hash）
func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}

	plain = base64.RawURLEncoding.EncodeToString(b)

	sum := sha256.Sum256([]byte(plain))
	hash = base64.RawURLEncoding.EncodeToString(sum[:])

	return plain, hash, nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Phone:               u.Phone,
		Role:                string(u.Role),
		UserType:            string(u.UserType),
		AccountStatus:       string(u.AccountStatus),
		SellerPaymentStatus: string(u.SellerPaymentStatus),
	}
}
