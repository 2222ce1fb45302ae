package middleware

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"

	"github.com/labstack/echo/v4"
)

// tokenが有効でもaccount_statusはDBの最新値で判定する。
// ログイン後にadminが凍結したら、既存tokenは次のリクエストから効かなくなる。
func AccountStatusGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			rawUserID := c.Get(CtxUserIDKey)
			userID, ok := rawUserID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//activeでなければ理由つきで403
			switch user.AccountStatus {
			case model.AccountStatusActive:
			case model.AccountStatusPending:
				return c.JSON(http.StatusForbidden, errorJSON("account pending approval", "account_pending"))
			case model.AccountStatusSuspended:
				return c.JSON(http.StatusForbidden, errorJSON("account suspended", "account_suspended"))
			case model.AccountStatusRejected:
				return c.JSON(http.StatusForbidden, errorJSON("account rejected", "account_rejected"))
			default:
				return c.JSON(http.StatusForbidden, errorJSON("account not active", "forbidden"))
			}

			return next(c)
		}
	}
}
