package server

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルート登録に必要なhandler一式
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	SellerPayment *handler.SellerPaymentHandler
	Review        *handler.ReviewHandler
	Wishlist      *handler.WishlistHandler
	Message       *handler.MessageHandler
	Admin         *handler.AdminHandler
}

// New はechoを組み立てて全ルートを登録する。
func New(cfg config.Config, log *logger.Logger, h Handlers, userRepo repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg, userRepo)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.SellerPayment.RegisterRoutes(e, cfg, userRepo)
	h.Review.RegisterRoutes(e, cfg, userRepo)
	h.Wishlist.RegisterRoutes(e, cfg, userRepo)
	h.Message.RegisterRoutes(e, cfg, userRepo)
	h.Admin.RegisterRoutes(e, cfg, userRepo)

	return e
}
