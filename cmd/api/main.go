package main

import (
	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/handler"
	"marketplace/internal/infra/db"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/logger"
	"marketplace/internal/server"
	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envがなければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Env: cfg.GoEnv, Level: cfg.LogLevel})

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.SellerPayment{},
		&model.Review{},
		&model.WishlistItem{},
		&model.Message{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	//repository
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	paymentRepo := infraRepo.NewSellerPaymentGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	messageRepo := infraRepo.NewMessageGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator())
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, userRepo, reviewRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, userRepo)
	paymentUC := usecase.NewSellerPaymentUsecase(txManager, paymentRepo, userRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo, userRepo)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	messageUC := usecase.NewMessageUsecase(messageRepo, userRepo, productRepo)
	adminUC := usecase.NewAdminUsecase(userRepo, productRepo, categoryRepo, paymentRepo)

	//handler
	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(authUC, cfg),
		Product:       handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Order:         handler.NewOrderHandler(orderUC),
		SellerPayment: handler.NewSellerPaymentHandler(paymentUC),
		Review:        handler.NewReviewHandler(reviewUC),
		Wishlist:      handler.NewWishlistHandler(wishlistUC),
		Message:       handler.NewMessageHandler(messageUC),
		Admin:         handler.NewAdminHandler(adminUC, paymentUC),
	}

	e := server.New(cfg, log, handlers, userRepo)

	log.Info().Str("port", cfg.Port).Msg("starting api server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
