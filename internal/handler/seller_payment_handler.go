package handler

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /seller/payment のHTTP
type SellerPaymentHandler struct {
	uc *usecase.SellerPaymentUsecase
}

// DI
func NewSellerPaymentHandler(uc *usecase.SellerPaymentUsecase) *SellerPaymentHandler {
	return &SellerPaymentHandler{uc: uc}
}

type SubmitSellerPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentNote   string          `json:"payment_note"`
}

// /seller/payment を登録
func (h *SellerPaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/seller/payment")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AccountStatusGuard(userRepo))

	g.POST("", h.submit)
	g.GET("/status", h.status)
}

func (h *SellerPaymentHandler) submit(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: usecase.CodeUnauthorized})
	}

	var req SubmitSellerPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.Submit(c.Request().Context(), userID, usecase.SubmitSellerPaymentInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentNote:   req.PaymentNote,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *SellerPaymentHandler) status(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: usecase.CodeUnauthorized})
	}

	out, err := h.uc.PaymentStatus(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
