package handler

import (
	"net/http"
	"strconv"

	"marketplace/internal/config"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin のHTTP。AdminRoleGuardの内側。
type AdminHandler struct {
	uc        *usecase.AdminUsecase
	paymentUC *usecase.SellerPaymentUsecase
}

// DI
func NewAdminHandler(uc *usecase.AdminUsecase, paymentUC *usecase.SellerPaymentUsecase) *AdminHandler {
	return &AdminHandler{uc: uc, paymentUC: paymentUC}
}

type UpdateProductStatusRequest struct {
	Status string `json:"status"`
}

// /admin/* を登録
func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AccountStatusGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/users", h.listUsers)
	g.GET("/users/pending", h.listPendingBuyers)
	g.PATCH("/users/:id/approve", h.approveAccount)
	g.PATCH("/users/:id/reject", h.rejectAccount)
	g.PATCH("/users/:id/suspend", h.suspendAccount)

	g.GET("/seller-payments", h.listPendingSellerPayments)
	g.PATCH("/seller-payments/:id/approve", h.approveSellerPayment)
	g.PATCH("/seller-payments/:id/reject", h.rejectSellerPayment)

	g.GET("/products", h.listProducts)
	g.PATCH("/products/:id/status", h.updateProductStatus)

	g.GET("/stats", h.stats)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listPendingBuyers(c echo.Context) error {
	out, err := h.uc.ListPendingBuyers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approveAccount(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	out, err := h.uc.ApproveAccount(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) rejectAccount(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	out, err := h.uc.RejectAccount(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) suspendAccount(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	out, err := h.uc.SuspendAccount(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listPendingSellerPayments(c echo.Context) error {
	out, err := h.uc.ListPendingSellerPayments(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approveSellerPayment(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	out, err := h.paymentUC.ApprovePayment(c.Request().Context(), paymentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) rejectSellerPayment(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	out, err := h.paymentUC.RejectPayment(c.Request().Context(), paymentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listProducts(c echo.Context) error {
	out, err := h.uc.AdminListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateProductStatus(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: usecase.CodeValidation})
	}

	var req UpdateProductStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.UpdateProductStatus(c.Request().Context(), productID, usecase.UpdateProductStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
