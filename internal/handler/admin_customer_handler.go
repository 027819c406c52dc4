package handler

import (
	"context"
	"net/http"

	"storeorders/internal/config"
	"storeorders/internal/middleware"
	"storeorders/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CustomerService interface {
	Stats(ctx context.Context, customerID int64) (usecase.CustomerStatsOutput, error)
	Import(ctx context.Context, actorAdminUserID int64, rows []usecase.ImportCustomerRow) (usecase.ImportCustomersOutput, error)
}

type AdminCustomerHandler struct {
	uc CustomerService
}

func NewAdminCustomerHandler(uc CustomerService) *AdminCustomerHandler {
	return &AdminCustomerHandler{uc: uc}
}

type ImportCustomersRequest struct {
	Customers []usecase.ImportCustomerRow `json:"customers"`
}

func (h *AdminCustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin/customers")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.RoleGuard(middleware.AdminRoles...))

	admin.GET("/:id/stats", h.stats)
	admin.POST("/import", h.importCustomers)
}

func (h *AdminCustomerHandler) stats(c echo.Context) error {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Stats(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCustomerHandler) importCustomers(c echo.Context) error {
	var req ImportCustomersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Import(c.Request().Context(), adminID, req.Customers)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
