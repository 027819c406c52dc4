package server

import (
	"net/http"

	"storeorders/internal/config"
	"storeorders/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Checkout      *handler.CheckoutHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminCustomer *handler.AdminCustomerHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	h.Checkout.RegisterRoutes(e)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminCustomer.RegisterRoutes(e, cfg)
}
