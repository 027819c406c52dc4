package handler

import (
	"context"
	"net/http"

	"storeorders/internal/domain/checkout"
	"storeorders/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CheckoutService は公開チェックアウトAPIが使う操作
type CheckoutService interface {
	Options() usecase.CheckoutOptionsOutput
	CreateSession(ctx context.Context) (usecase.CartOutput, error)
	GetCart(ctx context.Context, sessionID string) (usecase.CartOutput, error)
	Abandon(ctx context.Context, sessionID string) error
	AddItem(ctx context.Context, sessionID string, in usecase.AddCartItemInput) (usecase.CartOutput, error)
	UpdateItem(ctx context.Context, sessionID string, itemID string, quantity int64) (usecase.CartOutput, error)
	RemoveItem(ctx context.Context, sessionID string, itemID string) (usecase.CartOutput, error)
	Quote(ctx context.Context, sessionID string, in usecase.QuoteInput) (usecase.QuoteOutput, error)
	PreviewMessage(ctx context.Context, sessionID string, in usecase.CheckoutInput) (usecase.MessageOutput, error)
	Submit(ctx context.Context, sessionID string, in usecase.CheckoutInput) (usecase.SubmitOutput, error)
}

// /checkout の公開API（ログイン不要、セッションIDがカートの鍵）
type CheckoutHandler struct {
	uc CheckoutService
}

func NewCheckoutHandler(uc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type AddItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Variant   string `json:"variant"`
	Notes     string `json:"notes"`
}

type UpdateItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

type QuoteRequest struct {
	Shipping string `json:"shipping"`
	Coupon   string `json:"coupon"`
}

type CheckoutRequest struct {
	Customer      checkout.CustomerInfo `json:"customer"`
	Shipping      string                `json:"shipping"`
	Coupon        string                `json:"coupon"`
	PaymentMethod string                `json:"payment_method"`
}

func (r CheckoutRequest) input() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		Customer:      r.Customer,
		Shipping:      r.Shipping,
		Coupon:        r.Coupon,
		PaymentMethod: r.PaymentMethod,
	}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/checkout")

	g.GET("/options", h.options)
	g.POST("/sessions", h.createSession)
	g.GET("/sessions/:id", h.getCart)
	g.DELETE("/sessions/:id", h.abandon)
	g.POST("/sessions/:id/items", h.addItem)
	g.PATCH("/sessions/:id/items/:item_id", h.updateItem)
	g.DELETE("/sessions/:id/items/:item_id", h.removeItem)
	g.POST("/sessions/:id/quote", h.quote)
	g.POST("/sessions/:id/message", h.previewMessage)
	g.POST("/sessions/:id/submit", h.submit)
}

func (h *CheckoutHandler) options(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Options())
}

func (h *CheckoutHandler) createSession(c echo.Context) error {
	out, err := h.uc.CreateSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) abandon(c echo.Context) error {
	if err := h.uc.Abandon(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "abandoned"})
}

func (h *CheckoutHandler) addItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("id"), usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Variant:   req.Variant,
		Notes:     req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) updateItem(c echo.Context) error {
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity is required"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), c.Param("id"), c.Param("item_id"), *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) removeItem(c echo.Context) error {
	out, err := h.uc.RemoveItem(c.Request().Context(), c.Param("id"), c.Param("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Quote(c.Request().Context(), c.Param("id"), usecase.QuoteInput{
		Shipping: req.Shipping,
		Coupon:   req.Coupon,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) previewMessage(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PreviewMessage(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) submit(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Submit(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
