package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storeorders/internal/config"
	"storeorders/internal/handler"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersRoutes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Config{JWTSecret: "test-secret"}
	e := New(cfg, logger, Handlers{
		Checkout:      handler.NewCheckoutHandler(nil),
		AdminOrder:    handler.NewAdminOrderHandler(nil, nil),
		AdminCustomer: handler.NewAdminCustomerHandler(nil),
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	//管理APIはトークン無しで401（usecaseまで届かない）
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/customers/import", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
