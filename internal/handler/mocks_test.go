package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storeorders/internal/config"
	"storeorders/internal/domain/model"
	"storeorders/internal/domain/orderview"
	"storeorders/internal/repository"
	"storeorders/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCfg = config.Config{JWTSecret: "test-secret"}

type CheckoutServiceMock struct{ mock.Mock }

func (m *CheckoutServiceMock) Options() usecase.CheckoutOptionsOutput {
	args := m.Called()
	return args.Get(0).(usecase.CheckoutOptionsOutput)
}

func (m *CheckoutServiceMock) CreateSession(ctx context.Context) (usecase.CartOutput, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CheckoutServiceMock) GetCart(ctx context.Context, sessionID string) (usecase.CartOutput, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CheckoutServiceMock) Abandon(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *CheckoutServiceMock) AddItem(ctx context.Context, sessionID string, in usecase.AddCartItemInput) (usecase.CartOutput, error) {
	args := m.Called(ctx, sessionID, in)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CheckoutServiceMock) UpdateItem(ctx context.Context, sessionID string, itemID string, quantity int64) (usecase.CartOutput, error) {
	args := m.Called(ctx, sessionID, itemID, quantity)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CheckoutServiceMock) RemoveItem(ctx context.Context, sessionID string, itemID string) (usecase.CartOutput, error) {
	args := m.Called(ctx, sessionID, itemID)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CheckoutServiceMock) Quote(ctx context.Context, sessionID string, in usecase.QuoteInput) (usecase.QuoteOutput, error) {
	args := m.Called(ctx, sessionID, in)
	return args.Get(0).(usecase.QuoteOutput), args.Error(1)
}

func (m *CheckoutServiceMock) PreviewMessage(ctx context.Context, sessionID string, in usecase.CheckoutInput) (usecase.MessageOutput, error) {
	args := m.Called(ctx, sessionID, in)
	return args.Get(0).(usecase.MessageOutput), args.Error(1)
}

func (m *CheckoutServiceMock) Submit(ctx context.Context, sessionID string, in usecase.CheckoutInput) (usecase.SubmitOutput, error) {
	args := m.Called(ctx, sessionID, in)
	return args.Get(0).(usecase.SubmitOutput), args.Error(1)
}

type AdminOrderServiceMock struct{ mock.Mock }

func (m *AdminOrderServiceMock) List(ctx context.Context, f repository.AdminOrderListFilter) (usecase.AdminOrderListOutput, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(usecase.AdminOrderListOutput), args.Error(1)
}

func (m *AdminOrderServiceMock) Detail(ctx context.Context, orderID int64) (orderview.Detail, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(orderview.Detail), args.Error(1)
}

func (m *AdminOrderServiceMock) History(ctx context.Context, orderID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, orderID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

func (m *AdminOrderServiceMock) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in usecase.AdminUpdateOrderStatusInput) (orderview.Detail, error) {
	args := m.Called(ctx, actorAdminUserID, orderID, in)
	return args.Get(0).(orderview.Detail), args.Error(1)
}

func (m *AdminOrderServiceMock) UpdatePayment(ctx context.Context, actorAdminUserID int64, orderID int64, in usecase.AdminUpdatePaymentInput) (orderview.Detail, error) {
	args := m.Called(ctx, actorAdminUserID, orderID, in)
	return args.Get(0).(orderview.Detail), args.Error(1)
}

func (m *AdminOrderServiceMock) Export(ctx context.Context, orderID int64, format string) (usecase.ExportOutput, error) {
	args := m.Called(ctx, orderID, format)
	return args.Get(0).(usecase.ExportOutput), args.Error(1)
}

type CustomerServiceMock struct{ mock.Mock }

func (m *CustomerServiceMock) Stats(ctx context.Context, customerID int64) (usecase.CustomerStatsOutput, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(usecase.CustomerStatsOutput), args.Error(1)
}

func (m *CustomerServiceMock) Import(ctx context.Context, actorAdminUserID int64, rows []usecase.ImportCustomerRow) (usecase.ImportCustomersOutput, error) {
	args := m.Called(ctx, actorAdminUserID, rows)
	return args.Get(0).(usecase.ImportCustomersOutput), args.Error(1)
}

// =====================
// helper
// =====================

func adminToken(t *testing.T, sub int64, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub, "role": role, "exp": 9999999999}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, e *echo.Echo, method string, path string, body string, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
