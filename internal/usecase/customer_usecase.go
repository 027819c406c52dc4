package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storeorders/internal/domain/checkout"
	"storeorders/internal/domain/model"
	repo "storeorders/internal/repository"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// 一度に取り込める行数
const maxImportRows = 1000

type CustomerUsecase struct {
	tx       repo.TransactionManager
	validate *validatorv10.Validate
	logger   *logrus.Logger

	now func() time.Time
}

func NewCustomerUsecase(tx repo.TransactionManager, logger *logrus.Logger) *CustomerUsecase {
	return &CustomerUsecase{
		tx:       tx,
		validate: checkout.NewValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// 顧客の購入集計。キャンセル・返金は金額に含めない。
type CustomerStatsOutput struct {
	CustomerID int64 `json:"customer_id"`
	//全注文数（キャンセル含む）
	TotalOrders int64 `json:"total_orders"`
	//金額に含めた注文数
	CountedOrders     int64      `json:"counted_orders"`
	TotalSpent        int64      `json:"total_spent"`
	AverageOrderValue int64      `json:"average_order_value"`
	LastOrderDate     *time.Time `json:"last_order_date"`
}

// 取り込み1行分
type ImportCustomerRow struct {
	Name       string `json:"name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"required,phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address"`
	City       string `json:"city" validate:"max=255"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Notes      string `json:"notes" validate:"max=1000"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// 一部成功あり。失敗した行だけ errors に入る。
type ImportCustomersOutput struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

func (u *CustomerUsecase) Stats(ctx context.Context, customerID int64) (CustomerStatsOutput, error) {
	if customerID <= 0 {
		return CustomerStatsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var orders []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Customers().FindByID(ctx, customerID); err != nil {
			return repoError(err)
		}
		list, err := r.Orders().ListByCustomerID(ctx, customerID)
		if err != nil {
			return repoError(err)
		}
		orders = list
		return nil
	})
	if err != nil {
		return CustomerStatsOutput{}, err
	}

	return computeCustomerStats(customerID, orders), nil
}

func computeCustomerStats(customerID int64, orders []model.Order) CustomerStatsOutput {
	out := CustomerStatsOutput{CustomerID: customerID, TotalOrders: int64(len(orders))}
	for _, o := range orders {
		if out.LastOrderDate == nil || o.CreatedAt.After(*out.LastOrderDate) {
			t := o.CreatedAt
			out.LastOrderDate = &t
		}
		if !o.Status.CountsTowardSpend() {
			continue
		}
		out.CountedOrders++
		out.TotalSpent += o.Total
	}
	if out.CountedOrders > 0 {
		out.AverageOrderValue = out.TotalSpent / out.CountedOrders
	}
	return out
}

// Import は1行ずつ検証して電話番号で upsert する。
// 不正な行はスキップしてエラー一覧に積む。
func (u *CustomerUsecase) Import(ctx context.Context, actorAdminUserID int64, rows []ImportCustomerRow) (ImportCustomersOutput, error) {
	if actorAdminUserID <= 0 {
		return ImportCustomersOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(rows) == 0 {
		return ImportCustomersOutput{}, NewHTTPError(http.StatusBadRequest, "no rows")
	}
	if len(rows) > maxImportRows {
		return ImportCustomersOutput{}, NewHTTPError(http.StatusBadRequest, "too many rows")
	}

	out := ImportCustomersOutput{Errors: []ImportRowError{}}
	for i, row := range rows {
		rowNum := i + 1
		row = trimImportRow(row)

		if err := u.validate.Struct(row); err != nil {
			for _, fe := range checkout.FieldErrors(err) {
				out.Errors = append(out.Errors, ImportRowError{Row: rowNum, Field: fe.Field, Message: fe.Message})
			}
			out.Failed++
			continue
		}

		c := model.Customer{
			Name:       row.Name,
			Phone:      checkout.NormalizePhone(row.Phone),
			Email:      row.Email,
			Address:    row.Address,
			City:       row.City,
			PostalCode: row.PostalCode,
			Notes:      row.Notes,
		}
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			if err := r.Customers().UpsertByPhone(ctx, &c); err != nil {
				return err
			}
			return r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actorAdminUserID,
				Action:       model.AuditActionImportCustomer,
				ResourceType: model.AuditResourceCustomer,
				ResourceID:   c.ID,
				AfterJSON:    toJSON(map[string]string{"name": c.Name, "phone": c.Phone}),
				CreatedAt:    u.now(),
			})
		})
		if err != nil {
			u.logger.WithError(err).WithField("row", rowNum).Warn("customer import row failed")
			out.Errors = append(out.Errors, ImportRowError{Row: rowNum, Message: "db error"})
			out.Failed++
			continue
		}
		out.Imported++
	}

	u.logger.WithFields(logrus.Fields{
		"imported": out.Imported,
		"failed":   out.Failed,
		"actor":    actorAdminUserID,
	}).Info("customers imported")

	return out, nil
}

func trimImportRow(r ImportCustomerRow) ImportCustomerRow {
	return ImportCustomerRow{
		Name:       strings.TrimSpace(r.Name),
		Phone:      strings.TrimSpace(r.Phone),
		Email:      strings.TrimSpace(r.Email),
		Address:    strings.TrimSpace(r.Address),
		City:       strings.TrimSpace(r.City),
		PostalCode: strings.TrimSpace(r.PostalCode),
		Notes:      strings.TrimSpace(r.Notes),
	}
}
