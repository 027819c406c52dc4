package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storeorders/internal/domain/event"
	"storeorders/internal/domain/model"
	"storeorders/internal/domain/orderview"
	repo "storeorders/internal/repository"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type AdminOrderUsecase struct {
	tx         repo.TransactionManager
	auditRepo  repo.AuditLogRepository
	publishers []OrderEventPublisher
	logger     *logrus.Logger

	now func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, logger *logrus.Logger, publishers ...OrderEventPublisher) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:         tx,
		auditRepo:  auditRepo,
		publishers: publishers,
		logger:     logger,
		now:        time.Now,
	}
}

type AdminUpdateOrderStatusInput struct {
	Status         string
	TrackingNumber string
	Version        int64
}

type AdminUpdatePaymentInput struct {
	PaymentStatus string
	TransactionID string
	Version       int64
}

type AdminOrderListOutput struct {
	Items []orderview.Detail `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// エクスポート形式
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

type ExportOutput struct {
	ContentType string
	Filename    string
	Body        []byte
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" {
		st, ok := model.ParseOrderStatus(f.Status)
		if !ok {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = string(st)
	}
	if f.PaymentStatus != "" {
		ps, ok := model.ParsePaymentStatus(f.PaymentStatus)
		if !ok {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
		}
		f.PaymentStatus = string(ps)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid period")
	}

	out := AdminOrderListOutput{Page: f.Page, Limit: f.Limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return repoError(err)
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
		if err != nil {
			return repoError(err)
		}

		out.Total = total
		out.Items = make([]orderview.Detail, 0, len(orders))
		for _, o := range orders {
			out.Items = append(out.Items, orderview.Build(o, itemsByOrder[o.ID], nil))
		}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// 注文詳細（明細から金額を出し直す）
func (u *AdminOrderUsecase) Detail(ctx context.Context, orderID int64) (orderview.Detail, error) {
	if orderID <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out orderview.Detail
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := loadDetail(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return orderview.Detail{}, err
	}
	return out, nil
}

// 注文の変更履歴（監査ログ）
func (u *AdminOrderUsecase) History(ctx context.Context, orderID int64) ([]model.AuditLog, error) {
	if orderID <= 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	resource := model.AuditResourceOrder
	logs, err := u.auditRepo.List(ctx, repo.AuditLogFilter{
		ResourceType: &resource,
		ResourceID:   &orderID,
		Limit:        200,
	})
	if err != nil {
		return []model.AuditLog{}, repoError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// ステータス更新
//   - 遷移表にない変更は 422
//   - version が古ければ 409
//   - 発送前のキャンセルは在庫戻し
//   - 同じステータスなら何もしない（出荷以降の追跡番号訂正は除く）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (orderview.Detail, error) {
	ctx, span := tracer.Start(ctx, "admin.order.update_status")
	defer span.End()
	span.SetAttributes(attribute.Int64("order_id", orderID), attribute.String("to", in.Status))

	if actorAdminUserID <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	to, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if in.Version <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "version is required")
	}
	tracking := strings.TrimSpace(in.TrackingNumber)
	if len(tracking) > 100 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid tracking_number")
	}

	var out orderview.Detail
	var before model.Order
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return repoError(err)
		}
		if o.Version != in.Version {
			return wrapHTTPError(http.StatusConflict, "order was modified, reload and retry", repo.ErrConflict)
		}
		before = o

		//同じステータスでも追跡番号の訂正だけは書き込む
		trackingFix := o.Status == to && tracking != "" && to.AcceptsTrackingNumber() && tracking != o.TrackingNumber

		// すでに同じなら何もしない
		if o.Status == to && !trackingFix {
			d, err := loadDetail(ctx, r, orderID)
			out = d
			return err
		}

		if !trackingFix {
			if err := model.ValidateTransition(o.Status, to); err != nil {
				return wrapHTTPError(http.StatusUnprocessableEntity, err.Error(), err)
			}
		}

		//追跡番号
		if tracking != "" && !to.AcceptsTrackingNumber() {
			return NewHTTPError(http.StatusBadRequest, "tracking_number not allowed for "+string(to))
		}
		if to.RequiresTrackingNumber() && tracking == "" && o.TrackingNumber == "" {
			return NewHTTPError(http.StatusBadRequest, "tracking_number is required")
		}

		//発送前のキャンセルだけ在庫戻し
		if to == model.OrderStatusCancelled && o.Status.RestocksOnCancel() {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return repoError(err)
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					//商品が消えていたら戻し先がないだけ
					if errors.Is(err, repo.ErrNotFound) {
						u.logger.WithFields(logrus.Fields{"order_id": orderID, "product_id": it.ProductID}).Warn("restock skipped: product missing")
						continue
					}
					return repoError(err)
				}
				if err := r.Inventory().RecordAdjustment(ctx, &model.InventoryAdjustment{
					ProductID:   it.ProductID,
					OrderID:     orderID,
					ActorUserID: actorAdminUserID,
					Delta:       it.Quantity,
					Reason:      model.AdjustmentReasonOrderCancelled,
					CreatedAt:   u.now(),
				}); err != nil {
					return repoError(err)
				}
			}
		}

		now := u.now()
		if err := r.Orders().UpdateStatus(ctx, orderID, in.Version, repo.OrderStatusChange{
			Status:         to,
			TrackingNumber: tracking,
			UpdatedAt:      now,
		}); err != nil {
			return repoError(err)
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		after := map[string]string{"status": string(to)}
		if tracking != "" {
			after["tracking_number"] = tracking
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   toJSON(map[string]string{"status": string(o.Status), "tracking_number": o.TrackingNumber}),
			AfterJSON:    toJSON(after),
			CreatedAt:    now,
		}); err != nil {
			return repoError(err)
		}

		d, err := loadDetail(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = d
		changed = true
		return nil
	})

	if err != nil {
		span.RecordError(err)
		return orderview.Detail{}, err
	}
	if !changed {
		return out, nil
	}

	u.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     before.Status,
		"to":       to,
		"actor":    actorAdminUserID,
	}).Info("order status updated")

	ev := event.NewOrderEvent(event.TypeOrderStatusChanged, before, u.now())
	ev.Status = to
	ev.PreviousStatus = before.Status
	ev.TrackingNumber = out.TrackingNumber
	ev.NotifyCustomer = to.NotifiesCustomer()
	ev.ActorUserID = actorAdminUserID
	publishAll(ctx, u.logger, u.publishers, ev)

	return out, nil
}

// 支払いステータス更新（PAID で paid_at を記録）
func (u *AdminOrderUsecase) UpdatePayment(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdatePaymentInput) (orderview.Detail, error) {
	if actorAdminUserID <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	to, ok := model.ParsePaymentStatus(strings.TrimSpace(in.PaymentStatus))
	if !ok {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}
	if in.Version <= 0 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "version is required")
	}
	txID := strings.TrimSpace(in.TransactionID)
	if len(txID) > 100 {
		return orderview.Detail{}, NewHTTPError(http.StatusBadRequest, "invalid transaction_id")
	}

	var out orderview.Detail
	var before model.Order
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return repoError(err)
		}
		if o.Version != in.Version {
			return wrapHTTPError(http.StatusConflict, "order was modified, reload and retry", repo.ErrConflict)
		}
		before = o

		if o.PaymentStatus == to && (txID == "" || txID == o.TransactionID) {
			d, err := loadDetail(ctx, r, orderID)
			out = d
			return err
		}

		now := u.now()
		ch := repo.OrderPaymentChange{
			PaymentStatus: to,
			TransactionID: txID,
			UpdatedAt:     now,
		}
		if to == model.PaymentStatusPaid && o.PaidAt == nil {
			ch.PaidAt = &now
		}
		if err := r.Orders().UpdatePayment(ctx, orderID, in.Version, ch); err != nil {
			return repoError(err)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdatePaymentStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   toJSON(map[string]string{"payment_status": string(o.PaymentStatus), "transaction_id": o.TransactionID}),
			AfterJSON:    toJSON(map[string]string{"payment_status": string(to), "transaction_id": txID}),
			CreatedAt:    now,
		}); err != nil {
			return repoError(err)
		}

		d, err := loadDetail(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = d
		changed = true
		return nil
	})

	if err != nil {
		return orderview.Detail{}, err
	}
	if !changed {
		return out, nil
	}

	u.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     before.PaymentStatus,
		"to":       to,
		"actor":    actorAdminUserID,
	}).Info("payment status updated")

	ev := event.NewOrderEvent(event.TypeOrderPaymentChanged, before, u.now())
	ev.PaymentStatus = to
	ev.ActorUserID = actorAdminUserID
	publishAll(ctx, u.logger, u.publishers, ev)

	return out, nil
}

// Export は注文詳細を JSON か CSV で返す
func (u *AdminOrderUsecase) Export(ctx context.Context, orderID int64, format string) (ExportOutput, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatJSON
	}
	if format != ExportFormatJSON && format != ExportFormatCSV {
		return ExportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid format")
	}

	d, err := u.Detail(ctx, orderID)
	if err != nil {
		return ExportOutput{}, err
	}

	name := "order-" + d.OrderNumber
	if format == ExportFormatCSV {
		var buf bytes.Buffer
		if err := orderview.WriteCSV(&buf, d); err != nil {
			return ExportOutput{}, wrapHTTPError(http.StatusInternalServerError, "export error", err)
		}
		return ExportOutput{ContentType: "text/csv; charset=utf-8", Filename: name + ".csv", Body: buf.Bytes()}, nil
	}

	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return ExportOutput{}, wrapHTTPError(http.StatusInternalServerError, "export error", err)
	}
	return ExportOutput{ContentType: "application/json", Filename: name + ".json", Body: body}, nil
}

func loadDetail(ctx context.Context, r repo.TxRepos, orderID int64) (orderview.Detail, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return orderview.Detail{}, repoError(err)
	}
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return orderview.Detail{}, repoError(err)
	}

	var customer *model.Customer
	if o.CustomerID > 0 {
		c, err := r.Customers().FindByID(ctx, o.CustomerID)
		switch {
		case err == nil:
			customer = &c
		case errors.Is(err, repo.ErrNotFound):
			//顧客が消えていてもスナップショットで表示できる
		default:
			return orderview.Detail{}, repoError(err)
		}
	}
	return orderview.Build(o, items, customer), nil
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// 期間パラメータでtime.Timeが必要なら、handlerでtime.Parseしてここに入れる
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
