package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storeorders/internal/domain/cart"
	"storeorders/internal/domain/checkout"
	"storeorders/internal/domain/event"
	"storeorders/internal/domain/model"
	"storeorders/internal/domain/orderview"
	"storeorders/internal/domain/pricing"
	"storeorders/internal/infra/catalog"
	repo "storeorders/internal/repository"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type CheckoutUsecase struct {
	sessions   repo.SessionRepository
	products   repo.ProductRepository
	tx         repo.TransactionManager
	coupons    pricing.CouponValidator
	store      catalog.Store
	composer   *checkout.Composer
	validate   *validatorv10.Validate
	publishers []OrderEventPublisher
	logger     *logrus.Logger

	now   func() time.Time
	newID func() string
}

// DI
func NewCheckoutUsecase(
	sessions repo.SessionRepository,
	products repo.ProductRepository,
	tx repo.TransactionManager,
	coupons pricing.CouponValidator,
	store catalog.Store,
	composer *checkout.Composer,
	logger *logrus.Logger,
	publishers ...OrderEventPublisher,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions:   sessions,
		products:   products,
		tx:         tx,
		coupons:    coupons,
		store:      store,
		composer:   composer,
		validate:   checkout.NewValidator(),
		publishers: publishers,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// GET /checkout/options
type CheckoutOptionsOutput struct {
	StoreName             string                   `json:"store_name"`
	ShippingOptions       []pricing.ShippingOption `json:"shipping_options"`
	DefaultShipping       string                   `json:"default_shipping"`
	FreeShippingThreshold int64                    `json:"free_shipping_threshold"`
	MinimumOrder          int64                    `json:"minimum_order"`
	PaymentMethods        []string                 `json:"payment_methods"`
	ExtendedCheckout      bool                     `json:"extended_checkout"`
}

// 顧客に返すカート明細（原価は出さない）
type CartItemOutput struct {
	ID        string `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartOutput struct {
	SessionID     string           `json:"session_id"`
	Items         []CartItemOutput `json:"items"`
	TotalQuantity int64            `json:"total_quantity"`
	Totals        pricing.Totals   `json:"totals"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
	Variant   string
	Notes     string
}

type QuoteInput struct {
	Shipping string
	Coupon   string
}

type QuoteOutput struct {
	Totals   pricing.Totals         `json:"totals"`
	Shipping pricing.ShippingOption `json:"shipping"`
	// クーポンが使えなかった理由（割引0で続行）
	CouponError string `json:"coupon_error,omitempty"`
	// 最低注文金額に足りない額（0なら到達）
	MinimumShortfall int64 `json:"minimum_shortfall"`
}

type CheckoutInput struct {
	Customer      checkout.CustomerInfo
	Shipping      string
	Coupon        string
	PaymentMethod string
}

type MessageOutput struct {
	Message     string         `json:"message"`
	Link        string         `json:"link"`
	Totals      pricing.Totals `json:"totals"`
	CouponError string         `json:"coupon_error,omitempty"`
}

type SubmitOutput struct {
	Order       orderview.Detail `json:"order"`
	Message     string           `json:"message"`
	Link        string           `json:"link"`
	CouponError string           `json:"coupon_error,omitempty"`
}

func (u *CheckoutUsecase) Options() CheckoutOptionsOutput {
	return CheckoutOptionsOutput{
		StoreName:             u.store.Name,
		ShippingOptions:       u.store.ShippingOptions,
		DefaultShipping:       u.store.DefaultShipping,
		FreeShippingThreshold: u.store.FreeShippingThreshold,
		MinimumOrder:          u.store.MinimumOrder,
		PaymentMethods:        u.store.PaymentMethods,
		ExtendedCheckout:      u.store.ExtendedCheckout,
	}
}

func (u *CheckoutUsecase) CreateSession(ctx context.Context) (CartOutput, error) {
	sess := checkout.NewSession(u.newID(), u.now())
	if err := u.sessions.Save(ctx, sess); err != nil {
		return CartOutput{}, wrapHTTPError(http.StatusInternalServerError, "session error", err)
	}
	return u.cartOutput(ctx, sess)
}

// GetCart は既定の配送方法・クーポンなしの合計付きで返す
func (u *CheckoutUsecase) GetCart(ctx context.Context, sessionID string) (CartOutput, error) {
	sess, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return CartOutput{}, err
	}
	return u.cartOutput(ctx, sess)
}

// Abandon はカートを捨てる（無ければ何もしない）
func (u *CheckoutUsecase) Abandon(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		return wrapHTTPError(http.StatusInternalServerError, "session error", err)
	}
	return nil
}

// AddItem は商品の現在価格・原価を取り込んでカートに入れる
func (u *CheckoutUsecase) AddItem(ctx context.Context, sessionID string, in AddCartItemInput) (CartOutput, error) {
	if in.ProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity <= 0 {
		return CartOutput{}, wrapHTTPError(http.StatusBadRequest, "invalid quantity", cart.ErrInvalidQuantity)
	}
	if len(in.Notes) > 500 || len(in.Variant) > 100 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
	}

	if strings.TrimSpace(sessionID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, wrapHTTPError(http.StatusInternalServerError, "db error", err)
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	return u.mutateSession(ctx, sessionID, func(sess *checkout.Session) error {
		//同じ商品の合計数量で在庫を見る
		if !p.CanFulfil(sess.Cart.QuantityOf(p.ID) + in.Quantity) {
			return NewHTTPError(http.StatusBadRequest, "out of stock")
		}
		if _, err := sess.Cart.AddItem(cart.Product{ID: p.ID, Name: p.Name, Price: p.Price, Cost: p.Cost}, in.Quantity, in.Variant, in.Notes); err != nil {
			return wrapHTTPError(http.StatusBadRequest, "invalid quantity", err)
		}
		return nil
	})
}

// UpdateItem は数量を変える。0以下なら削除。
func (u *CheckoutUsecase) UpdateItem(ctx context.Context, sessionID string, itemID string, quantity int64) (CartOutput, error) {
	return u.mutateSession(ctx, sessionID, func(sess *checkout.Session) error {
		li, ok := sess.Cart.Find(itemID)
		if !ok {
			return wrapHTTPError(http.StatusNotFound, "item not found", cart.ErrItemNotFound)
		}

		if quantity > 0 && quantity > li.Quantity {
			p, err := u.products.FindByID(ctx, li.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "product not available")
			}
			if err != nil {
				return wrapHTTPError(http.StatusInternalServerError, "db error", err)
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product not available")
			}
			if !p.CanFulfil(sess.Cart.QuantityOf(li.ProductID) - li.Quantity + quantity) {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}
		}

		if err := sess.Cart.UpdateQuantity(itemID, quantity); err != nil {
			return wrapHTTPError(http.StatusNotFound, "item not found", err)
		}
		return nil
	})
}

func (u *CheckoutUsecase) RemoveItem(ctx context.Context, sessionID string, itemID string) (CartOutput, error) {
	return u.mutateSession(ctx, sessionID, func(sess *checkout.Session) error {
		if err := sess.Cart.RemoveItem(itemID); err != nil {
			return wrapHTTPError(http.StatusNotFound, "item not found", err)
		}
		return nil
	})
}

func (u *CheckoutUsecase) Quote(ctx context.Context, sessionID string, in QuoteInput) (QuoteOutput, error) {
	sess, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return QuoteOutput{}, err
	}

	q, err := u.quote(ctx, sess.Cart, in.Shipping, in.Coupon)
	if err != nil {
		return QuoteOutput{}, err
	}
	var min *pricing.MinimumOrderError
	if err := pricing.CheckMinimumOrder(q.Totals.Total, u.store.MinimumOrder); errors.As(err, &min) {
		q.MinimumShortfall = min.Shortfall
	}
	return q, nil
}

// PreviewMessage は送信前に確認するメッセージとリンクを作る（保存しない）
func (u *CheckoutUsecase) PreviewMessage(ctx context.Context, sessionID string, in CheckoutInput) (MessageOutput, error) {
	sess, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return MessageOutput{}, err
	}
	if sess.Cart.IsEmpty() {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err := u.validateCheckout(in); err != nil {
		return MessageOutput{}, err
	}

	q, err := u.quote(ctx, sess.Cart, in.Shipping, in.Coupon)
	if err != nil {
		return MessageOutput{}, err
	}

	text := u.composer.Compose(checkout.MessageInput{
		StoreName:     u.store.Name,
		Customer:      in.Customer,
		Items:         sess.Cart.Items,
		Totals:        q.Totals,
		Shipping:      q.Shipping,
		PaymentMethod: in.PaymentMethod,
	})
	link, err := checkout.DeepLink("", u.store.WhatsAppPhone, text)
	if err != nil {
		return MessageOutput{}, wrapHTTPError(http.StatusInternalServerError, "store phone not configured", err)
	}

	return MessageOutput{Message: text, Link: link, Totals: q.Totals, CouponError: q.CouponError}, nil
}

// Submit は注文を確定する。
// セッションIDを冪等キーにするので、再送しても同じ注文が返る。
func (u *CheckoutUsecase) Submit(ctx context.Context, sessionID string, in CheckoutInput) (SubmitOutput, error) {
	ctx, span := tracer.Start(ctx, "checkout.submit")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionID))

	if strings.TrimSpace(sessionID) == "" {
		return SubmitOutput{}, NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	//送信済みなら同じ結果
	if out, found, err := u.findSubmitted(ctx, sessionID); err != nil || found {
		return out, err
	}

	sess, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return SubmitOutput{}, err
	}
	if sess.Cart.IsEmpty() {
		return SubmitOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err := u.validateCheckout(in); err != nil {
		return SubmitOutput{}, err
	}

	q, err := u.quote(ctx, sess.Cart, in.Shipping, in.Coupon)
	if err != nil {
		return SubmitOutput{}, err
	}
	if err := pricing.CheckMinimumOrder(q.Totals.Total, u.store.MinimumOrder); err != nil {
		return SubmitOutput{}, wrapHTTPError(http.StatusBadRequest, err.Error(), err)
	}

	info := in.Customer.Trimmed()
	now := u.now()
	totalCost := sess.Cart.TotalCost()

	order := model.Order{
		OrderNumber:        u.orderNumber(now),
		CustomerName:       info.Name,
		CustomerPhone:      checkout.NormalizePhone(info.Phone),
		CustomerEmail:      info.Email,
		ShippingAddress:    info.Address,
		ShippingCity:       info.City,
		ShippingPostalCode: info.PostalCode,
		CustomerNotes:      info.Notes,
		Subtotal:           q.Totals.Subtotal,
		Shipping:           q.Totals.ShippingCost,
		Discount:           q.Totals.Discount,
		Total:              q.Totals.Total,
		TotalCost:          totalCost,
		TotalProfit:        q.Totals.Subtotal - q.Totals.Discount - totalCost,
		CouponCode:         q.Totals.CouponCode,
		ShippingMethod:     q.Shipping.Code,
		Status:             model.OrderStatusPending,
		PaymentStatus:      model.PaymentStatusPending,
		PaymentMethod:      strings.TrimSpace(in.PaymentMethod),
		Source:             model.OrderSourceWhatsApp,
		IdempotencyKey:     sessionID,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var items []model.OrderItem
	var customer model.Customer

	//在庫減算・顧客・注文はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items = make([]model.OrderItem, 0, len(sess.Cart.Items))
		for _, li := range sess.Cart.Items {
			p, err := r.Products().FindByID(ctx, li.ProductID)
			if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
				return NewHTTPError(http.StatusBadRequest, "product not available: "+li.Name)
			}
			if err != nil {
				return repoError(err)
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, li.ProductID, li.Quantity)
			if err != nil {
				return repoError(err)
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock: "+li.Name)
			}

			items = append(items, model.OrderItem{
				ProductID:           li.ProductID,
				ProductNameSnapshot: li.Name,
				Variant:             li.Variant,
				Notes:               li.Notes,
				UnitPriceSnapshot:   li.UnitPrice,
				UnitCostSnapshot:    li.UnitCost,
				Quantity:            li.Quantity,
				CreatedAt:           now,
			})
		}

		customer = model.Customer{
			Name:       info.Name,
			Phone:      order.CustomerPhone,
			Email:      info.Email,
			Address:    info.Address,
			City:       info.City,
			PostalCode: info.PostalCode,
		}
		if err := r.Customers().UpsertByPhone(ctx, &customer); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return wrapHTTPError(http.StatusConflict, "customer was updated concurrently, retry", err)
			}
			return repoError(err)
		}
		order.CustomerID = customer.ID

		if err := r.Orders().Create(ctx, &order); err != nil {
			if !errors.Is(err, repo.ErrDuplicate) {
				return repoError(err)
			}
			return wrapHTTPError(http.StatusConflict, "order number conflict, retry", err)
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return repoError(err)
		}

		for _, it := range items {
			if err := r.Inventory().RecordAdjustment(ctx, &model.InventoryAdjustment{
				ProductID: it.ProductID,
				OrderID:   order.ID,
				Delta:     -it.Quantity,
				Reason:    model.AdjustmentReasonOrderPlaced,
				CreatedAt: now,
			}); err != nil {
				return repoError(err)
			}
		}
		return nil
	})

	if err != nil {
		//同時送信で先に入った注文があればそれを返す
		if errors.Is(err, repo.ErrDuplicate) {
			if out, found, ferr := u.findSubmitted(ctx, sessionID); ferr == nil && found {
				return out, nil
			}
		}
		span.RecordError(err)
		return SubmitOutput{}, err
	}

	span.SetAttributes(attribute.Int64("order_id", order.ID))

	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		u.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to clear checkout session")
	}

	u.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"session_id":   sessionID,
	}).Info("order submitted")

	publishAll(ctx, u.logger, u.publishers, event.NewOrderEvent(event.TypeOrderCreated, order, now))

	text := u.composer.Compose(checkout.MessageInput{
		StoreName:     u.store.Name,
		OrderNumber:   order.OrderNumber,
		Customer:      info,
		Items:         sess.Cart.Items,
		Totals:        q.Totals,
		Shipping:      q.Shipping,
		PaymentMethod: order.PaymentMethod,
	})
	link, err := checkout.DeepLink("", u.store.WhatsAppPhone, text)
	if err != nil {
		u.logger.WithError(err).Warn("store phone not configured")
	}

	return SubmitOutput{
		Order:       orderview.Build(order, items, &customer),
		Message:     text,
		Link:        link,
		CouponError: q.CouponError,
	}, nil
}

// findSubmitted は冪等キーで既存注文を探し、メッセージも作り直して返す
func (u *CheckoutUsecase) findSubmitted(ctx context.Context, sessionID string) (SubmitOutput, bool, error) {
	var out SubmitOutput
	var found bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, ok, err := r.Orders().FindByIdempotencyKey(ctx, sessionID)
		if err != nil {
			return repoError(err)
		}
		if !ok {
			return nil
		}
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return repoError(err)
		}
		found = true
		out = u.outputFromOrder(o, items)
		return nil
	})
	if err != nil {
		return SubmitOutput{}, false, err
	}
	return out, found, nil
}

func (u *CheckoutUsecase) outputFromOrder(o model.Order, items []model.OrderItem) SubmitOutput {
	lines := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, cart.LineItem{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			UnitCost:  it.UnitCostSnapshot,
			Quantity:  it.Quantity,
			Variant:   it.Variant,
			Notes:     it.Notes,
		})
	}
	shipping, ok := u.store.Shipping(o.ShippingMethod)
	if !ok {
		shipping = pricing.ShippingOption{Code: o.ShippingMethod, Name: o.ShippingMethod}
	}

	text := u.composer.Compose(checkout.MessageInput{
		StoreName:   u.store.Name,
		OrderNumber: o.OrderNumber,
		Customer: checkout.CustomerInfo{
			Name:       o.CustomerName,
			Phone:      o.CustomerPhone,
			Email:      o.CustomerEmail,
			Address:    o.ShippingAddress,
			City:       o.ShippingCity,
			PostalCode: o.ShippingPostalCode,
			Notes:      o.CustomerNotes,
		},
		Items: lines,
		Totals: pricing.Totals{
			Subtotal:     o.Subtotal,
			Discount:     o.Discount,
			ShippingCost: o.Shipping,
			Total:        o.Total,
			FreeShipping: o.Shipping == 0,
			CouponCode:   o.CouponCode,
		},
		Shipping:      shipping,
		PaymentMethod: o.PaymentMethod,
	})
	link, _ := checkout.DeepLink("", u.store.WhatsAppPhone, text)

	return SubmitOutput{
		Order:   orderview.Build(o, items, nil),
		Message: text,
		Link:    link,
	}
}

func (u *CheckoutUsecase) validateCheckout(in CheckoutInput) error {
	if err := checkout.ValidateCustomer(u.validate, in.Customer, u.store.ExtendedCheckout); err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			return wrapHTTPError(http.StatusBadRequest, ve.Error(), ve)
		}
		return wrapHTTPError(http.StatusBadRequest, "invalid customer", err)
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" || !u.store.AcceptsPayment(method) {
		return NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}
	return nil
}

// quote は配送方法とクーポンを解決して合計を出す。
// クーポンが使えない場合は割引0で続けて理由を返す。
func (u *CheckoutUsecase) quote(ctx context.Context, c *cart.Cart, shippingCode string, couponCode string) (QuoteOutput, error) {
	opt, ok := u.store.Shipping(strings.TrimSpace(shippingCode))
	if !ok {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping")
	}

	var coupon *pricing.Coupon
	couponErr := ""
	if code := strings.TrimSpace(couponCode); code != "" && u.coupons != nil {
		cp, err := u.coupons.Validate(ctx, code, c.Subtotal())
		switch {
		case err == nil:
			coupon = &cp
		case errors.Is(err, pricing.ErrCouponInvalid):
			couponErr = "coupon invalid"
		default:
			u.logger.WithError(err).WithField("coupon", code).Warn("coupon validation failed")
			couponErr = "coupon unavailable"
		}
	}

	totals := pricing.ComputeTotals(c, opt, coupon, u.store.FreeShippingThreshold)
	return QuoteOutput{Totals: totals, Shipping: opt, CouponError: couponErr}, nil
}

func (u *CheckoutUsecase) loadSession(ctx context.Context, sessionID string) (checkout.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return checkout.Session{}, NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	sess, err := u.sessions.Find(ctx, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return checkout.Session{}, wrapHTTPError(http.StatusNotFound, "session not found", err)
	}
	if err != nil {
		return checkout.Session{}, wrapHTTPError(http.StatusInternalServerError, "session error", err)
	}
	if sess.Cart == nil {
		sess.Cart = cart.New()
	}
	return sess, nil
}

// mutateSession はカートの読み出しから保存までを SessionRepository.Update に任せる。
// 同じカートへの同時操作でも片方の変更が消えない。
func (u *CheckoutUsecase) mutateSession(ctx context.Context, sessionID string, fn func(sess *checkout.Session) error) (CartOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	sess, err := u.sessions.Update(ctx, sessionID, func(s *checkout.Session) error {
		if s.Cart == nil {
			s.Cart = cart.New()
		}
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = u.now()
		return nil
	})
	var he *HTTPError
	switch {
	case err == nil:
	case errors.As(err, &he):
		return CartOutput{}, err
	case errors.Is(err, repo.ErrNotFound):
		return CartOutput{}, wrapHTTPError(http.StatusNotFound, "session not found", err)
	case errors.Is(err, repo.ErrConflict):
		return CartOutput{}, wrapHTTPError(http.StatusConflict, "cart was updated concurrently, retry", err)
	default:
		return CartOutput{}, wrapHTTPError(http.StatusInternalServerError, "session error", err)
	}
	return u.cartOutput(ctx, sess)
}

func (u *CheckoutUsecase) cartOutput(ctx context.Context, sess checkout.Session) (CartOutput, error) {
	q, err := u.quote(ctx, sess.Cart, "", "")
	if err != nil {
		return CartOutput{}, err
	}

	items := make([]CartItemOutput, 0, len(sess.Cart.Items))
	for _, li := range sess.Cart.Items {
		items = append(items, CartItemOutput{
			ID:        li.ID,
			ProductID: li.ProductID,
			Name:      li.Name,
			Variant:   li.Variant,
			Notes:     li.Notes,
			Price:     li.UnitPrice,
			Quantity:  li.Quantity,
			Subtotal:  li.LineTotal(),
		})
	}
	return CartOutput{
		SessionID:     sess.ID,
		Items:         items,
		TotalQuantity: sess.Cart.TotalQuantity(),
		Totals:        q.Totals,
	}, nil
}

// ORD-YYYYMMDD-XXXXXXXX
func (u *CheckoutUsecase) orderNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(u.newID(), "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return "ORD-" + now.Format("20060102") + "-" + id
}
