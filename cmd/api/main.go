package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storeorders/internal/config"
	"storeorders/internal/domain/checkout"
	"storeorders/internal/domain/money"
	"storeorders/internal/domain/pricing"
	"storeorders/internal/handler"
	"storeorders/internal/infra/catalog"
	"storeorders/internal/infra/db"
	"storeorders/internal/infra/events"
	infraRepo "storeorders/internal/infra/repository"
	"storeorders/internal/infra/session"
	"storeorders/internal/infra/telemetry"
	"storeorders/internal/infra/websocket"
	"storeorders/internal/server"
	"storeorders/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	//.envは無くても起動する（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	//トレース
	shutdownTracing, err := telemetry.Setup(ctx, "storeorders", cfg.OtelExporter, cfg.OtelEndpoint, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.WithError(err).Warn("tracing shutdown")
		}
	}()

	//ストア設定（送料・クーポン・WhatsApp番号）
	store, err := catalog.Load(cfg.StoreConfigPath)
	if err != nil {
		return err
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//チェックアウトセッション（Redis）
	redisClient, err := session.NewClient(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	sessions := session.NewRedisStore(redisClient, cfg.CheckoutSessionTTL)

	//通知先：管理画面のWebSocketと、設定されていればKafka
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	publishers := []usecase.OrderEventPublisher{hub}
	if cfg.KafkaBrokers != "" {
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		publishers = append(publishers, producer)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	composer := checkout.NewComposer(money.NewFormatter(store.Locale, store.CurrencySymbol))
	coupons := pricing.NewCouponBook(store.Coupons)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(sessions, productRepo, txManager, coupons, store, composer, logger, publishers...)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, logger, publishers...)
	customerUC := usecase.NewCustomerUsecase(txManager, logger)

	//Handler生成
	e := server.New(cfg, logger, server.Handlers{
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC, http.HandlerFunc(hub.HandleWebSocket)),
		AdminCustomer: handler.NewAdminCustomerHandler(customerUC),
	})

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return server.Start(ctx, addr, e, logger)
}
