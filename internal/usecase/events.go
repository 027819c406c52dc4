package usecase

import (
	"context"

	"storeorders/internal/domain/event"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("storeorders/usecase")

// OrderEventPublisher は注文イベントの送り先（Kafka、管理画面WebSocket）
type OrderEventPublisher interface {
	Publish(ctx context.Context, ev event.OrderEvent) error
}

// publishAll はコミット後に呼ぶ。失敗はログだけ残して注文処理は失敗にしない。
func publishAll(ctx context.Context, logger *logrus.Logger, pubs []OrderEventPublisher, ev event.OrderEvent) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(ev.Type, trace.WithAttributes(
		attribute.Int64("order_id", ev.OrderID),
		attribute.Int("publishers", len(pubs)),
	))

	for _, p := range pubs {
		if err := p.Publish(ctx, ev); err != nil {
			span.RecordError(err)
			logger.WithError(err).WithFields(logrus.Fields{
				"type":     ev.Type,
				"order_id": ev.OrderID,
			}).Warn("failed to publish order event")
		}
	}
}
