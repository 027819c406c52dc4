package events

import (
	"context"
	"encoding/json"
	"strings"

	"storeorders/internal/domain/event"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaProducer は注文イベントを種別名のトピックへ送る。
// キーは注文番号（同じ注文のイベントは同じパーティション）。
type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

// NewKafkaProducer は "host1:9092,host2:9092" 形式のブローカー一覧で接続する
func NewKafkaProducer(brokers string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := NewConfig()

	producer, err := sarama.NewSyncProducer(splitBrokers(brokers), config)
	if err != nil {
		return nil, err
	}

	return NewKafkaProducerWith(producer, logger), nil
}

func NewKafkaProducerWith(producer sarama.SyncProducer, logger *logrus.Logger) *KafkaProducer {
	return &KafkaProducer{
		producer: producer,
		logger:   logger,
	}
}

func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0
	return config
}

func (p *KafkaProducer) Publish(ctx context.Context, ev event.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: ev.Type,
		Key:   sarama.StringEncoder(ev.OrderNumber),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("topic", ev.Type).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":        ev.Type,
		"partition":    partition,
		"offset":       offset,
		"order_number": ev.OrderNumber,
	}).Info("Event published to Kafka")

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
