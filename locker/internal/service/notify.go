package service

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/pkg/kafka"
)

// Notifier hands a notification off for delivery. Delivery is best-effort:
// the engine never fails a transition over a notification error.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

type kafkaNotifier struct {
	producer sarama.SyncProducer
}

func NewKafkaNotifier(producer sarama.SyncProducer) Notifier {
	return &kafkaNotifier{producer: producer}
}

func (k *kafkaNotifier) Notify(_ context.Context, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: kafka.NotificationsTopic, Value: sarama.StringEncoder(data)}
	if _, _, err = k.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// notify queues the message and swallows failures: they are logged and
// counted, the triggering operation still succeeds.
func (s *Service) notify(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.notifier.Notify(ctx, model.Notification{To: to, Subject: subject, Body: body}); err != nil {
		s.metrics.NotificationsSent.WithLabelValues("queue_error").Inc()
		s.log.Warn("notification failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}
	s.metrics.NotificationsSent.WithLabelValues("queued").Inc()
}
