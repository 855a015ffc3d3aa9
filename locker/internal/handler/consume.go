package handler

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/model"
	cb "github.com/smart-locker/locker-service/pkg/circuit_breaker"
	"github.com/smart-locker/locker-service/pkg/email"
	"github.com/smart-locker/locker-service/pkg/metrics"
)

type Consumer struct {
	sender  email.Sender
	breaker cb.CircuitBreaker
	metrics *metrics.Metrics
	log     *zap.Logger
	ready   chan bool
}

func NewNotificationConsumer(sender email.Sender, breaker cb.CircuitBreaker, m *metrics.Metrics, log *zap.Logger) *Consumer {
	return &Consumer{
		sender:  sender,
		breaker: breaker,
		metrics: m,
		log:     log.Named("consumer"),
		ready:   make(chan bool),
	}
}

func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var note model.Notification
			if err := json.Unmarshal(message.Value, &note); err != nil {
				consumer.log.Error("", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.breaker.Call(func() error {
				return consumer.sender.Send(note.To, note.Subject, note.Body)
			}); err != nil {
				consumer.metrics.NotificationsSent.WithLabelValues("send_error").Inc()
				consumer.log.Error("send notification", zap.String("to", note.To), zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			consumer.metrics.NotificationsSent.WithLabelValues("sent").Inc()
			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
