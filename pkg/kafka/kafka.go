package kafka

import (
	"context"
	"log"

	"github.com/IBM/sarama"
)

const (
	NotificationsTopic    = "locker.notifications"
	NotifierConsumerGroup = "locker-notifier"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer-group session loop until the group is closed.
func Consume(consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) {
	ctx := context.Background()
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			if err == sarama.ErrClosedConsumerGroup {
				return
			}
			log.Println("kafka consume:", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
