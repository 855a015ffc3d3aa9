package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smart-locker/locker-service/locker/config"
	"github.com/smart-locker/locker-service/locker/internal/codes"
	"github.com/smart-locker/locker-service/locker/internal/handler"
	"github.com/smart-locker/locker-service/locker/internal/repository"
	"github.com/smart-locker/locker-service/locker/internal/server"
	"github.com/smart-locker/locker-service/locker/internal/service"
	"github.com/smart-locker/locker-service/locker/migrations"
	cb "github.com/smart-locker/locker-service/pkg/circuit_breaker"
	"github.com/smart-locker/locker-service/pkg/email"
	"github.com/smart-locker/locker-service/pkg/kafka"
	"github.com/smart-locker/locker-service/pkg/logger"
	"github.com/smart-locker/locker-service/pkg/metrics"
	"github.com/smart-locker/locker-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "locker")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	codeStore := codes.NewStore(rdb, log)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}

	m := metrics.New()
	svc := service.NewService(repo, codeStore, service.NewKafkaNotifier(producer), m, cfg.AdminEmail, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	breaker := cb.New(20, 30*time.Second, 0.5, 3)
	notifyConsumer := handler.NewNotificationConsumer(email.NewSender(cfg.SMTP), breaker, m, log)

	h := handler.New(svc, cfg.JWT, m, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	ctx, cancel := context.WithCancel(context.Background())
	g := new(errgroup.Group)
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		kafka.Consume(consumer, notifyConsumer, kafka.NotificationsTopic)
		return nil
	})
	g.Go(func() error {
		return svc.RunSweeper(ctx, cfg.SweepInterval)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	cancel()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err = g.Wait(); err != nil && err != context.Canceled {
		log.Error("shutdown", zap.Error(err))
	}
	_ = producer.Close()
	_ = rdb.Close()
	db.Close()
	log.Info("Graceful shutdown finished")
}
