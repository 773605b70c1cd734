package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/config"
	"github.com/tripgrid/backoffice/internal/email"
	"github.com/tripgrid/backoffice/internal/gateway"
	"github.com/tripgrid/backoffice/internal/kafka"
	"github.com/tripgrid/backoffice/internal/repository"
	"github.com/tripgrid/backoffice/internal/service/payment"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gatewayClient := gateway.NewClient(gateway.Environment{
		Name:       cfg.Gateway.Environment,
		BaseURL:    cfg.Gateway.BaseURL,
		MerchantID: cfg.Gateway.MerchantID,
		APIKey:     cfg.Gateway.APIKey,
	})

	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	paymentService := payment.NewPaymentService(paymentRepo, bookingRepo, gatewayClient, cfg.Gateway.Name, producer, cfg.Kafka.PaymentTopic)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	staleAge := time.Duration(cfg.Worker.StalePaymentMinutes) * time.Minute

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			stale, err := paymentRepo.ListStaleProcessing(ctx, time.Now().Add(-staleAge))
			if err != nil {
				log.Printf("list stale payments error: %v", err)
				continue
			}
			for _, txn := range stale {
				status, err := paymentService.CheckStatus(ctx, txn.OrderID)
				if err != nil {
					log.Printf("reconcile order %s error: %v", txn.OrderID, err)
					continue
				}
				if status.Terminal() {
					log.Printf("order %s settled as %s", txn.OrderID, status)
				}
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
