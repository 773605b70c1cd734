package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/api"
	"github.com/tripgrid/backoffice/config"
	"github.com/tripgrid/backoffice/internal/bootstrap"
	"github.com/tripgrid/backoffice/internal/cache"
	"github.com/tripgrid/backoffice/internal/gateway"
	"github.com/tripgrid/backoffice/internal/kafka"
	"github.com/tripgrid/backoffice/internal/repository"
	"github.com/tripgrid/backoffice/internal/service/booking"
	"github.com/tripgrid/backoffice/internal/service/listings"
	"github.com/tripgrid/backoffice/internal/service/payment"
	"github.com/tripgrid/backoffice/internal/service/tours"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.ToursCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gatewayClient := gateway.NewClient(gateway.Environment{
		Name:       cfg.Gateway.Environment,
		BaseURL:    cfg.Gateway.BaseURL,
		MerchantID: cfg.Gateway.MerchantID,
		APIKey:     cfg.Gateway.APIKey,
	})

	bookingRepo := repository.NewBookingRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	tourRepo := repository.NewTourRepository(pool)

	bookingService := booking.NewBookingService(bookingRepo, producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic)
	listingService := listings.NewListingService(listingRepo)
	paymentService := payment.NewPaymentService(paymentRepo, bookingRepo, gatewayClient, cfg.Gateway.Name, producer, cfg.Kafka.PaymentTopic)
	tourService := tours.NewTourService(tourRepo, redisCache)

	handlers := bootstrap.Handlers{
		Bookings: api.NewBookingHandler(bookingService),
		Listings: api.NewListingHandler(listingService),
		Payments: api.NewPaymentHandler(paymentService),
		Tours:    api.NewTourHandler(tourService),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
