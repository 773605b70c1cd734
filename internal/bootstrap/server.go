package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripgrid/backoffice/api"
	"github.com/tripgrid/backoffice/config"
)

type Handlers struct {
	Bookings *api.BookingHandler
	Listings *api.ListingHandler
	Payments *api.PaymentHandler
	Tours    *api.TourHandler
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	h.Bookings.Register(v1.Group("/bookings"))
	h.Listings.Register(v1.Group("/listings"))
	h.Payments.Register(v1.Group("/payments"))
	h.Tours.Register(v1.Group("/tours"))

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
