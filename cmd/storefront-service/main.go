package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/newsletter"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/seed"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/telemetry"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront-service] ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(1)
	}
}

// run serves until ctx is done or the listener fails. Everything it opens is
// closed before it returns.
func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: httpapi.ServiceName,
		Enabled:     cfg.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("tracing shutdown error: %v", err)
		}
	}()

	data, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	cat := catalog.New()
	reviews := testimonial.NewMemoryRepository(cat)
	if err := seed.Apply(ctx, data, cat, reviews); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	logger.Printf("seeded %d categories, %d products, %d testimonials",
		len(data.Categories), len(data.Products), len(data.Testimonials))

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Catalog:          cat,
		Cart:             cart.NewMemoryRepository(cat),
		Newsletter:       newsletter.NewMemoryRepository(),
		Testimonials:     reviews,
		Events:           events.NewEmitter(publisher, events.DefaultProducer),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RequestTimeout:   cfg.RequestTimeout,
		Tracing:          cfg.TracingEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown requested")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
	logger.Printf("shutdown complete")
	return nil
}

// newPublisher picks the event transport: RabbitMQ when a URL is configured,
// the log otherwise, nothing when events are disabled.
func newPublisher(cfg config.Config, logger *log.Logger) (events.Publisher, func(), error) {
	if !cfg.EventsEnabled {
		return events.NopPublisher{}, func() {}, nil
	}
	if cfg.RabbitMQURL == "" {
		return events.LogPublisher{Logger: logger}, func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewRabbitPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create rabbit publisher: %w", err)
	}
	logger.Printf("publishing events to exchange %s", events.EventsExchange)
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Printf("publisher close error: %v", err)
		}
		if err := conn.Close(); err != nil {
			logger.Printf("rabbit connection close error: %v", err)
		}
	}, nil
}
