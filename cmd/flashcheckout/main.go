package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/flashcheckout/internal/cache"
	"github.com/nikolayk812/flashcheckout/internal/config"
	"github.com/nikolayk812/flashcheckout/internal/events"
	"github.com/nikolayk812/flashcheckout/internal/httpapi"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/nikolayk812/flashcheckout/internal/repository"
	"github.com/nikolayk812/flashcheckout/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("flashcheckout stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("config.LoadFile: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	kafkaClient, err := events.NewKafkaClient(events.KafkaOptions{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		ClientID: cfg.Kafka.ClientID,
		Username: cfg.Kafka.Username,
		Password: cfg.Kafka.Password,
	})
	if err != nil {
		return fmt.Errorf("events.NewKafkaClient: %w", err)
	}
	defer kafkaClient.Close()

	kafkaSink, err := events.NewKafkaSink(kafkaClient, cfg.Kafka.Topic)
	if err != nil {
		return fmt.Errorf("events.NewKafkaSink: %w", err)
	}

	orderCache, err := cache.NewOrderCache(repository.NewOrder(pool), rdb, cfg.Redis.OrderTTL)
	if err != nil {
		return fmt.Errorf("cache.NewOrderCache: %w", err)
	}

	// cache invalidation runs before the kafka produce
	sink := events.Fanout{orderCache, kafkaSink, events.LogSink{}}

	txRunner := repository.NewTxRunner(pool, repository.LedgerOptions{
		ReactivateOnRelease: cfg.Checkout.ReactivateOnRelease,
	})

	handler, offers, err := buildHandler(cfg, txRunner, orderCache, sink)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(httpapi.RateLimit(rdb, cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepExpiredOffers(ctx, offers, cfg.Sweeper.Interval)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting http server", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	if err := kafkaClient.Flush(shutdownCtx); err != nil {
		slog.Warn("kafka flush", "error", err)
	}

	return nil
}

func buildHandler(cfg config.Config, txRunner port.TxRunner, orderCache *cache.OrderCache, sink events.Fanout) (*httpapi.Handler, *service.Offers, error) {
	unit, err := cfg.Checkout.Unit()
	if err != nil {
		return nil, nil, err
	}

	feeRule, err := cfg.Checkout.DeliveryFeeRule()
	if err != nil {
		return nil, nil, err
	}

	taxRule, err := cfg.Checkout.TaxRule()
	if err != nil {
		return nil, nil, err
	}

	checkout, err := service.NewCheckout(txRunner, orderCache, sink, service.CheckoutConfig{
		Currency:       unit,
		MaxLines:       cfg.Checkout.MaxLines,
		DeliveryFee:    feeRule,
		Tax:            taxRule,
		ReserveRetries: cfg.Checkout.ReserveRetries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewCheckout: %w", err)
	}

	lifecycle, err := service.NewLifecycle(txRunner, sink, cfg.Checkout.ReserveRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewLifecycle: %w", err)
	}

	cod, err := service.NewCod(txRunner, sink, cfg.Checkout.ReserveRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewCod: %w", err)
	}

	offers, err := service.NewOffers(txRunner)
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewOffers: %w", err)
	}

	handler, err := httpapi.NewHandler(checkout, lifecycle, cod, offers)
	if err != nil {
		return nil, nil, fmt.Errorf("httpapi.NewHandler: %w", err)
	}

	return handler, offers, nil
}

func sweepExpiredOffers(ctx context.Context, offers *service.Offers, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := offers.DeactivateExpired(runCtx); err != nil {
				slog.Error("sweep expired offers", "method", "sweepExpiredOffers", "error", err)
			}
			cancel()
		}
	}
}
