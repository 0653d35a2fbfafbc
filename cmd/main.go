package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/api"
	"github.com/YelzhanWeb/storefront/internal/adapter/dynamo"
	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/adapter/postgres"
	"github.com/YelzhanWeb/storefront/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/storefront/internal/app/cart"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/orders"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: gateway, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *mode == "notification-subscriber" {
		if err := cfg.ValidateSubscriber(); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	lgr := logger.New(*mode, level)

	backend, closeBackend, err := openLedgerBackend(ctx, cfg, lgr)
	if err != nil {
		log.Fatalf("Failed to open ledger storage: %v", err)
	}
	defer closeBackend()

	store := ledger.NewStore(backend, lgr)
	history := ledger.NewOrderHistory(store, cfg.Ledger.MaxHistory)

	switch *mode {
	case "gateway":
		cache := querycache.New(cfg.Cache.MaxEntries, cfg.Cache.StaleTime())
		runGateway(ctx, cfg, store, history, cache, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, history, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

// openLedgerBackend connects the configured ledger storage
func openLedgerBackend(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.LedgerBackend, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return postgres.NewLedgerRepository(db), db.Close, nil

	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		lgr.Info("dynamodb_ready", "Using DynamoDB ledger table", "startup", map[string]interface{}{
			"table":  cfg.DynamoDB.Table,
			"region": cfg.DynamoDB.Region,
		})
		return dynamo.NewLedgerBackend(client, cfg.DynamoDB.Table), func() {}, nil

	default:
		lgr.Warn("memory_storage", "Ledgers are kept in memory and lost on restart", "startup", nil)
		return memory.NewLedgerBackend(), func() {}, nil
	}
}

// connectRabbitMQ returns a nil connection when RabbitMQ is disabled
func connectRabbitMQ(cfg *config.Config, lgr logger.Logger) (rabbitmq.Connection, error) {
	if !cfg.RabbitMQ.Enabled {
		return nil, nil
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})
	return conn, nil
}

func runGateway(ctx context.Context, cfg *config.Config, store *ledger.Store, history *ledger.OrderHistory, cache *querycache.Cache, lgr logger.Logger) {
	mqConn, err := connectRabbitMQ(cfg, lgr)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	publisher := rabbitmq.NopPublisher()
	if mqConn != nil {
		defer mqConn.Close()
		publisher = rabbitmq.NewPublisher(mqConn)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), lgr)
	pending := ledger.NewPendingLedger(store, cfg.Ledger.MaxPending)

	cartService := cart.NewService(client, pending, cache, lgr)
	orderService := orders.NewService(client, cartService, history, cache, publisher, lgr)
	catalogService := catalog.NewService(client, client, client, cache, lgr)

	if cfg.Auth.JWTSecret == "" {
		lgr.Warn("auth_unverified", "Bearer tokens are decoded without verification, ledgers are scoped per token", "startup", nil)
	}

	handler := httpAdapter.NewRouter(cfg.Auth.JWTSecret, lgr,
		httpAdapter.NewCartHandler(cartService, lgr),
		httpAdapter.NewOrderHandler(orderService, lgr),
		httpAdapter.NewRestaurantHandler(catalogService, lgr),
		httpAdapter.NewReviewHandler(catalogService, lgr),
		httpAdapter.NewAuthHandler(catalogService, lgr),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Storefront gateway started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":     cfg.Server.Port,
		"api":      cfg.API.BaseURL,
		"storage":  cfg.Storage.Backend,
		"rabbitmq": cfg.RabbitMQ.Enabled,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		lgr.Info("shutdown_initiated", "Shutting down storefront gateway", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

// runNotificationSubscriber updates the shared order history. The gateway
// picks the change up once its cached order list goes stale.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, history *ledger.OrderHistory, lgr logger.Logger) {
	mqConn, err := connectRabbitMQ(cfg, lgr)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Prefetch, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(history, nil, lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"queue": rabbitmq.HistoryQueue,
	})

	err = consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification)
	if err != nil && !errors.Is(err, context.Canceled) {
		lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
	}

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
