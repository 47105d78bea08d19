package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/saulmartinx/wolk/internal/api/handler"
	"github.com/saulmartinx/wolk/internal/api/router"
	"github.com/saulmartinx/wolk/internal/config"
	"github.com/saulmartinx/wolk/internal/events"
	"github.com/saulmartinx/wolk/internal/gateway"
	"github.com/saulmartinx/wolk/internal/seed"
	"github.com/saulmartinx/wolk/internal/storage"
	"github.com/saulmartinx/wolk/internal/storage/memory"
	"github.com/saulmartinx/wolk/internal/workflow"
	"github.com/saulmartinx/wolk/shared/logger"
	"github.com/saulmartinx/wolk/shared/postgresql"
	"github.com/saulmartinx/wolk/shared/rabbitmq"
)

// store is satisfied by both the PostgreSQL and the in-memory storage
type store interface {
	handler.JobStore
	handler.UserStore
	handler.TransactionStore
	handler.HealthChecker
	workflow.SwipeStore
	workflow.TransactionStore
	seed.JobStore
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("rabbitmq_enabled", cfg.RabbitMQ.Enabled),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	healthChecks := make(map[string]handler.HealthChecker)

	st, dbClient, err := initStore(startupCtx, cfg, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if dbClient != nil {
		defer dbClient.Close()
	}
	healthChecks["storage"] = st

	if cfg.Storage.SeedJobs {
		if _, err := seed.Jobs(startupCtx, st, appLogger.Logger); err != nil {
			return fmt.Errorf("failed to seed jobs: %w", err)
		}
	}

	var publisher workflow.EventPublisher = events.Noop{}
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()

		publisher = events.NewPublisher(rabbitClient, appLogger.Logger)
		healthChecks["rabbitmq"] = rabbitClient
		appLogger.Info("RabbitMQ connection established")
	}

	gw, err := gateway.NewClient(&gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	}, nil, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	svc := workflow.NewService(&workflow.Dependencies{
		Logger:       appLogger.Logger,
		Gateway:      gw,
		Swipes:       st,
		Transactions: st,
		Events:       publisher,
	})

	r := initRouter(cfg.App.Environment, &handler.Dependencies{
		Logger:       appLogger.Logger,
		ServiceName:  cfg.App.Name,
		Jobs:         st,
		Users:        st,
		Transactions: st,
		Workflow:     svc,
		HealthChecks: healthChecks,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...",
			slog.String("signal", sig.String()),
		)
	case err := <-serverErr:
		appLogger.Error("Server failed",
			slog.Any("error", err),
		)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig, service string) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
		Service:      service,
	})
}

// initStore opens the configured storage backend. The returned client is nil
// for the memory driver.
func initStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, *postgresql.Client, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	dbClient, err := initPostgreSQL(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	st := storage.NewStorage(dbClient, logger)
	if err := st.Migrate(ctx); err != nil {
		dbClient.Close()
		return nil, nil, err
	}

	return st, dbClient, nil
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	return postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		BindingKey:         cfg.BindingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, deps *handler.Dependencies) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps)
}
