package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/murtaza192168/inventory-supplier-management/pkg/kafka"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/metrics"
	"github.com/murtaza192168/inventory-supplier-management/pkg/middleware"
	"github.com/murtaza192168/inventory-supplier-management/pkg/mongodb"
	"github.com/murtaza192168/inventory-supplier-management/pkg/outbox"
	outboxMongo "github.com/murtaza192168/inventory-supplier-management/pkg/outbox/mongodb"
	"github.com/murtaza192168/inventory-supplier-management/pkg/tracing"

	"github.com/murtaza192168/inventory-supplier-management/internal/api/handlers"
	"github.com/murtaza192168/inventory-supplier-management/internal/application"
	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	mongoRepo "github.com/murtaza192168/inventory-supplier-management/internal/infrastructure/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

const serviceName = "supplier-ledger"

type mongoClient interface {
	Database() *mongo.Database
	Close(context.Context) error
	HealthCheck(context.Context) error
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error
}

type kafkaProducer interface {
	Close() error
}

type outboxPublisher interface {
	Start(context.Context) error
	Stop() error
}

type outboxRepository interface {
	outbox.Repository
	EnsureIndexes(context.Context) error
}

var newMongoClient = func(ctx context.Context, cfg *mongodb.Config) (mongoClient, error) {
	return mongodb.NewClient(ctx, cfg)
}

var newKafkaProducer = func(cfg *kafka.Config) kafkaProducer {
	return kafka.NewProducer(cfg)
}

var newOutboxPublisher = func(repo outbox.Repository, producer kafkaProducer, logger *logging.Logger, m *metrics.Metrics, cfg *outbox.PublisherConfig) outboxPublisher {
	return outbox.NewPublisher(repo, producer.(*kafka.Producer), logger, m, cfg)
}

var newSupplierRepository = func(db *mongo.Database) domain.SupplierRepository {
	return mongoRepo.NewSupplierRepository(db)
}

var newPaymentRepository = func(db *mongo.Database) domain.PaymentRepository {
	return mongoRepo.NewPaymentRepository(db)
}

var newReceiptRepository = func(db *mongo.Database) domain.ReceiptRepository {
	return mongoRepo.NewReceiptRepository(db)
}

var newOutboxRepository = func(db *mongo.Database) outboxRepository {
	return outboxMongo.NewOutboxRepository(db)
}

var newLedgerService = application.NewLedgerService

var newSupplierService = application.NewSupplierService

var newInventoryService = application.NewInventoryService

var newMetrics = metrics.New

var initTracing = tracing.Initialize

var startHTTPServer = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

func main() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), signalCh); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, signalCh <-chan os.Signal) error {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting supplier-ledger API")

	// Load configuration
	config, err := loadConfig()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		return err
	}

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := initTracing(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := newMetrics(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	client, err := newMongoClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return err
	}
	defer client.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer
	producer := newKafkaProducer(config.Kafka)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize repositories
	supplierRepo := newSupplierRepository(client.Database())
	paymentRepo := newPaymentRepository(client.Database())
	receiptRepo := newReceiptRepository(client.Database())

	outboxRepo := newOutboxRepository(client.Database())
	if err := outboxRepo.EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Warn("Failed to ensure outbox indexes")
	}

	// Initialize and start outbox publisher
	publisher := newOutboxPublisher(
		outboxRepo,
		producer,
		logger,
		m,
		&outbox.PublisherConfig{
			PollInterval: 1 * time.Second,
			BatchSize:    100,
		},
	)
	if err := publisher.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start outbox publisher")
		return err
	}
	defer func() {
		if err := publisher.Stop(); err != nil {
			logger.WithError(err).Warn("Failed to stop outbox publisher")
		}
	}()
	logger.Info("Outbox publisher started")

	// Initialize application services
	txManager := mongoRepo.NewTransactionManager(client, m)
	topics := application.EventTopics{
		Payments:  kafka.Topics.PaymentEvents,
		Suppliers: kafka.Topics.SupplierEvents,
		Inventory: kafka.Topics.InventoryEvents,
	}

	ledgerService := newLedgerService(
		supplierRepo,
		paymentRepo,
		receiptRepo,
		outboxRepo,
		txManager,
		topics,
		m,
		logger,
	)
	supplierService := newSupplierService(supplierRepo, outboxRepo, topics, logger)
	inventoryService := newInventoryService(receiptRepo, logger)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(ledgerService, logger)
	supplierHandler := handlers.NewSupplierHandler(supplierService, ledgerService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)

	// Setup Gin router with middleware
	router := gin.New()

	// Apply standard middleware
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	// Add metrics middleware
	router.Use(middleware.MetricsMiddleware(m))

	// Add tracing middleware
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(serviceName)))

	// Extract business scoping when present. Health and metrics endpoints
	// stay unscoped; the API group enforces the scope below.
	router.Use(middleware.BusinessAuth(&middleware.BusinessAuthConfig{Required: false}))

	// Handle 404 and 405 errors
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return client.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes, all scoped to a business
	v1 := router.Group("/api/v1", middleware.RequireBusiness())
	{
		// Payments
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.PostPayment)
			payments.GET("", paymentHandler.ListPayments)
			payments.GET("/:paymentId", paymentHandler.GetPayment)
			payments.PUT("/:paymentId/items/:itemId", paymentHandler.ReviseLineItem)
			payments.DELETE("/:paymentId", paymentHandler.ReverseInvoice)
		}

		// Suppliers
		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", supplierHandler.CreateSupplier)
			suppliers.GET("", supplierHandler.ListSuppliers)
			suppliers.GET("/:supplierId", supplierHandler.GetSupplier)
			suppliers.PUT("/:supplierId", supplierHandler.UpdateSupplier)
			suppliers.GET("/:supplierId/payments", supplierHandler.ListSupplierPayments)
			suppliers.GET("/:supplierId/balance/audit", supplierHandler.AuditSupplierBalance)
		}

		// Inventory receipts
		inventory := v1.Group("/inventory")
		{
			inventory.GET("/receipts", inventoryHandler.ListReceipts)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := startHTTPServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	<-signalCh
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	<-serverDone

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

// fileConfig is the optional YAML config file shape. Values from the
// file override the built-in defaults; environment variables override
// the file.
type fileConfig struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	MongoDB struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		ReplicaSet string `yaml:"replicaSet"`
	} `yaml:"mongodb"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
	} `yaml:"kafka"`
}

func loadConfig() (*Config, error) {
	config := &Config{
		ServerAddr: ":8021",
		MongoDB: &mongodb.Config{
			URI:            "mongodb://localhost:27017",
			Database:       "supplier_ledger_db",
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{"localhost:9092"},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
		if fc.Server.Addr != "" {
			config.ServerAddr = fc.Server.Addr
		}
		if fc.MongoDB.URI != "" {
			config.MongoDB.URI = fc.MongoDB.URI
		}
		if fc.MongoDB.Database != "" {
			config.MongoDB.Database = fc.MongoDB.Database
		}
		if fc.MongoDB.ReplicaSet != "" {
			config.MongoDB.ReplicaSet = fc.MongoDB.ReplicaSet
		}
		if len(fc.Kafka.Brokers) > 0 {
			config.Kafka.Brokers = fc.Kafka.Brokers
		}
	}

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.ServerAddr = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		config.MongoDB.URI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		config.MongoDB.Database = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		config.Kafka.Brokers = []string{v}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
