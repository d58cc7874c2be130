package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	"github.com/murtaza192168/inventory-supplier-management/pkg/kafka"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/metrics"
	"github.com/murtaza192168/inventory-supplier-management/pkg/mongodb"
	"github.com/murtaza192168/inventory-supplier-management/pkg/outbox"
	"github.com/murtaza192168/inventory-supplier-management/pkg/tracing"
)

type fakeMongo struct{}

func (f *fakeMongo) Database() *mongo.Database    { return nil }
func (f *fakeMongo) Close(context.Context) error  { return nil }
func (f *fakeMongo) HealthCheck(context.Context) error { return nil }
func (f *fakeMongo) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	return nil
}

type fakeProducer struct{}

func (f *fakeProducer) Close() error { return nil }

type fakeOutboxPublisher struct {
	startErr error
	stopErr  error
	started  *bool
	stopped  *bool
}

func (f *fakeOutboxPublisher) Start(context.Context) error {
	if f.started != nil {
		*f.started = true
	}
	return f.startErr
}

func (f *fakeOutboxPublisher) Stop() error {
	if f.stopped != nil {
		*f.stopped = true
	}
	return f.stopErr
}

type fakeOutboxRepo struct{}

func (f *fakeOutboxRepo) Save(context.Context, *outbox.Event) error       { return nil }
func (f *fakeOutboxRepo) SaveAll(context.Context, []*outbox.Event) error  { return nil }
func (f *fakeOutboxRepo) FindUnpublished(context.Context, int) ([]*outbox.Event, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkPublished(context.Context, string) error          { return nil }
func (f *fakeOutboxRepo) IncrementRetry(context.Context, string, string) error { return nil }
func (f *fakeOutboxRepo) FindByAggregateID(context.Context, string) ([]*outbox.Event, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) EnsureIndexes(context.Context) error { return nil }

type fakeSupplierRepo struct{}

func (f *fakeSupplierRepo) Save(context.Context, *domain.Supplier) error { return nil }
func (f *fakeSupplierRepo) FindByID(context.Context, string, string) (*domain.Supplier, error) {
	return nil, nil
}
func (f *fakeSupplierRepo) FindByNameOrContact(context.Context, string, string, string) (*domain.Supplier, error) {
	return nil, nil
}
func (f *fakeSupplierRepo) FindByBusiness(context.Context, string, domain.SupplierFilter, domain.Pagination) ([]*domain.Supplier, error) {
	return nil, nil
}
func (f *fakeSupplierRepo) Count(context.Context, string, domain.SupplierFilter) (int64, error) {
	return 0, nil
}

type fakePaymentRepo struct{}

func (f *fakePaymentRepo) Save(context.Context, *domain.SupplierPayment) error { return nil }
func (f *fakePaymentRepo) FindByID(context.Context, string, string) (*domain.SupplierPayment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) FindByInvoiceNo(context.Context, string, string, string) (*domain.SupplierPayment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) FindBySupplier(context.Context, string, string) ([]*domain.SupplierPayment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) Find(context.Context, string, domain.PaymentFilter, domain.Pagination, domain.Sort) ([]*domain.SupplierPayment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) Count(context.Context, string, domain.PaymentFilter) (int64, error) {
	return 0, nil
}
func (f *fakePaymentRepo) SumOutstandingBySupplier(context.Context, string, string) (domain.Money, error) {
	return 0, nil
}

type fakeReceiptRepo struct{}

func (f *fakeReceiptRepo) Save(context.Context, *domain.InventoryReceipt) error    { return nil }
func (f *fakeReceiptRepo) SaveAll(context.Context, []*domain.InventoryReceipt) error { return nil }
func (f *fakeReceiptRepo) FindByLineItemID(context.Context, string, string) (*domain.InventoryReceipt, error) {
	return nil, nil
}
func (f *fakeReceiptRepo) Find(context.Context, string, domain.ReceiptFilter, domain.Pagination) ([]*domain.InventoryReceipt, error) {
	return nil, nil
}
func (f *fakeReceiptRepo) Count(context.Context, string, domain.ReceiptFilter) (int64, error) {
	return 0, nil
}

func swapConstructors(t *testing.T) {
	t.Helper()

	oldMongo := newMongoClient
	oldProducer := newKafkaProducer
	oldOutboxPublisher := newOutboxPublisher
	oldOutboxRepo := newOutboxRepository
	oldSupplierRepo := newSupplierRepository
	oldPaymentRepo := newPaymentRepository
	oldReceiptRepo := newReceiptRepository
	oldInitTracing := initTracing
	oldStartHTTP := startHTTPServer

	t.Cleanup(func() {
		newMongoClient = oldMongo
		newKafkaProducer = oldProducer
		newOutboxPublisher = oldOutboxPublisher
		newOutboxRepository = oldOutboxRepo
		newSupplierRepository = oldSupplierRepo
		newPaymentRepository = oldPaymentRepo
		newReceiptRepository = oldReceiptRepo
		initTracing = oldInitTracing
		startHTTPServer = oldStartHTTP
	})

	newMongoClient = func(context.Context, *mongodb.Config) (mongoClient, error) {
		return &fakeMongo{}, nil
	}
	newKafkaProducer = func(*kafka.Config) kafkaProducer {
		return &fakeProducer{}
	}
	newOutboxPublisher = func(outbox.Repository, kafkaProducer, *logging.Logger, *metrics.Metrics, *outbox.PublisherConfig) outboxPublisher {
		return &fakeOutboxPublisher{}
	}
	newOutboxRepository = func(*mongo.Database) outboxRepository {
		return &fakeOutboxRepo{}
	}
	newSupplierRepository = func(*mongo.Database) domain.SupplierRepository {
		return &fakeSupplierRepo{}
	}
	newPaymentRepository = func(*mongo.Database) domain.PaymentRepository {
		return &fakePaymentRepo{}
	}
	newReceiptRepository = func(*mongo.Database) domain.ReceiptRepository {
		return &fakeReceiptRepo{}
	}
	initTracing = func(context.Context, *tracing.Config) (*tracing.TracerProvider, error) {
		return &tracing.TracerProvider{}, nil
	}
	startHTTPServer = func(*http.Server) error { return http.ErrServerClosed }
}

func TestRunSuccess(t *testing.T) {
	swapConstructors(t)

	started := false
	stopped := false
	newOutboxPublisher = func(outbox.Repository, kafkaProducer, *logging.Logger, *metrics.Metrics, *outbox.PublisherConfig) outboxPublisher {
		return &fakeOutboxPublisher{
			started: &started,
			stopped: &stopped,
		}
	}

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt

	err := run(context.Background(), signalCh)
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, stopped)
}

func TestRunTracingError(t *testing.T) {
	swapConstructors(t)

	initTracing = func(context.Context, *tracing.Config) (*tracing.TracerProvider, error) {
		return nil, errors.New("trace init failed")
	}

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt

	err := run(context.Background(), signalCh)
	require.NoError(t, err)
}

func TestRunMongoError(t *testing.T) {
	swapConstructors(t)

	newMongoClient = func(context.Context, *mongodb.Config) (mongoClient, error) {
		return nil, errors.New("mongo error")
	}

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt

	err := run(context.Background(), signalCh)
	assert.Error(t, err)
}

func TestRunConfigError(t *testing.T) {
	swapConstructors(t)
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt

	err := run(context.Background(), signalCh)
	assert.Error(t, err)
}

func TestRunOutboxStartError(t *testing.T) {
	swapConstructors(t)

	newOutboxPublisher = func(outbox.Repository, kafkaProducer, *logging.Logger, *metrics.Metrics, *outbox.PublisherConfig) outboxPublisher {
		return &fakeOutboxPublisher{startErr: errors.New("start failed")}
	}

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt

	err := run(context.Background(), signalCh)
	assert.Error(t, err)
}

func TestRunServerErrorLogged(t *testing.T) {
	swapConstructors(t)

	serverCalled := make(chan struct{})
	startHTTPServer = func(*http.Server) error {
		close(serverCalled)
		return errors.New("server failed")
	}

	signalCh := make(chan os.Signal, 1)
	go func() {
		<-serverCalled
		signalCh <- os.Interrupt
	}()

	err := run(context.Background(), signalCh)
	assert.NoError(t, err)
}

func TestRunWaitsForServerGoroutine(t *testing.T) {
	swapConstructors(t)

	var finished atomic.Bool
	release := make(chan struct{})
	startHTTPServer = func(*http.Server) error {
		<-release
		finished.Store(true)
		return http.ErrServerClosed
	}

	signalCh := make(chan os.Signal, 1)
	signalCh <- os.Interrupt
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	err := run(context.Background(), signalCh)
	assert.NoError(t, err)
	assert.True(t, finished.Load(), "run returned before the server goroutine finished")
}
