package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"

	"github.com/murtaza192168/inventory-supplier-management/pkg/metrics"
	"github.com/murtaza192168/inventory-supplier-management/pkg/tracing"
)

// SessionClient starts MongoDB transactions.
type SessionClient interface {
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error
}

// TransactionManager runs service operations inside a MongoDB
// transaction so payment, supplier, receipt and outbox writes commit
// atomically.
type TransactionManager struct {
	client  SessionClient
	metrics *metrics.Metrics
}

// NewTransactionManager creates a new TransactionManager
func NewTransactionManager(client SessionClient, m *metrics.Metrics) *TransactionManager {
	return &TransactionManager{client: client, metrics: m}
}

// Execute runs fn inside a transaction. The session context passed to fn
// must be used for every repository call made within it.
func (t *TransactionManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	tracer := otel.Tracer("mongodb-transaction")
	return tracing.TracedOperation(ctx, tracer, "ledger.transaction", func(ctx context.Context) error {
		start := time.Now()
		err := t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			return fn(sessCtx)
		})
		if t.metrics != nil {
			t.metrics.RecordMongoDBOperation("ledger", "transaction", err == nil, time.Since(start))
		}
		return err
	})
}
