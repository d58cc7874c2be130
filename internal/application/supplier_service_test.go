package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	apperrors "github.com/murtaza192168/inventory-supplier-management/pkg/errors"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/outbox"
)

func newSupplierService(supplierRepo domain.SupplierRepository, outboxRepo outbox.Repository) *SupplierService {
	return NewSupplierService(supplierRepo, outboxRepo, testTopics(), testLogger())
}

func TestCreateSupplierSuccess(t *testing.T) {
	var saved *domain.Supplier
	var savedEvent *outbox.Event

	supplierRepo := &fakeSupplierRepo{
		saveFn: func(_ context.Context, s *domain.Supplier) error {
			saved = s
			return nil
		},
	}
	outboxRepo := &fakeOutboxRepo{
		saveFn: func(_ context.Context, evt *outbox.Event) error {
			savedEvent = evt
			return nil
		},
	}

	service := newSupplierService(supplierRepo, outboxRepo)

	dto, err := service.CreateSupplier(context.Background(), CreateSupplierCommand{
		BusinessID: "BIZ-001",
		Name:       "Ravi Traders",
		Contact:    "9876543210",
		GSTIN:      "27AAPFU0939F1ZV",
	})
	require.NoError(t, err)
	require.NotNil(t, dto)
	require.NotNil(t, saved)

	assert.Equal(t, saved.SupplierID, dto.SupplierID)
	assert.Equal(t, "Ravi Traders", dto.Name)
	assert.Equal(t, domain.Money(0), saved.BalanceAmount)
	assert.Empty(t, saved.DomainEvents())

	require.NotNil(t, savedEvent)
	assert.Equal(t, "ledger.supplier.created", savedEvent.EventType)
	assert.Equal(t, "ledger.suppliers.events", savedEvent.Topic)
	assert.Equal(t, saved.SupplierID, savedEvent.PartitionKey)
}

func TestCreateSupplierDuplicate(t *testing.T) {
	existing := domain.NewSupplier("BIZ-001", "Ravi Traders", "9876543210", "")
	supplierRepo := &fakeSupplierRepo{
		findByNameOrContactFn: func(_ context.Context, _, name, contact string) (*domain.Supplier, error) {
			assert.Equal(t, "Ravi Traders", name)
			assert.Equal(t, "9876543210", contact)
			return existing, nil
		},
	}

	service := newSupplierService(supplierRepo, &fakeOutboxRepo{})

	_, err := service.CreateSupplier(context.Background(), CreateSupplierCommand{
		BusinessID: "BIZ-001",
		Name:       "Ravi Traders",
		Contact:    "9876543210",
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestCreateSupplierSaveError(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{
		saveFn: func(_ context.Context, _ *domain.Supplier) error {
			return errors.New("db error")
		},
	}

	service := newSupplierService(supplierRepo, &fakeOutboxRepo{})

	_, err := service.CreateSupplier(context.Background(), CreateSupplierCommand{
		BusinessID: "BIZ-001",
		Name:       "Ravi Traders",
		Contact:    "9876543210",
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeDatabaseError, appErr.Code)
}

func TestCreateSupplierOutboxFailureTolerated(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{}
	outboxRepo := &fakeOutboxRepo{
		saveFn: func(_ context.Context, _ *outbox.Event) error {
			return errors.New("outbox down")
		},
	}

	service := newSupplierService(supplierRepo, outboxRepo)

	dto, err := service.CreateSupplier(context.Background(), CreateSupplierCommand{
		BusinessID: "BIZ-001",
		Name:       "Ravi Traders",
		Contact:    "9876543210",
	})
	require.NoError(t, err)
	require.NotNil(t, dto)
}

func TestGetSupplierNotFound(t *testing.T) {
	service := newSupplierService(&fakeSupplierRepo{}, &fakeOutboxRepo{})

	_, err := service.GetSupplier(context.Background(), "BIZ-001", "SUP-404")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListSuppliers(t *testing.T) {
	supplier := domain.NewSupplier("BIZ-001", "Ravi Traders", "9876543210", "")

	var gotFilter domain.SupplierFilter
	supplierRepo := &fakeSupplierRepo{
		findByBusinessFn: func(_ context.Context, _ string, filter domain.SupplierFilter, _ domain.Pagination) ([]*domain.Supplier, error) {
			gotFilter = filter
			return []*domain.Supplier{supplier}, nil
		},
		countFn: func(_ context.Context, _ string, _ domain.SupplierFilter) (int64, error) {
			return 1, nil
		},
	}

	service := newSupplierService(supplierRepo, &fakeOutboxRepo{})

	result, err := service.ListSuppliers(context.Background(), ListSuppliersQuery{
		BusinessID: "BIZ-001",
		Search:     "Ravi",
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, int64(1), result.TotalItems)
	require.NotNil(t, gotFilter.Search)
	assert.Equal(t, "Ravi", *gotFilter.Search)
}

func TestListSuppliersRepoError(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{
		findByBusinessFn: func(_ context.Context, _ string, _ domain.SupplierFilter, _ domain.Pagination) ([]*domain.Supplier, error) {
			return nil, errors.New("repo error")
		},
	}

	service := newSupplierService(supplierRepo, &fakeOutboxRepo{})

	_, err := service.ListSuppliers(context.Background(), ListSuppliersQuery{
		BusinessID: "BIZ-001",
		Page:       1,
		PageSize:   20,
	})
	assert.Error(t, err)
}

func TestUpdateSupplier(t *testing.T) {
	supplier := domain.NewSupplier("BIZ-001", "Ravi Traders", "9876543210", "")
	supplier.ClearDomainEvents()

	var saved *domain.Supplier
	supplierRepo := &fakeSupplierRepo{
		findByIDFn: func(_ context.Context, _, _ string) (*domain.Supplier, error) {
			return supplier, nil
		},
		saveFn: func(_ context.Context, s *domain.Supplier) error {
			saved = s
			return nil
		},
	}

	service := newSupplierService(supplierRepo, &fakeOutboxRepo{})

	dto, err := service.UpdateSupplier(context.Background(), UpdateSupplierCommand{
		BusinessID: "BIZ-001",
		SupplierID: supplier.SupplierID,
		Contact:    "9000000000",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	// Untouched fields keep their values
	assert.Equal(t, "Ravi Traders", saved.Name)
	assert.Equal(t, "9000000000", saved.Contact)
	assert.Equal(t, "9000000000", dto.Contact)
}

func TestUpdateSupplierNotFound(t *testing.T) {
	service := newSupplierService(&fakeSupplierRepo{}, &fakeOutboxRepo{})

	_, err := service.UpdateSupplier(context.Background(), UpdateSupplierCommand{
		BusinessID: "BIZ-001",
		SupplierID: "SUP-404",
		Contact:    "9000000000",
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCreateSupplierLogsBusinessEvent(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig("ledger-test")
	cfg.Output = &buf
	logger := logging.New(cfg)

	supplierRepo := &fakeSupplierRepo{}
	service := NewSupplierService(supplierRepo, &fakeOutboxRepo{}, testTopics(), logger)

	_, err := service.CreateSupplier(context.Background(), CreateSupplierCommand{
		BusinessID: "BIZ-001",
		Name:       "Ravi Traders",
		Contact:    "9876543210",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"eventType":"supplier.created"`)
	assert.Contains(t, out, `"name":"Ravi Traders"`)
}
