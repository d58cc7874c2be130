package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/murtaza192168/inventory-supplier-management/internal/application"
	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
)

func newSupplierHandler(supplierRepo domain.SupplierRepository, paymentRepo domain.PaymentRepository) *SupplierHandler {
	supplierService := application.NewSupplierService(supplierRepo, &fakeOutboxRepo{}, testTopics(), testLogger())
	ledgerService := newLedgerService(supplierRepo, paymentRepo, &fakeReceiptRepo{})
	return NewSupplierHandler(supplierService, ledgerService, testLogger())
}

func TestSupplierHandlerCreateSupplier(t *testing.T) {
	handler := newSupplierHandler(&fakeSupplierRepo{}, &fakePaymentRepo{})

	router := newTestRouter()
	router.POST("/api/v1/suppliers", handler.CreateSupplier)

	rec := makeRequest(router, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
		"name":    "Ravi Traders",
		"contact": "9876543210",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data application.SupplierDTO `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testBusinessID, resp.Data.BusinessID)
	assert.NotEmpty(t, resp.Data.SupplierID)

	rec = makeRequest(router, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
		"name": "Ravi Traders",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierHandlerCreateSupplierDuplicate(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{
		findByNameOrContactFn: func(_ context.Context, _, _, _ string) (*domain.Supplier, error) {
			return testSupplier(0), nil
		},
	}
	handler := newSupplierHandler(supplierRepo, &fakePaymentRepo{})

	router := newTestRouter()
	router.POST("/api/v1/suppliers", handler.CreateSupplier)

	rec := makeRequest(router, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
		"name":    "Ravi Traders",
		"contact": "9876543210",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSupplierHandlerGetSupplier(t *testing.T) {
	supplier := testSupplier(620)
	supplierRepo := &fakeSupplierRepo{
		findByIDFn: func(_ context.Context, _, supplierID string) (*domain.Supplier, error) {
			if supplierID == supplier.SupplierID {
				return supplier, nil
			}
			return nil, nil
		},
	}
	handler := newSupplierHandler(supplierRepo, &fakePaymentRepo{})

	router := newTestRouter()
	router.GET("/api/v1/suppliers/:supplierId", handler.GetSupplier)

	rec := makeRequest(router, http.MethodGet, "/api/v1/suppliers/"+supplier.SupplierID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = makeRequest(router, http.MethodGet, "/api/v1/suppliers/SUP-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierHandlerListSuppliers(t *testing.T) {
	var capturedSearch *string
	supplierRepo := &fakeSupplierRepo{
		findByBusinessFn: func(_ context.Context, _ string, filter domain.SupplierFilter, _ domain.Pagination) ([]*domain.Supplier, error) {
			capturedSearch = filter.Search
			return []*domain.Supplier{testSupplier(0)}, nil
		},
		countFn: func(context.Context, string, domain.SupplierFilter) (int64, error) {
			return 1, nil
		},
	}
	handler := newSupplierHandler(supplierRepo, &fakePaymentRepo{})

	router := newTestRouter()
	router.GET("/api/v1/suppliers", handler.ListSuppliers)

	rec := makeRequest(router, http.MethodGet, "/api/v1/suppliers?search=Ravi&page=2&pageSize=10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, capturedSearch)
	assert.Equal(t, "Ravi", *capturedSearch)

	var resp application.SupplierListResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TotalItems)
	assert.Equal(t, int64(2), resp.Page)
}

func TestSupplierHandlerListSuppliersError(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{
		findByBusinessFn: func(context.Context, string, domain.SupplierFilter, domain.Pagination) ([]*domain.Supplier, error) {
			return nil, assert.AnError
		},
	}
	handler := newSupplierHandler(supplierRepo, &fakePaymentRepo{})

	router := newTestRouter()
	router.GET("/api/v1/suppliers", handler.ListSuppliers)

	rec := makeRequest(router, http.MethodGet, "/api/v1/suppliers", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSupplierHandlerUpdateSupplier(t *testing.T) {
	supplier := testSupplier(0)
	supplierRepo := &fakeSupplierRepo{
		findByIDFn: func(_ context.Context, _, supplierID string) (*domain.Supplier, error) {
			if supplierID == supplier.SupplierID {
				return supplier, nil
			}
			return nil, nil
		},
	}
	handler := newSupplierHandler(supplierRepo, &fakePaymentRepo{})

	router := newTestRouter()
	router.PUT("/api/v1/suppliers/:supplierId", handler.UpdateSupplier)

	rec := makeRequest(router, http.MethodPut, "/api/v1/suppliers/"+supplier.SupplierID, map[string]interface{}{
		"contact": "9000000000",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data application.SupplierDTO `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "9000000000", resp.Data.Contact)

	rec = makeRequest(router, http.MethodPut, "/api/v1/suppliers/SUP-404", map[string]interface{}{
		"contact": "9000000000",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierHandlerListSupplierPayments(t *testing.T) {
	supplier := testSupplier(620)
	supplierRepo := &fakeSupplierRepo{
		findByIDFn: func(_ context.Context, _, supplierID string) (*domain.Supplier, error) {
			if supplierID == supplier.SupplierID {
				return supplier, nil
			}
			return nil, nil
		},
	}
	paymentRepo := &fakePaymentRepo{
		findBySupplierFn: func(_ context.Context, _, _ string) ([]*domain.SupplierPayment, error) {
			return []*domain.SupplierPayment{{PaymentID: "PAY-001", SupplierID: supplier.SupplierID}}, nil
		},
	}
	handler := newSupplierHandler(supplierRepo, paymentRepo)

	router := newTestRouter()
	router.GET("/api/v1/suppliers/:supplierId/payments", handler.ListSupplierPayments)

	rec := makeRequest(router, http.MethodGet, "/api/v1/suppliers/"+supplier.SupplierID+"/payments", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = makeRequest(router, http.MethodGet, "/api/v1/suppliers/SUP-404/payments", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierHandlerAuditBalance(t *testing.T) {
	supplier := testSupplier(620)
	supplierRepo := &fakeSupplierRepo{
		findByIDFn: func(_ context.Context, _, supplierID string) (*domain.Supplier, error) {
			if supplierID == supplier.SupplierID {
				return supplier, nil
			}
			return nil, nil
		},
	}
	paymentRepo := &fakePaymentRepo{
		sumOutstandingFn: func(_ context.Context, _, _ string) (domain.Money, error) {
			return domain.MoneyFromRupees(500), nil
		},
	}
	handler := newSupplierHandler(supplierRepo, paymentRepo)

	router := newTestRouter()
	router.GET("/api/v1/suppliers/:supplierId/balance/audit", handler.AuditSupplierBalance)

	rec := makeRequest(router, http.MethodGet, "/api/v1/suppliers/"+supplier.SupplierID+"/balance/audit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data application.BalanceAuditDTO `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Consistent)
	assert.Equal(t, domain.MoneyFromRupees(120), resp.Data.Drift)

	rec = makeRequest(router, http.MethodGet, "/api/v1/suppliers/SUP-404/balance/audit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
