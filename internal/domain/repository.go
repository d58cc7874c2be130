package domain

import (
	"context"
	"errors"
	"time"
)

// ErrVersionConflict is returned by Save when the stored record's
// version moved since it was read. Callers retry the whole operation.
var ErrVersionConflict = errors.New("record was modified concurrently")

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// Save persists a supplier. For existing suppliers the write is
	// version-checked and fails with ErrVersionConflict on a lost race.
	Save(ctx context.Context, supplier *Supplier) error

	// FindByID retrieves a supplier by its id within a business
	FindByID(ctx context.Context, businessID, supplierID string) (*Supplier, error)

	// FindByNameOrContact looks for an existing supplier with the same
	// name or contact, used for duplicate detection
	FindByNameOrContact(ctx context.Context, businessID, name, contact string) (*Supplier, error)

	// FindByBusiness retrieves suppliers for a business
	FindByBusiness(ctx context.Context, businessID string, filter SupplierFilter, pagination Pagination) ([]*Supplier, error)

	// Count returns total count matching filter
	Count(ctx context.Context, businessID string, filter SupplierFilter) (int64, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Save persists a payment record, version-checked on update
	Save(ctx context.Context, payment *SupplierPayment) error

	// FindByID retrieves a payment by its id within a business
	FindByID(ctx context.Context, businessID, paymentID string) (*SupplierPayment, error)

	// FindByInvoiceNo retrieves the payment for an invoice number, or
	// nil when no record exists yet
	FindByInvoiceNo(ctx context.Context, businessID, supplierID, invoiceNo string) (*SupplierPayment, error)

	// FindBySupplier retrieves all non-reversed payments for a supplier
	FindBySupplier(ctx context.Context, businessID, supplierID string) ([]*SupplierPayment, error)

	// Find retrieves payments matching the filter
	Find(ctx context.Context, businessID string, filter PaymentFilter, pagination Pagination, sort Sort) ([]*SupplierPayment, error)

	// Count returns total count matching filter
	Count(ctx context.Context, businessID string, filter PaymentFilter) (int64, error)

	// SumOutstandingBySupplier totals the remaining balance across all
	// non-reversed payments of a supplier
	SumOutstandingBySupplier(ctx context.Context, businessID, supplierID string) (Money, error)
}

// ReceiptRepository defines the interface for inventory receipt persistence
type ReceiptRepository interface {
	// Save persists a receipt
	Save(ctx context.Context, receipt *InventoryReceipt) error

	// SaveAll persists multiple receipts
	SaveAll(ctx context.Context, receipts []*InventoryReceipt) error

	// FindByLineItemID retrieves the receipt snapshotting a line item
	FindByLineItemID(ctx context.Context, businessID, lineItemID string) (*InventoryReceipt, error)

	// Find retrieves receipts matching the filter
	Find(ctx context.Context, businessID string, filter ReceiptFilter, pagination Pagination) ([]*InventoryReceipt, error)

	// Count returns total count matching filter
	Count(ctx context.Context, businessID string, filter ReceiptFilter) (int64, error)
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// Sort represents sort options for list queries
type Sort struct {
	Field     string
	Ascending bool
}

// DefaultSort sorts newest first by payment date
func DefaultSort() Sort {
	return Sort{Field: "paymentDate", Ascending: false}
}

// PaymentFilter represents filter options for querying payments.
// SupplierIDs carries the resolved ids when callers filter by supplier
// name; resolution happens above the repository.
type PaymentFilter struct {
	SupplierID   *string
	SupplierIDs  []string
	InvoiceNo    *string
	PaymentMode  *PaymentMode
	Status       *PaymentStatus
	ProductName  *string
	MinAmount    *Money
	MaxAmount    *Money
	FromDate     *time.Time
	ToDate       *time.Time
}

// SupplierFilter represents filter options for querying suppliers
type SupplierFilter struct {
	Search *string
}

// ReceiptFilter represents filter options for querying receipts
type ReceiptFilter struct {
	SupplierID  *string
	PaymentID   *string
	ProductName *string
	FromDate    *time.Time
	ToDate      *time.Time
}
