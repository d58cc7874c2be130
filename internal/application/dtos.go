package application

import (
	"time"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
)

// LineItemRequest carries one received product entry in a posting.
// Prices arrive as rupee decimals and are held in paise internally.
type LineItemRequest struct {
	ProductName   string       `json:"productName" binding:"required,safe_string"`
	Quantity      float64      `json:"quantity" binding:"required,gt=0"`
	Unit          string       `json:"unit" binding:"required"`
	PurchasePrice domain.Money `json:"purchasePrice" binding:"required,gt=0"`
	GSTSlab       int64        `json:"gstSlab" binding:"gst_slab"`
	GoodsWithGST  bool         `json:"goodsWithGst"`
}

// PostPaymentCommand represents a payment posting against an invoice
// number. BusinessID comes from the request context, never the body.
type PostPaymentCommand struct {
	BusinessID string `json:"-"`

	SupplierID  string            `json:"supplierId" binding:"required"`
	InvoiceNo   string            `json:"invoiceNo" binding:"required,invoice_no"`
	Items       []LineItemRequest `json:"items" binding:"omitempty,dive"`
	AmountPaid  domain.Money      `json:"amountPaid" binding:"gte=0"`
	PaymentMode string            `json:"paymentMode" binding:"omitempty,payment_mode"`
	PaymentNote string            `json:"paymentNote" binding:"omitempty,safe_string"`
	PaymentDate *time.Time        `json:"paymentDate"`
}

// ReviseLineItemCommand corrects a posted line item's quantity or price
type ReviseLineItemCommand struct {
	BusinessID string `json:"-"`
	PaymentID  string `json:"-"`
	LineItemID string `json:"-"`

	NewQuantity  *float64      `json:"newQuantity" binding:"omitempty,gt=0"`
	NewUnitPrice *domain.Money `json:"newUnitPrice" binding:"omitempty,gt=0"`
}

// ListPaymentsQuery represents the payment list filters
type ListPaymentsQuery struct {
	BusinessID string

	SupplierID   string
	SupplierName string
	PaymentMode  string
	Status       string
	ProductName  string
	MinAmount    *domain.Money
	MaxAmount    *domain.Money
	FromDate     *time.Time
	ToDate       *time.Time

	Page     int64
	PageSize int64
	SortBy   string
	SortAsc  bool
}

// CreateSupplierCommand registers a supplier
type CreateSupplierCommand struct {
	BusinessID string `json:"-"`

	Name    string `json:"name" binding:"required,safe_string"`
	Contact string `json:"contact" binding:"required"`
	GSTIN   string `json:"gstin" binding:"omitempty,len=15"`
}

// UpdateSupplierCommand updates contact details. The balance is
// ledger-owned and cannot be set here.
type UpdateSupplierCommand struct {
	BusinessID string `json:"-"`
	SupplierID string `json:"-"`

	Name    string `json:"name" binding:"omitempty,safe_string"`
	Contact string `json:"contact"`
	GSTIN   string `json:"gstin" binding:"omitempty,len=15"`
}

// ListSuppliersQuery represents the supplier list filters
type ListSuppliersQuery struct {
	BusinessID string
	Search     string
	Page       int64
	PageSize   int64
}

// ListReceiptsQuery represents the inventory receipt list filters
type ListReceiptsQuery struct {
	BusinessID string

	SupplierID  string
	PaymentID   string
	ProductName string
	FromDate    *time.Time
	ToDate      *time.Time

	Page     int64
	PageSize int64
}

// DTOs

// LineItemDTO represents a line item response
type LineItemDTO struct {
	ID            string       `json:"id"`
	ProductName   string       `json:"productName"`
	Quantity      float64      `json:"quantity"`
	Unit          string       `json:"unit"`
	PurchasePrice domain.Money `json:"purchasePrice"`
	GSTSlab       int64        `json:"gstSlab"`
	GoodsWithGST  bool         `json:"goodsWithGst"`
	TotalCost     domain.Money `json:"totalCost"`
}

// PaymentDTO represents a payment record response
type PaymentDTO struct {
	PaymentID        string        `json:"paymentId"`
	BusinessID       string        `json:"businessId"`
	SupplierID       string        `json:"supplierId"`
	InvoiceNo        string        `json:"invoiceNo"`
	LineItems        []LineItemDTO `json:"lineItems"`
	AmountPaid       domain.Money  `json:"amountPaid"`
	RemainingBalance domain.Money  `json:"remainingBalance"`
	PaymentMode      string        `json:"paymentMode,omitempty"`
	PaymentNote      string        `json:"paymentNote,omitempty"`
	PaymentDate      *time.Time    `json:"paymentDate,omitempty"`
	Status           string        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// PaymentListResponse represents paginated payments
type PaymentListResponse struct {
	Data       []PaymentDTO `json:"data"`
	Page       int64        `json:"page"`
	PageSize   int64        `json:"pageSize"`
	TotalItems int64        `json:"totalItems"`
}

// SupplierDTO represents a supplier response
type SupplierDTO struct {
	SupplierID    string       `json:"supplierId"`
	BusinessID    string       `json:"businessId"`
	Name          string       `json:"name"`
	Contact       string       `json:"contact"`
	GSTIN         string       `json:"gstin,omitempty"`
	BalanceAmount domain.Money `json:"balanceAmount"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// BalanceAuditDTO reports a supplier balance cross-check: the recorded
// balance on the supplier against the sum of outstanding payment balances
type BalanceAuditDTO struct {
	SupplierID      string       `json:"supplierId"`
	RecordedBalance domain.Money `json:"recordedBalance"`
	LedgerBalance   domain.Money `json:"ledgerBalance"`
	Drift           domain.Money `json:"drift"`
	Consistent      bool         `json:"consistent"`
}

// SupplierListResponse represents paginated suppliers
type SupplierListResponse struct {
	Data       []SupplierDTO `json:"data"`
	Page       int64         `json:"page"`
	PageSize   int64         `json:"pageSize"`
	TotalItems int64         `json:"totalItems"`
}

// ReceiptDTO represents an inventory receipt response
type ReceiptDTO struct {
	ReceiptID   string       `json:"receiptId"`
	SupplierID  string       `json:"supplierId"`
	PaymentID   string       `json:"paymentId"`
	LineItemID  string       `json:"lineItemId"`
	ProductName string       `json:"productName"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit"`
	UnitPrice   domain.Money `json:"unitPrice"`
	TotalCost   domain.Money `json:"totalCost"`
	ReceivedAt  time.Time    `json:"receivedAt"`
}

// ReceiptListResponse represents paginated receipts
type ReceiptListResponse struct {
	Data       []ReceiptDTO `json:"data"`
	Page       int64        `json:"page"`
	PageSize   int64        `json:"pageSize"`
	TotalItems int64        `json:"totalItems"`
}

// Conversion functions

// ToLineItemDTO converts a domain line item to DTO
func ToLineItemDTO(li domain.LineItem) LineItemDTO {
	return LineItemDTO{
		ID:            li.ID,
		ProductName:   li.ProductName,
		Quantity:      li.Quantity,
		Unit:          li.Unit,
		PurchasePrice: li.PurchasePrice,
		GSTSlab:       int64(li.GSTSlab),
		GoodsWithGST:  li.GoodsWithGST,
		TotalCost:     li.TotalCost,
	}
}

// ToPaymentDTO converts a domain payment to DTO
func ToPaymentDTO(p *domain.SupplierPayment) *PaymentDTO {
	items := make([]LineItemDTO, len(p.LineItems))
	for i, li := range p.LineItems {
		items[i] = ToLineItemDTO(li)
	}

	return &PaymentDTO{
		PaymentID:        p.PaymentID,
		BusinessID:       p.BusinessID,
		SupplierID:       p.SupplierID,
		InvoiceNo:        p.InvoiceNo,
		LineItems:        items,
		AmountPaid:       p.AmountPaid,
		RemainingBalance: p.RemainingBalance,
		PaymentMode:      string(p.PaymentMode),
		PaymentNote:      p.PaymentNote,
		PaymentDate:      p.PaymentDate,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToSupplierDTO converts a domain supplier to DTO
func ToSupplierDTO(s *domain.Supplier) *SupplierDTO {
	return &SupplierDTO{
		SupplierID:    s.SupplierID,
		BusinessID:    s.BusinessID,
		Name:          s.Name,
		Contact:       s.Contact,
		GSTIN:         s.GSTIN,
		BalanceAmount: s.BalanceAmount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToReceiptDTO converts a domain receipt to DTO
func ToReceiptDTO(r *domain.InventoryReceipt) *ReceiptDTO {
	return &ReceiptDTO{
		ReceiptID:   r.ReceiptID,
		SupplierID:  r.SupplierID,
		PaymentID:   r.PaymentID,
		LineItemID:  r.LineItemID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		UnitPrice:   r.UnitPrice,
		TotalCost:   r.TotalCost,
		ReceivedAt:  r.ReceivedAt,
	}
}
