package domain

import "time"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// PaymentPostedEvent is emitted when a new payment record is created
type PaymentPostedEvent struct {
	PaymentID        string      `json:"paymentId"`
	BusinessID       string      `json:"businessId"`
	SupplierID       string      `json:"supplierId"`
	InvoiceNo        string      `json:"invoiceNo"`
	ItemCount        int         `json:"itemCount"`
	ItemsTotal       Money       `json:"itemsTotal"`
	AmountPaid       Money       `json:"amountPaid"`
	RemainingBalance Money       `json:"remainingBalance"`
	PaymentMode      PaymentMode `json:"paymentMode"`
	PostedAt         time.Time   `json:"postedAt"`
}

func (e *PaymentPostedEvent) EventType() string     { return "ledger.payment.posted" }
func (e *PaymentPostedEvent) OccurredAt() time.Time { return e.PostedAt }

// PaymentMergedEvent is emitted when a further posting merges into an
// existing payment record for the same invoice number
type PaymentMergedEvent struct {
	PaymentID        string    `json:"paymentId"`
	BusinessID       string    `json:"businessId"`
	SupplierID       string    `json:"supplierId"`
	InvoiceNo        string    `json:"invoiceNo"`
	ItemCount        int       `json:"itemCount"`
	ItemsTotal       Money     `json:"itemsTotal"`
	AmountPaid       Money     `json:"amountPaid"`
	RemainingBalance Money     `json:"remainingBalance"`
	MergedAt         time.Time `json:"mergedAt"`
}

func (e *PaymentMergedEvent) EventType() string     { return "ledger.payment.merged" }
func (e *PaymentMergedEvent) OccurredAt() time.Time { return e.MergedAt }

// LineItemRevisedEvent is emitted when a line item's quantity or price
// is corrected
type LineItemRevisedEvent struct {
	PaymentID        string    `json:"paymentId"`
	BusinessID       string    `json:"businessId"`
	SupplierID       string    `json:"supplierId"`
	LineItemID       string    `json:"lineItemId"`
	OldTotalCost     Money     `json:"oldTotalCost"`
	NewTotalCost     Money     `json:"newTotalCost"`
	Delta            Money     `json:"delta"`
	RemainingBalance Money     `json:"remainingBalance"`
	RevisedAt        time.Time `json:"revisedAt"`
}

func (e *LineItemRevisedEvent) EventType() string     { return "ledger.payment.line_item_revised" }
func (e *LineItemRevisedEvent) OccurredAt() time.Time { return e.RevisedAt }

// PaymentReversedEvent is emitted when a payment record is reversed
type PaymentReversedEvent struct {
	PaymentID       string    `json:"paymentId"`
	BusinessID      string    `json:"businessId"`
	SupplierID      string    `json:"supplierId"`
	InvoiceNo       string    `json:"invoiceNo"`
	ReversedBalance Money     `json:"reversedBalance"`
	ReversedAt      time.Time `json:"reversedAt"`
}

func (e *PaymentReversedEvent) EventType() string     { return "ledger.payment.reversed" }
func (e *PaymentReversedEvent) OccurredAt() time.Time { return e.ReversedAt }

// InventoryReceiptRecordedEvent is emitted for each line item received,
// feeding stock-on-hand consumers
type InventoryReceiptRecordedEvent struct {
	ReceiptID   string    `json:"receiptId"`
	BusinessID  string    `json:"businessId"`
	SupplierID  string    `json:"supplierId"`
	PaymentID   string    `json:"paymentId"`
	LineItemID  string    `json:"lineItemId"`
	ProductName string    `json:"productName"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	TotalCost   Money     `json:"totalCost"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

func (e *InventoryReceiptRecordedEvent) EventType() string     { return "ledger.inventory.receipt_recorded" }
func (e *InventoryReceiptRecordedEvent) OccurredAt() time.Time { return e.ReceivedAt }

// SupplierCreatedEvent is emitted when a supplier is registered
type SupplierCreatedEvent struct {
	SupplierID string    `json:"supplierId"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *SupplierCreatedEvent) EventType() string     { return "ledger.supplier.created" }
func (e *SupplierCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// SupplierBalanceAdjustedEvent is emitted whenever a ledger operation
// moves a supplier's outstanding balance
type SupplierBalanceAdjustedEvent struct {
	SupplierID string    `json:"supplierId"`
	BusinessID string    `json:"businessId"`
	Delta      Money     `json:"delta"`
	NewBalance Money     `json:"newBalance"`
	Reason     string    `json:"reason"`
	AdjustedAt time.Time `json:"adjustedAt"`
}

func (e *SupplierBalanceAdjustedEvent) EventType() string     { return "ledger.supplier.balance_adjusted" }
func (e *SupplierBalanceAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }
