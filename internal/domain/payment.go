package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the payment aggregate
var (
	ErrInvalidInvoiceNo    = errors.New("invoice number must match the NNNN/YY-YY fiscal-year format")
	ErrInvalidPaymentMode  = errors.New("invalid payment mode")
	ErrNegativeAmountPaid  = errors.New("amount paid cannot be negative")
	ErrPaymentDateRequired = errors.New("a payment date is required when an amount is paid")
	ErrOverpayment         = errors.New("amount paid exceeds the supplier's outstanding balance")
	ErrPaymentReversed     = errors.New("payment has been reversed and can no longer change")
	ErrLineItemNotFound    = errors.New("line item not found on this payment")
)

// invoiceNoPattern pins the invoice number to a four-digit serial over
// a two-digit fiscal-year span, e.g. 0042/24-25.
var invoiceNoPattern = regexp.MustCompile(`^\d{4}/\d{2}-\d{2}$`)

// ValidateInvoiceNo checks the invoice number against the canonical format
func ValidateInvoiceNo(invoiceNo string) error {
	if !invoiceNoPattern.MatchString(invoiceNo) {
		return ErrInvalidInvoiceNo
	}
	return nil
}

// PaymentMode represents how a payment was made
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeCheque       PaymentMode = "Cheque"
	PaymentModeBankTransfer PaymentMode = "Bank_Transfer"
	PaymentModeUPI          PaymentMode = "UPI"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer, PaymentModeUPI:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of a payment record
type PaymentStatus string

const (
	PaymentStatusOpen     PaymentStatus = "open"
	PaymentStatusSettled  PaymentStatus = "settled"
	PaymentStatusReversed PaymentStatus = "reversed"
)

// PaymentMeta carries the payment metadata supplied with a posting.
// Empty fields preserve prior values when merging.
type PaymentMeta struct {
	Mode PaymentMode
	Note string
	Date *time.Time
}

// SupplierPayment is the invoice record of the ledger: line items
// received against an invoice number plus the cumulative amount paid.
// RemainingBalance is derived whenever items or amountPaid change,
// never edited independently.
type SupplierPayment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PaymentID string             `bson:"paymentId" json:"paymentId"`

	BusinessID string `bson:"businessId" json:"businessId"`
	SupplierID string `bson:"supplierId" json:"supplierId"`
	InvoiceNo  string `bson:"invoiceNo" json:"invoiceNo"`

	LineItems []LineItem `bson:"lineItems" json:"lineItems"`

	AmountPaid       Money `bson:"amountPaid" json:"amountPaid"`
	RemainingBalance Money `bson:"remainingBalance" json:"remainingBalance"`

	PaymentMode PaymentMode `bson:"paymentMode" json:"paymentMode"`
	PaymentNote string      `bson:"paymentNote,omitempty" json:"paymentNote,omitempty"`
	PaymentDate *time.Time  `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`

	Status PaymentStatus `bson:"status" json:"status"`

	// Version guards concurrent merges and revisions
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewSupplierPayment creates the first payment record for an invoice
// number. Line items must already be validated and costed.
func NewSupplierPayment(
	businessID, supplierID, invoiceNo string,
	items []LineItem,
	amountPaid Money,
	meta PaymentMeta,
) (*SupplierPayment, error) {
	if err := ValidateInvoiceNo(invoiceNo); err != nil {
		return nil, err
	}
	if err := validatePaymentInput(amountPaid, meta); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	itemsTotal := itemsTotal(items)

	// ID stays zero until the repository inserts the document.
	payment := &SupplierPayment{
		PaymentID:        fmt.Sprintf("PAY-%s", uuid.New().String()[:8]),
		BusinessID:       businessID,
		SupplierID:       supplierID,
		InvoiceNo:        invoiceNo,
		LineItems:        items,
		AmountPaid:       amountPaid,
		RemainingBalance: itemsTotal - amountPaid,
		PaymentMode:      meta.Mode,
		PaymentNote:      meta.Note,
		PaymentDate:      meta.Date,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
		domainEvents:     make([]DomainEvent, 0),
	}
	payment.recomputeStatus()

	payment.addDomainEvent(&PaymentPostedEvent{
		PaymentID:        payment.PaymentID,
		BusinessID:       businessID,
		SupplierID:       supplierID,
		InvoiceNo:        invoiceNo,
		ItemCount:        len(items),
		ItemsTotal:       itemsTotal,
		AmountPaid:       amountPaid,
		RemainingBalance: payment.RemainingBalance,
		PaymentMode:      meta.Mode,
		PostedAt:         now,
	})

	return payment, nil
}

// Merge folds a further posting for the same invoice number into this
// record: line items are appended, the paid amount accumulates, and the
// remaining balance absorbs both sides. Non-empty metadata overwrites.
func (p *SupplierPayment) Merge(items []LineItem, amountPaid Money, meta PaymentMeta) error {
	if p.Status == PaymentStatusReversed {
		return ErrPaymentReversed
	}
	if err := validatePaymentInput(amountPaid, meta); err != nil {
		return err
	}

	now := time.Now().UTC()
	newTotal := itemsTotal(items)

	p.LineItems = append(p.LineItems, items...)
	p.AmountPaid += amountPaid
	p.RemainingBalance += newTotal - amountPaid

	if meta.Mode != "" {
		p.PaymentMode = meta.Mode
	}
	if meta.Note != "" {
		p.PaymentNote = meta.Note
	}
	if meta.Date != nil {
		p.PaymentDate = meta.Date
	}

	p.UpdatedAt = now
	p.recomputeStatus()

	p.addDomainEvent(&PaymentMergedEvent{
		PaymentID:        p.PaymentID,
		BusinessID:       p.BusinessID,
		SupplierID:       p.SupplierID,
		InvoiceNo:        p.InvoiceNo,
		ItemCount:        len(items),
		ItemsTotal:       newTotal,
		AmountPaid:       amountPaid,
		RemainingBalance: p.RemainingBalance,
		MergedAt:         now,
	})

	return nil
}

// ReviseItem recomputes one line item's total with an overridden
// quantity or price, applies the delta to the remaining balance, and
// returns it so the caller can apply the same delta to the supplier.
func (p *SupplierPayment) ReviseItem(lineItemID string, newQuantity *float64, newUnitPrice *Money) (Money, error) {
	if p.Status == PaymentStatusReversed {
		return 0, ErrPaymentReversed
	}

	item := p.FindLineItem(lineItemID)
	if item == nil {
		return 0, ErrLineItemNotFound
	}

	oldTotal := item.TotalCost
	newTotal, err := item.Recost(newQuantity, newUnitPrice)
	if err != nil {
		return 0, err
	}

	delta := newTotal - oldTotal
	p.RemainingBalance += delta
	p.UpdatedAt = time.Now().UTC()
	p.recomputeStatus()

	p.addDomainEvent(&LineItemRevisedEvent{
		PaymentID:        p.PaymentID,
		BusinessID:       p.BusinessID,
		SupplierID:       p.SupplierID,
		LineItemID:       lineItemID,
		OldTotalCost:     oldTotal,
		NewTotalCost:     newTotal,
		Delta:            delta,
		RemainingBalance: p.RemainingBalance,
		RevisedAt:        p.UpdatedAt,
	})

	return delta, nil
}

// Reverse marks the payment reversed and returns the remaining balance
// that must be backed out of the supplier. Reversal is terminal.
func (p *SupplierPayment) Reverse() (Money, error) {
	if p.Status == PaymentStatusReversed {
		return 0, ErrPaymentReversed
	}

	reversed := p.RemainingBalance
	now := time.Now().UTC()
	p.Status = PaymentStatusReversed
	p.UpdatedAt = now

	p.addDomainEvent(&PaymentReversedEvent{
		PaymentID:        p.PaymentID,
		BusinessID:       p.BusinessID,
		SupplierID:       p.SupplierID,
		InvoiceNo:        p.InvoiceNo,
		ReversedBalance:  reversed,
		ReversedAt:       now,
	})

	return reversed, nil
}

// FindLineItem returns the line item with the given id, or nil.
func (p *SupplierPayment) FindLineItem(lineItemID string) *LineItem {
	for i := range p.LineItems {
		if p.LineItems[i].ID == lineItemID {
			return &p.LineItems[i]
		}
	}
	return nil
}

// ItemsTotal returns the sum of line item totals on this payment.
func (p *SupplierPayment) ItemsTotal() Money {
	return itemsTotal(p.LineItems)
}

// recomputeStatus derives the settlement state from the remaining
// balance. A negative balance is supplier credit and counts as settled.
func (p *SupplierPayment) recomputeStatus() {
	if p.Status == PaymentStatusReversed {
		return
	}
	if p.RemainingBalance > 0 {
		p.Status = PaymentStatusOpen
	} else {
		p.Status = PaymentStatusSettled
	}
}

func validatePaymentInput(amountPaid Money, meta PaymentMeta) error {
	if amountPaid < 0 {
		return ErrNegativeAmountPaid
	}
	if amountPaid > 0 && meta.Date == nil {
		return ErrPaymentDateRequired
	}
	if meta.Mode != "" && !meta.Mode.IsValid() {
		return ErrInvalidPaymentMode
	}
	return nil
}

func itemsTotal(items []LineItem) Money {
	var total Money
	for _, item := range items {
		total += item.TotalCost
	}
	return total
}

// Domain event helpers
func (p *SupplierPayment) addDomainEvent(event DomainEvent) {
	p.domainEvents = append(p.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (p *SupplierPayment) DomainEvents() []DomainEvent {
	return p.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (p *SupplierPayment) ClearDomainEvents() {
	p.domainEvents = make([]DomainEvent, 0)
}
