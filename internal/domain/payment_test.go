package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateInvoiceNo tests the canonical invoice number format
func TestValidateInvoiceNo(t *testing.T) {
	valid := []string{"0042/24-25", "1234/99-00", "0001/25-26"}
	for _, no := range valid {
		assert.NoError(t, ValidateInvoiceNo(no), "Expected %s to be valid", no)
	}

	invalid := []string{"", "42/24-25", "00042/24-25", "0042/2024-25", "0042-24-25", "ABCD/24-25", "0042/24-256"}
	for _, no := range invalid {
		assert.Equal(t, ErrInvalidInvoiceNo, ValidateInvoiceNo(no), "Expected %s to be invalid", no)
	}
}

// TestPaymentModeIsValid tests payment mode membership
func TestPaymentModeIsValid(t *testing.T) {
	for _, mode := range []PaymentMode{PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer, PaymentModeUPI} {
		assert.True(t, mode.IsValid(), "Expected %s to be valid", mode)
	}
	assert.False(t, PaymentMode("Card").IsValid())
}

// TestNewSupplierPayment tests creation of the first payment record
func TestNewSupplierPayment(t *testing.T) {
	now := time.Now().UTC()
	item := testLineItem(t, 5, 200, GSTSlabTwelve)

	payment, err := NewSupplierPayment(
		"BIZ-001", "SUP-001", "0042/24-25",
		[]LineItem{item},
		MoneyFromRupees(500),
		PaymentMeta{Mode: PaymentModeUPI, Note: "first instalment", Date: &now},
	)
	require.NoError(t, err)
	require.NotNil(t, payment)

	assert.True(t, payment.ID.IsZero(), "object id is assigned on insert, not construction")
	assert.NotEmpty(t, payment.PaymentID)
	assert.Equal(t, "BIZ-001", payment.BusinessID)
	assert.Equal(t, "SUP-001", payment.SupplierID)
	assert.Equal(t, "0042/24-25", payment.InvoiceNo)
	assert.Len(t, payment.LineItems, 1)
	assert.Equal(t, MoneyFromRupees(500), payment.AmountPaid)
	assert.Equal(t, MoneyFromRupees(620), payment.RemainingBalance)
	assert.Equal(t, PaymentStatusOpen, payment.Status)
	assert.Equal(t, int64(1), payment.Version)

	events := payment.DomainEvents()
	require.Len(t, events, 1)
	posted, ok := events[0].(*PaymentPostedEvent)
	require.True(t, ok)
	assert.Equal(t, MoneyFromRupees(1120), posted.ItemsTotal)
	assert.Equal(t, MoneyFromRupees(620), posted.RemainingBalance)
}

// TestNewSupplierPaymentValidation tests creation-time rejections
func TestNewSupplierPaymentValidation(t *testing.T) {
	now := time.Now().UTC()
	item := testLineItem(t, 5, 200, GSTSlabTwelve)

	_, err := NewSupplierPayment("BIZ-001", "SUP-001", "42-24-25", []LineItem{item}, 0, PaymentMeta{})
	assert.Equal(t, ErrInvalidInvoiceNo, err)

	_, err = NewSupplierPayment("BIZ-001", "SUP-001", "0042/24-25", []LineItem{item}, MoneyFromRupees(-1), PaymentMeta{Date: &now})
	assert.Equal(t, ErrNegativeAmountPaid, err)

	// Paying without a date is rejected
	_, err = NewSupplierPayment("BIZ-001", "SUP-001", "0042/24-25", []LineItem{item}, MoneyFromRupees(100), PaymentMeta{Mode: PaymentModeCash})
	assert.Equal(t, ErrPaymentDateRequired, err)

	_, err = NewSupplierPayment("BIZ-001", "SUP-001", "0042/24-25", []LineItem{item}, MoneyFromRupees(100), PaymentMeta{Mode: PaymentMode("Card"), Date: &now})
	assert.Equal(t, ErrInvalidPaymentMode, err)
}

// TestPaymentMerge tests the idempotent merge of a second posting
func TestPaymentMerge(t *testing.T) {
	payment := testPayment(t)
	require.Equal(t, MoneyFromRupees(620), payment.RemainingBalance)
	payment.ClearDomainEvents()

	// Pure payment against the open balance, no new items
	now := time.Now().UTC()
	err := payment.Merge(nil, MoneyFromRupees(620), PaymentMeta{Mode: PaymentModeCash, Date: &now})
	require.NoError(t, err)

	assert.Len(t, payment.LineItems, 1)
	assert.Equal(t, MoneyFromRupees(1120), payment.AmountPaid)
	assert.Equal(t, Money(0), payment.RemainingBalance)
	assert.Equal(t, PaymentStatusSettled, payment.Status)
	assert.Equal(t, PaymentModeCash, payment.PaymentMode)
	assert.Len(t, payment.DomainEvents(), 1)
}

// TestPaymentMergeAppendsItems tests merging with further goods
func TestPaymentMergeAppendsItems(t *testing.T) {
	payment := testPayment(t)
	item := testLineItem(t, 10, 100, GSTSlabEighteen)

	now := time.Now().UTC()
	err := payment.Merge([]LineItem{item}, MoneyFromRupees(300), PaymentMeta{Date: &now})
	require.NoError(t, err)

	// 620 + 1180 - 300
	assert.Len(t, payment.LineItems, 2)
	assert.Equal(t, MoneyFromRupees(800), payment.AmountPaid)
	assert.Equal(t, MoneyFromRupees(1500), payment.RemainingBalance)
	assert.Equal(t, PaymentStatusOpen, payment.Status)
}

// TestPaymentMergeMetadata verifies non-empty fields overwrite and
// empty fields preserve prior values
func TestPaymentMergeMetadata(t *testing.T) {
	payment := testPayment(t)
	priorDate := payment.PaymentDate
	require.NotNil(t, priorDate)

	err := payment.Merge(nil, 0, PaymentMeta{Note: "settled in cash"})
	require.NoError(t, err)

	assert.Equal(t, PaymentModeUPI, payment.PaymentMode)
	assert.Equal(t, "settled in cash", payment.PaymentNote)
	assert.Equal(t, priorDate, payment.PaymentDate)
}

// TestPaymentReviseItem tests line item revision and the resulting delta
func TestPaymentReviseItem(t *testing.T) {
	payment := testPayment(t)
	itemID := payment.LineItems[0].ID
	payment.ClearDomainEvents()

	newQty := 6.0
	delta, err := payment.ReviseItem(itemID, &newQty, nil)
	require.NoError(t, err)

	// 1344 - 1120
	assert.Equal(t, MoneyFromRupees(224), delta)
	assert.Equal(t, MoneyFromRupees(844), payment.RemainingBalance)
	assert.Equal(t, MoneyFromRupees(1344), payment.LineItems[0].TotalCost)

	events := payment.DomainEvents()
	require.Len(t, events, 1)
	revised, ok := events[0].(*LineItemRevisedEvent)
	require.True(t, ok)
	assert.Equal(t, MoneyFromRupees(224), revised.Delta)
}

// TestPaymentReviseItemNotFound tests revision of an unknown item
func TestPaymentReviseItemNotFound(t *testing.T) {
	payment := testPayment(t)

	newQty := 6.0
	_, err := payment.ReviseItem("missing-item", &newQty, nil)
	assert.Equal(t, ErrLineItemNotFound, err)
}

// TestPaymentReverse tests the terminal reversal
func TestPaymentReverse(t *testing.T) {
	payment := testPayment(t)
	payment.ClearDomainEvents()

	reversed, err := payment.Reverse()
	require.NoError(t, err)
	assert.Equal(t, MoneyFromRupees(620), reversed)
	assert.Equal(t, PaymentStatusReversed, payment.Status)
	assert.Len(t, payment.DomainEvents(), 1)

	// Terminal: nothing further is allowed
	_, err = payment.Reverse()
	assert.Equal(t, ErrPaymentReversed, err)

	err = payment.Merge(nil, 0, PaymentMeta{})
	assert.Equal(t, ErrPaymentReversed, err)

	newQty := 6.0
	_, err = payment.ReviseItem(payment.LineItems[0].ID, &newQty, nil)
	assert.Equal(t, ErrPaymentReversed, err)
}

// TestPaymentNegativeBalanceIsCredit verifies a revision below the paid
// amount yields supplier credit, not an error
func TestPaymentNegativeBalanceIsCredit(t *testing.T) {
	payment := testPayment(t)

	newPrice := MoneyFromRupees(50)
	delta, err := payment.ReviseItem(payment.LineItems[0].ID, nil, &newPrice)
	require.NoError(t, err)

	// New total 280, old 1120
	assert.Equal(t, MoneyFromRupees(-840), delta)
	assert.True(t, payment.RemainingBalance.IsNegative())
	assert.Equal(t, PaymentStatusSettled, payment.Status)
}

// testLineItem builds a costed line item or fails the test
func testLineItem(t *testing.T, quantity float64, priceRupees float64, slab GSTSlab) LineItem {
	t.Helper()
	item, err := NewLineItem(LineItemInput{
		ProductName:   "Basmati Rice",
		Quantity:      quantity,
		Unit:          "kg",
		PurchasePrice: MoneyFromRupees(priceRupees),
		GSTSlab:       slab,
		GoodsWithGST:  slab != GSTSlabZero,
	})
	require.NoError(t, err)
	return item
}

// testPayment builds a payment with one 1120-rupee item and 500 paid
func testPayment(t *testing.T) *SupplierPayment {
	t.Helper()
	now := time.Now().UTC()
	payment, err := NewSupplierPayment(
		"BIZ-001", "SUP-001", "0042/24-25",
		[]LineItem{testLineItem(t, 5, 200, GSTSlabTwelve)},
		MoneyFromRupees(500),
		PaymentMeta{Mode: PaymentModeUPI, Date: &now},
	)
	require.NoError(t, err)
	return payment
}

// BenchmarkPaymentMerge benchmarks merging a posting
func BenchmarkPaymentMerge(b *testing.B) {
	now := time.Now().UTC()
	item, _ := NewLineItem(LineItemInput{
		ProductName:   "Basmati Rice",
		Quantity:      5,
		Unit:          "kg",
		PurchasePrice: MoneyFromRupees(200),
		GSTSlab:       GSTSlabTwelve,
		GoodsWithGST:  true,
	})
	payment, _ := NewSupplierPayment("BIZ-001", "SUP-001", "0042/24-25", []LineItem{item}, 0, PaymentMeta{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payment.Merge(nil, MoneyFromRupees(1), PaymentMeta{Date: &now})
	}
}
