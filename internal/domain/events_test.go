package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerEvents(t *testing.T) {
	now := time.Now().UTC()

	posted := &PaymentPostedEvent{
		PaymentID:        "PAY-001",
		BusinessID:       "BIZ-001",
		SupplierID:       "SUP-001",
		InvoiceNo:        "0042/24-25",
		ItemsTotal:       MoneyFromRupees(1120),
		AmountPaid:       MoneyFromRupees(500),
		RemainingBalance: MoneyFromRupees(620),
		PaymentMode:      PaymentModeUPI,
		PostedAt:         now,
	}
	assert.Equal(t, "ledger.payment.posted", posted.EventType())
	assert.Equal(t, now, posted.OccurredAt())

	merged := &PaymentMergedEvent{
		PaymentID:  "PAY-001",
		BusinessID: "BIZ-001",
		SupplierID: "SUP-001",
		InvoiceNo:  "0042/24-25",
		AmountPaid: MoneyFromRupees(620),
		MergedAt:   now,
	}
	assert.Equal(t, "ledger.payment.merged", merged.EventType())
	assert.Equal(t, now, merged.OccurredAt())

	revised := &LineItemRevisedEvent{
		PaymentID:  "PAY-001",
		LineItemID: "item-1",
		Delta:      MoneyFromRupees(224),
		RevisedAt:  now,
	}
	assert.Equal(t, "ledger.payment.line_item_revised", revised.EventType())

	reversed := &PaymentReversedEvent{
		PaymentID:       "PAY-001",
		ReversedBalance: MoneyFromRupees(224),
		ReversedAt:      now,
	}
	assert.Equal(t, "ledger.payment.reversed", reversed.EventType())

	created := &SupplierCreatedEvent{
		SupplierID: "SUP-001",
		BusinessID: "BIZ-001",
		Name:       "Sharma Traders",
		CreatedAt:  now,
	}
	assert.Equal(t, "ledger.supplier.created", created.EventType())

	adjusted := &SupplierBalanceAdjustedEvent{
		SupplierID: "SUP-001",
		Delta:      MoneyFromRupees(-620),
		AdjustedAt: now,
	}
	assert.Equal(t, "ledger.supplier.balance_adjusted", adjusted.EventType())
	assert.Equal(t, now, adjusted.OccurredAt())
}
