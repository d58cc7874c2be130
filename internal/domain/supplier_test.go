package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewSupplier tests supplier creation
func TestNewSupplier(t *testing.T) {
	supplier := NewSupplier("BIZ-001", "Sharma Traders", "+91 98765 43210", "27AAPFU0939F1ZV")

	require.NotNil(t, supplier)
	assert.True(t, supplier.ID.IsZero(), "object id is assigned on insert, not construction")
	assert.NotEmpty(t, supplier.SupplierID)
	assert.Equal(t, "BIZ-001", supplier.BusinessID)
	assert.Equal(t, "Sharma Traders", supplier.Name)
	assert.Equal(t, Money(0), supplier.BalanceAmount)
	assert.Equal(t, int64(1), supplier.Version)
	assert.NotZero(t, supplier.CreatedAt)
	assert.Len(t, supplier.DomainEvents(), 1)
}

// TestSupplierApplyBalanceDelta tests balance movement in both directions
func TestSupplierApplyBalanceDelta(t *testing.T) {
	supplier := NewSupplier("BIZ-001", "Sharma Traders", "+91 98765 43210", "")
	supplier.ClearDomainEvents()

	supplier.ApplyBalanceDelta(MoneyFromRupees(620), "payment_posted")
	assert.Equal(t, MoneyFromRupees(620), supplier.BalanceAmount)

	supplier.ApplyBalanceDelta(MoneyFromRupees(-620), "payment_reversed")
	assert.Equal(t, Money(0), supplier.BalanceAmount)

	// Credit is kept, never clamped
	supplier.ApplyBalanceDelta(MoneyFromRupees(-100), "line_item_revised")
	assert.Equal(t, MoneyFromRupees(-100), supplier.BalanceAmount)

	events := supplier.DomainEvents()
	require.Len(t, events, 3)
	adjusted, ok := events[0].(*SupplierBalanceAdjustedEvent)
	require.True(t, ok)
	assert.Equal(t, supplier.SupplierID, adjusted.SupplierID)
	assert.Equal(t, MoneyFromRupees(620), adjusted.Delta)
	assert.Equal(t, MoneyFromRupees(620), adjusted.NewBalance)
	assert.Equal(t, "payment_posted", adjusted.Reason)
}

// TestSupplierApplyBalanceDeltaZero verifies a no-op delta raises nothing
func TestSupplierApplyBalanceDeltaZero(t *testing.T) {
	supplier := NewSupplier("BIZ-001", "Sharma Traders", "+91 98765 43210", "")
	supplier.ClearDomainEvents()

	supplier.ApplyBalanceDelta(0, "line_item_revised")

	assert.Equal(t, Money(0), supplier.BalanceAmount)
	assert.Empty(t, supplier.DomainEvents())
}

// TestSupplierUpdateContact verifies empty fields preserve prior values
func TestSupplierUpdateContact(t *testing.T) {
	supplier := NewSupplier("BIZ-001", "Sharma Traders", "+91 98765 43210", "27AAPFU0939F1ZV")

	supplier.UpdateContact("", "+91 90000 00000", "")

	assert.Equal(t, "Sharma Traders", supplier.Name)
	assert.Equal(t, "+91 90000 00000", supplier.Contact)
	assert.Equal(t, "27AAPFU0939F1ZV", supplier.GSTIN)
}
