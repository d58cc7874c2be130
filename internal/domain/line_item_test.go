package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLineItem tests line item validation and costing
func TestNewLineItem(t *testing.T) {
	tests := []struct {
		name        string
		input       LineItemInput
		expectTotal Money
		expectError error
	}{
		{
			name: "valid taxed item",
			input: LineItemInput{
				ProductName:   "Basmati Rice",
				Quantity:      5,
				Unit:          "kg",
				PurchasePrice: MoneyFromRupees(200),
				GSTSlab:       GSTSlabTwelve,
				GoodsWithGST:  true,
			},
			expectTotal: MoneyFromRupees(1120),
		},
		{
			name: "valid untaxed item",
			input: LineItemInput{
				ProductName:   "Loose Wheat",
				Quantity:      10,
				Unit:          "kg",
				PurchasePrice: MoneyFromRupees(30),
				GSTSlab:       GSTSlabZero,
				GoodsWithGST:  false,
			},
			expectTotal: MoneyFromRupees(300),
		},
		{
			name: "missing product name",
			input: LineItemInput{
				Quantity:      5,
				Unit:          "kg",
				PurchasePrice: MoneyFromRupees(200),
			},
			expectError: ErrProductNameRequired,
		},
		{
			name: "missing unit",
			input: LineItemInput{
				ProductName:   "Basmati Rice",
				Quantity:      5,
				PurchasePrice: MoneyFromRupees(200),
			},
			expectError: ErrUnitRequired,
		},
		{
			name: "slab without tax flag is not corrected",
			input: LineItemInput{
				ProductName:   "Packaged Ghee",
				Quantity:      2,
				Unit:          "ltr",
				PurchasePrice: MoneyFromRupees(550),
				GSTSlab:       GSTSlabEighteen,
				GoodsWithGST:  false,
			},
			expectError: ErrSlabRequiresTax,
		},
		{
			name: "non-positive quantity",
			input: LineItemInput{
				ProductName:   "Basmati Rice",
				Quantity:      0,
				Unit:          "kg",
				PurchasePrice: MoneyFromRupees(200),
			},
			expectError: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewLineItem(tt.input)

			if tt.expectError != nil {
				assert.Equal(t, tt.expectError, err)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, item.ID)
				assert.Equal(t, tt.input.ProductName, item.ProductName)
				assert.Equal(t, tt.input.Quantity, item.Quantity)
				assert.Equal(t, tt.input.Unit, item.Unit)
				assert.Equal(t, tt.expectTotal, item.TotalCost)
			}
		})
	}
}

// TestLineItemRecost tests revision of quantity and price
func TestLineItemRecost(t *testing.T) {
	item, err := NewLineItem(LineItemInput{
		ProductName:   "Basmati Rice",
		Quantity:      5,
		Unit:          "kg",
		PurchasePrice: MoneyFromRupees(200),
		GSTSlab:       GSTSlabTwelve,
		GoodsWithGST:  true,
	})
	require.NoError(t, err)
	require.Equal(t, MoneyFromRupees(1120), item.TotalCost)

	// Quantity override keeps the tax treatment
	newQty := 6.0
	total, err := item.Recost(&newQty, nil)
	require.NoError(t, err)
	assert.Equal(t, MoneyFromRupees(1344), total)
	assert.Equal(t, 6.0, item.Quantity)
	assert.Equal(t, MoneyFromRupees(200), item.PurchasePrice)

	// Price override
	newPrice := MoneyFromRupees(100)
	total, err = item.Recost(nil, &newPrice)
	require.NoError(t, err)
	assert.Equal(t, MoneyFromRupees(672), total)

	// Invalid override leaves the item untouched
	badQty := -1.0
	before := item
	_, err = item.Recost(&badQty, nil)
	assert.Equal(t, ErrInvalidQuantity, err)
	assert.Equal(t, before, item)
}
