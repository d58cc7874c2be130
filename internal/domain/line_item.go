package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Errors for line item validation
var (
	ErrProductNameRequired = errors.New("product name is required")
	ErrUnitRequired        = errors.New("unit of measure is required")
)

// LineItem is one received product entry on a supplier payment. Its
// total cost is derived, never supplied by the caller.
type LineItem struct {
	ID            string  `bson:"id" json:"id"`
	ProductName   string  `bson:"productName" json:"productName"`
	Quantity      float64 `bson:"quantity" json:"quantity"`
	Unit          string  `bson:"unit" json:"unit"`
	PurchasePrice Money   `bson:"purchasePrice" json:"purchasePrice"`
	GSTSlab       GSTSlab `bson:"gstSlab" json:"gstSlab"`
	GoodsWithGST  bool    `bson:"goodsWithGst" json:"goodsWithGst"`
	TotalCost     Money   `bson:"totalCost" json:"totalCost"`
}

// LineItemInput carries the caller-supplied fields of a line item.
type LineItemInput struct {
	ProductName   string
	Quantity      float64
	Unit          string
	PurchasePrice Money
	GSTSlab       GSTSlab
	GoodsWithGST  bool
}

// NewLineItem validates the input and returns a costed line item.
// A mismatched slab/tax-flag combination is rejected, not corrected.
func NewLineItem(input LineItemInput) (LineItem, error) {
	if input.ProductName == "" {
		return LineItem{}, ErrProductNameRequired
	}
	if input.Unit == "" {
		return LineItem{}, ErrUnitRequired
	}

	totalCost, err := ComputeLineTotal(input.Quantity, input.PurchasePrice, input.GSTSlab, input.GoodsWithGST)
	if err != nil {
		return LineItem{}, err
	}

	return LineItem{
		ID:            uuid.New().String(),
		ProductName:   input.ProductName,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		PurchasePrice: input.PurchasePrice,
		GSTSlab:       input.GSTSlab,
		GoodsWithGST:  input.GoodsWithGST,
		TotalCost:     totalCost,
	}, nil
}

// Recost recomputes the item's total with an overridden quantity or
// unit price, keeping the existing tax treatment. Nil overrides keep
// the current value.
func (li *LineItem) Recost(newQuantity *float64, newUnitPrice *Money) (Money, error) {
	quantity := li.Quantity
	if newQuantity != nil {
		quantity = *newQuantity
	}
	unitPrice := li.PurchasePrice
	if newUnitPrice != nil {
		unitPrice = *newUnitPrice
	}

	totalCost, err := ComputeLineTotal(quantity, unitPrice, li.GSTSlab, li.GoodsWithGST)
	if err != nil {
		return 0, err
	}

	li.Quantity = quantity
	li.PurchasePrice = unitPrice
	li.TotalCost = totalCost
	return totalCost, nil
}
