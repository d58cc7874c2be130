package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryReceipt is a stock-on-hand snapshot of one received line
// item, written when the item is posted. It references its line item
// directly by id; revisions flow through that link.
type InventoryReceipt struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiptID string             `bson:"receiptId" json:"receiptId"`

	BusinessID string `bson:"businessId" json:"businessId"`
	SupplierID string `bson:"supplierId" json:"supplierId"`
	PaymentID  string `bson:"paymentId" json:"paymentId"`
	LineItemID string `bson:"lineItemId" json:"lineItemId"`

	ProductName string  `bson:"productName" json:"productName"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	Unit        string  `bson:"unit" json:"unit"`
	UnitPrice   Money   `bson:"unitPrice" json:"unitPrice"`
	TotalCost   Money   `bson:"totalCost" json:"totalCost"`

	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewInventoryReceipt snapshots a posted line item for stock valuation
func NewInventoryReceipt(businessID, supplierID, paymentID string, item LineItem) *InventoryReceipt {
	now := time.Now().UTC()
	return &InventoryReceipt{
		ID:          primitive.NewObjectID(),
		ReceiptID:   fmt.Sprintf("RCP-%s", uuid.New().String()[:8]),
		BusinessID:  businessID,
		SupplierID:  supplierID,
		PaymentID:   paymentID,
		LineItemID:  item.ID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		UnitPrice:   item.PurchasePrice,
		TotalCost:   item.TotalCost,
		ReceivedAt:  now,
		UpdatedAt:   now,
	}
}

// ApplyRevision keeps the receipt consistent with its revised line item
func (r *InventoryReceipt) ApplyRevision(item LineItem) {
	r.Quantity = item.Quantity
	r.UnitPrice = item.PurchasePrice
	r.TotalCost = item.TotalCost
	r.UpdatedAt = time.Now().UTC()
}
