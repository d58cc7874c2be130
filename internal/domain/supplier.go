package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier is a party goods are purchased from. BalanceAmount is the
// outstanding amount owed to the supplier and always equals the sum of
// remainingBalance over that supplier's non-reversed payments. Only the
// ledger operations mutate it.
type Supplier struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SupplierID string             `bson:"supplierId" json:"supplierId"`
	BusinessID string             `bson:"businessId" json:"businessId"`

	Name    string `bson:"name" json:"name"`
	Contact string `bson:"contact" json:"contact"`
	GSTIN   string `bson:"gstin,omitempty" json:"gstin,omitempty"`

	BalanceAmount Money `bson:"balanceAmount" json:"balanceAmount"`

	// Version guards concurrent balance updates
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewSupplier creates a new supplier with a zero balance
func NewSupplier(businessID, name, contact, gstin string) *Supplier {
	now := time.Now().UTC()
	supplierID := fmt.Sprintf("SUP-%s", uuid.New().String()[:8])

	// ID stays zero until the repository inserts the document.
	supplier := &Supplier{
		SupplierID:    supplierID,
		BusinessID:    businessID,
		Name:          name,
		Contact:       contact,
		GSTIN:         gstin,
		BalanceAmount: 0,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
		domainEvents:  make([]DomainEvent, 0),
	}

	supplier.addDomainEvent(&SupplierCreatedEvent{
		SupplierID: supplierID,
		BusinessID: businessID,
		Name:       name,
		CreatedAt:  now,
	})

	return supplier
}

// ApplyBalanceDelta adjusts the outstanding balance. A negative result
// is supplier credit and is kept as-is. A non-zero delta raises a
// balance-adjusted event carrying the reason.
func (s *Supplier) ApplyBalanceDelta(delta Money, reason string) {
	if delta == 0 {
		return
	}
	s.BalanceAmount += delta
	s.UpdatedAt = time.Now().UTC()

	s.addDomainEvent(&SupplierBalanceAdjustedEvent{
		SupplierID: s.SupplierID,
		BusinessID: s.BusinessID,
		Delta:      delta,
		NewBalance: s.BalanceAmount,
		Reason:     reason,
		AdjustedAt: s.UpdatedAt,
	})
}

// UpdateContact updates contact details. Non-empty fields overwrite,
// empty fields preserve the prior value. The balance is ledger-owned
// and cannot be edited here.
func (s *Supplier) UpdateContact(name, contact, gstin string) {
	if name != "" {
		s.Name = name
	}
	if contact != "" {
		s.Contact = contact
	}
	if gstin != "" {
		s.GSTIN = gstin
	}
	s.UpdatedAt = time.Now().UTC()
}

func (s *Supplier) addDomainEvent(event DomainEvent) {
	s.domainEvents = append(s.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (s *Supplier) DomainEvents() []DomainEvent {
	return s.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (s *Supplier) ClearDomainEvents() {
	s.domainEvents = make([]DomainEvent, 0)
}
