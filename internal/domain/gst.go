package domain

import "errors"

// Errors for ledger arithmetic and line item validation
var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidUnitPrice = errors.New("unit purchase price must be positive")
	ErrInvalidGSTSlab   = errors.New("gst slab must be one of 0, 5, 12 or 18")
	ErrSlabRequiresTax  = errors.New("a non-zero gst slab requires the goods to be tax applicable")
)

// GSTSlab is a GST percentage rate applied to a purchase.
type GSTSlab int64

const (
	GSTSlabZero     GSTSlab = 0
	GSTSlabFive     GSTSlab = 5
	GSTSlabTwelve   GSTSlab = 12
	GSTSlabEighteen GSTSlab = 18
)

// IsValid checks if the slab is an allowed GST rate
func (s GSTSlab) IsValid() bool {
	switch s {
	case GSTSlabZero, GSTSlabFive, GSTSlabTwelve, GSTSlabEighteen:
		return true
	}
	return false
}

// ComputeLineTotal computes the tax-inclusive cost of a purchase line.
// Pure: it validates its inputs and never touches state. When the goods
// are not tax applicable the base cost is returned unchanged; otherwise
// the slab percentage is added, rounded half-up at paise scale.
func ComputeLineTotal(quantity float64, unitPrice Money, slab GSTSlab, taxApplicable bool) (Money, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if unitPrice <= 0 {
		return 0, ErrInvalidUnitPrice
	}
	if !slab.IsValid() {
		return 0, ErrInvalidGSTSlab
	}
	if slab != GSTSlabZero && !taxApplicable {
		return 0, ErrSlabRequiresTax
	}

	base := scaleByQuantity(quantity, unitPrice)
	if !taxApplicable {
		return base, nil
	}
	return base.AddPercent(int64(slab)), nil
}
