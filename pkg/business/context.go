package business

import (
	"context"
	"errors"
)

// Context keys for business scoping
type contextKey string

const (
	businessIDKey contextKey = "businessId"
	userIDKey     contextKey = "userId"
)

// Errors for business context operations
var (
	ErrMissingBusinessContext = errors.New("business context is required")
	ErrUnauthorizedAccess     = errors.New("unauthorized access to business resource")
)

// Context identifies the business (tenant) a request operates on behalf of.
// Every supplier, payment and inventory receipt belongs to exactly one
// business; all queries are scoped by it.
type Context struct {
	// BusinessID is the owning business identifier
	BusinessID string `json:"businessId"`

	// UserID is the acting user within the business, when known
	UserID string `json:"userId,omitempty"`
}

// FromContext extracts the business context from a context.Context.
// Returns an error when no business ID is present.
func FromContext(ctx context.Context) (*Context, error) {
	bc := &Context{}

	if v := ctx.Value(businessIDKey); v != nil {
		if id, ok := v.(string); ok {
			bc.BusinessID = id
		}
	}
	if v := ctx.Value(userIDKey); v != nil {
		if id, ok := v.(string); ok {
			bc.UserID = id
		}
	}

	if bc.BusinessID == "" {
		return nil, ErrMissingBusinessContext
	}

	return bc, nil
}

// ToContext adds business context values to a context.Context.
func ToContext(ctx context.Context, bc *Context) context.Context {
	if bc == nil {
		return ctx
	}
	if bc.BusinessID != "" {
		ctx = context.WithValue(ctx, businessIDKey, bc.BusinessID)
	}
	if bc.UserID != "" {
		ctx = context.WithValue(ctx, userIDKey, bc.UserID)
	}
	return ctx
}

// IsEmpty returns true when no business identifier is set
func (bc *Context) IsEmpty() bool {
	return bc.BusinessID == ""
}

// ValidateOwnership verifies that a resource belongs to this business.
// Used to prevent cross-business data access after a lookup by ID.
func (bc *Context) ValidateOwnership(resourceBusinessID string) error {
	if bc.BusinessID != "" && resourceBusinessID != "" && bc.BusinessID != resourceBusinessID {
		return ErrUnauthorizedAccess
	}
	return nil
}
