package business

import (
	"context"
)

// RepositoryHelper enforces business ownership checks in MongoDB
// repositories. Embed it in repository structs.
type RepositoryHelper struct {
	// EnforceBusiness when true, returns an error if business context is missing
	EnforceBusiness bool
}

// NewRepositoryHelper creates a new RepositoryHelper
func NewRepositoryHelper(enforceBusiness bool) *RepositoryHelper {
	return &RepositoryHelper{
		EnforceBusiness: enforceBusiness,
	}
}

// ValidateOwnership verifies that a fetched resource belongs to the business
// in context.
func (h *RepositoryHelper) ValidateOwnership(ctx context.Context, resourceBusinessID string) error {
	bc, err := FromContext(ctx)
	if err != nil {
		if h.EnforceBusiness {
			return err
		}
		return nil
	}
	return bc.ValidateOwnership(resourceBusinessID)
}
