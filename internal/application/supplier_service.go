package application

import (
	"context"
	"fmt"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	apperrors "github.com/murtaza192168/inventory-supplier-management/pkg/errors"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/outbox"
)

// SupplierService handles supplier registration and lookups. Balances
// are ledger-owned: nothing here touches them.
type SupplierService struct {
	supplierRepo domain.SupplierRepository
	outboxRepo   outbox.Repository
	topics       EventTopics
	logger       *logging.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo domain.SupplierRepository,
	outboxRepo outbox.Repository,
	topics EventTopics,
	logger *logging.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		outboxRepo:   outboxRepo,
		topics:       topics,
		logger:       logger.WithComponent("supplier-service"),
	}
}

// CreateSupplier registers a supplier. A supplier with the same name or
// contact already existing in the business is a conflict, not a merge.
func (s *SupplierService) CreateSupplier(ctx context.Context, cmd CreateSupplierCommand) (*SupplierDTO, error) {
	existing, err := s.supplierRepo.FindByNameOrContact(ctx, cmd.BusinessID, cmd.Name, cmd.Contact)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing supplier: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrConflict("a supplier with this name or contact already exists")
	}

	supplier := domain.NewSupplier(cmd.BusinessID, cmd.Name, cmd.Contact, cmd.GSTIN)

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		s.logger.WithError(err).Error("Failed to save supplier", "name", cmd.Name)
		return nil, apperrors.ErrDatabase("create supplier", err)
	}

	for _, de := range supplier.DomainEvents() {
		evt, err := outbox.NewEvent(supplier.SupplierID, "supplier", supplier.SupplierID, s.topics.Suppliers, de)
		if err != nil {
			return nil, fmt.Errorf("failed to build outbox event: %w", err)
		}
		if err := s.outboxRepo.Save(ctx, evt); err != nil {
			s.logger.WithError(err).Warn("Failed to save supplier event", "supplierId", supplier.SupplierID)
		}
	}
	supplier.ClearDomainEvents()

	s.logger.Event(ctx, "supplier.created", map[string]any{
		"supplierId": supplier.SupplierID,
		"name":       cmd.Name,
	})
	return ToSupplierDTO(supplier), nil
}

// GetSupplier retrieves a supplier by id
func (s *SupplierService) GetSupplier(ctx context.Context, businessID, supplierID string) (*SupplierDTO, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, businessID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, apperrors.ErrNotFoundWithID("supplier", supplierID)
	}
	return ToSupplierDTO(supplier), nil
}

// ListSuppliers lists suppliers for a business
func (s *SupplierService) ListSuppliers(ctx context.Context, query ListSuppliersQuery) (*SupplierListResponse, error) {
	filter := domain.SupplierFilter{}
	if query.Search != "" {
		filter.Search = &query.Search
	}

	pagination := domain.Pagination{Page: query.Page, PageSize: query.PageSize}

	suppliers, err := s.supplierRepo.FindByBusiness(ctx, query.BusinessID, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	total, err := s.supplierRepo.Count(ctx, query.BusinessID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}

	dtos := make([]SupplierDTO, len(suppliers))
	for i, sup := range suppliers {
		dtos[i] = *ToSupplierDTO(sup)
	}

	return &SupplierListResponse{
		Data:       dtos,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalItems: total,
	}, nil
}

// UpdateSupplier updates contact details only
func (s *SupplierService) UpdateSupplier(ctx context.Context, cmd UpdateSupplierCommand) (*SupplierDTO, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, cmd.BusinessID, cmd.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, apperrors.ErrNotFoundWithID("supplier", cmd.SupplierID)
	}

	supplier.UpdateContact(cmd.Name, cmd.Contact, cmd.GSTIN)

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, apperrors.ErrDatabase("update supplier", err)
	}

	s.logger.Event(ctx, "supplier.updated", map[string]any{"supplierId": cmd.SupplierID})
	return ToSupplierDTO(supplier), nil
}
