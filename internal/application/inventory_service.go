package application

import (
	"context"
	"fmt"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
)

// InventoryService is the read side of the receipt sink: receipts are
// written by the ledger and only listed here.
type InventoryService struct {
	receiptRepo domain.ReceiptRepository
	logger      *logging.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(receiptRepo domain.ReceiptRepository, logger *logging.Logger) *InventoryService {
	return &InventoryService{
		receiptRepo: receiptRepo,
		logger:      logger.WithComponent("inventory-service"),
	}
}

// ListReceipts lists inventory receipts matching the query filters
func (s *InventoryService) ListReceipts(ctx context.Context, query ListReceiptsQuery) (*ReceiptListResponse, error) {
	filter := domain.ReceiptFilter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	}
	if query.SupplierID != "" {
		filter.SupplierID = &query.SupplierID
	}
	if query.PaymentID != "" {
		filter.PaymentID = &query.PaymentID
	}
	if query.ProductName != "" {
		filter.ProductName = &query.ProductName
	}

	pagination := domain.Pagination{Page: query.Page, PageSize: query.PageSize}

	receipts, err := s.receiptRepo.Find(ctx, query.BusinessID, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	total, err := s.receiptRepo.Count(ctx, query.BusinessID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count receipts: %w", err)
	}

	dtos := make([]ReceiptDTO, len(receipts))
	for i, r := range receipts {
		dtos[i] = *ToReceiptDTO(r)
	}

	return &ReceiptListResponse{
		Data:       dtos,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalItems: total,
	}, nil
}
