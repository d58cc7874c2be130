package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	apperrors "github.com/murtaza192168/inventory-supplier-management/pkg/errors"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/metrics"
	"github.com/murtaza192168/inventory-supplier-management/pkg/outbox"
	"github.com/murtaza192168/inventory-supplier-management/pkg/resilience"
)

// TxRunner executes a function inside one storage transaction. All
// repository calls made with the given context commit or roll back as
// a unit.
type TxRunner interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventTopics names the destinations for outbox events
type EventTopics struct {
	Payments  string
	Suppliers string
	Inventory string
}

// LedgerService orchestrates payment posting, invoice merging, line
// item revision and balance maintenance. Every balance-mutating
// operation runs in one transaction and retries on version conflicts.
type LedgerService struct {
	supplierRepo domain.SupplierRepository
	paymentRepo  domain.PaymentRepository
	receiptRepo  domain.ReceiptRepository
	outboxRepo   outbox.Repository
	tx           TxRunner
	topics       EventTopics
	retry        *resilience.RetryConfig
	metrics      *metrics.Metrics
	logger       *logging.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	supplierRepo domain.SupplierRepository,
	paymentRepo domain.PaymentRepository,
	receiptRepo domain.ReceiptRepository,
	outboxRepo outbox.Repository,
	tx TxRunner,
	topics EventTopics,
	m *metrics.Metrics,
	logger *logging.Logger,
) *LedgerService {
	return &LedgerService{
		supplierRepo: supplierRepo,
		paymentRepo:  paymentRepo,
		receiptRepo:  receiptRepo,
		outboxRepo:   outboxRepo,
		tx:           tx,
		topics:       topics,
		retry:        resilience.DefaultRetryConfig(),
		metrics:      m,
		logger:       logger.WithComponent("ledger-service"),
	}
}

// PostPayment applies a payment posting: costs the supplied line items,
// guards against overpayment, merges into the existing record for the
// invoice number or creates one, snapshots receipts and moves the
// supplier balance. Nothing is mutated on a validation failure.
func (s *LedgerService) PostPayment(ctx context.Context, cmd PostPaymentCommand) (*PaymentDTO, error) {
	// Validation happens before any write
	if err := domain.ValidateInvoiceNo(cmd.InvoiceNo); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	items, itemsTotal, err := buildLineItems(cmd.Items)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	meta := domain.PaymentMeta{
		Mode: domain.PaymentMode(cmd.PaymentMode),
		Note: cmd.PaymentNote,
		Date: cmd.PaymentDate,
	}

	var merged bool
	payment, err := resilience.RetryWithResult(ctx, s.txRetryConfig("post_payment"), func() (*domain.SupplierPayment, error) {
		var result *domain.SupplierPayment
		err := s.tx.Execute(ctx, func(txCtx context.Context) error {
			supplier, err := s.findSupplier(txCtx, cmd.BusinessID, cmd.SupplierID)
			if err != nil {
				return err
			}

			// Overpayment guard runs against the post-receipt
			// outstanding amount: goods received in this call
			// increase what is owed before the payment applies.
			outstanding := supplier.BalanceAmount + itemsTotal
			if cmd.AmountPaid > outstanding {
				s.metrics.RecordOverpaymentRejected()
				return apperrors.ErrValidation(fmt.Sprintf(
					"amount paid %s exceeds outstanding balance %s",
					cmd.AmountPaid, outstanding,
				))
			}

			existing, err := s.paymentRepo.FindByInvoiceNo(txCtx, cmd.BusinessID, cmd.SupplierID, cmd.InvoiceNo)
			if err != nil {
				return fmt.Errorf("failed to look up payment: %w", err)
			}

			var payment *domain.SupplierPayment
			if existing != nil {
				if err := existing.Merge(items, cmd.AmountPaid, meta); err != nil {
					return mapDomainError(err)
				}
				payment = existing
				merged = true
			} else {
				payment, err = domain.NewSupplierPayment(cmd.BusinessID, cmd.SupplierID, cmd.InvoiceNo, items, cmd.AmountPaid, meta)
				if err != nil {
					return mapDomainError(err)
				}
				merged = false
			}

			receipts := make([]*domain.InventoryReceipt, len(items))
			for i, item := range items {
				receipts[i] = domain.NewInventoryReceipt(cmd.BusinessID, supplier.SupplierID, payment.PaymentID, item)
			}

			supplier.ApplyBalanceDelta(itemsTotal - cmd.AmountPaid, "payment_posted")

			if err := s.paymentRepo.Save(txCtx, payment); err != nil {
				return err
			}
			if err := s.supplierRepo.Save(txCtx, supplier); err != nil {
				return err
			}
			if len(receipts) > 0 {
				if err := s.receiptRepo.SaveAll(txCtx, receipts); err != nil {
					return fmt.Errorf("failed to save receipts: %w", err)
				}
			}

			events, err := s.collectPaymentEvents(payment, supplier, receipts)
			if err != nil {
				return err
			}
			if err := s.outboxRepo.SaveAll(txCtx, events); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
			payment.ClearDomainEvents()
			supplier.ClearDomainEvents()

			result = payment
			return nil
		})
		return result, err
	})
	if err != nil {
		return nil, s.translateTxError(err, "post payment")
	}

	s.metrics.RecordPaymentPosted(string(payment.PaymentMode), merged)
	s.logger.Event(ctx, "payment.posted", map[string]any{
		"paymentId":        payment.PaymentID,
		"supplierId":       cmd.SupplierID,
		"invoiceNo":        cmd.InvoiceNo,
		"itemsTotal":       itemsTotal.String(),
		"amountPaid":       cmd.AmountPaid.String(),
		"remainingBalance": payment.RemainingBalance.String(),
		"merged":           merged,
	})

	return ToPaymentDTO(payment), nil
}

// ReviseLineItem corrects a posted line item's quantity or price and
// applies the cost delta to the payment, the supplier balance and the
// matching inventory receipt in one transaction.
func (s *LedgerService) ReviseLineItem(ctx context.Context, cmd ReviseLineItemCommand) (*PaymentDTO, error) {
	payment, err := resilience.RetryWithResult(ctx, s.txRetryConfig("revise_line_item"), func() (*domain.SupplierPayment, error) {
		var result *domain.SupplierPayment
		err := s.tx.Execute(ctx, func(txCtx context.Context) error {
			payment, err := s.findPayment(txCtx, cmd.BusinessID, cmd.PaymentID)
			if err != nil {
				return err
			}
			supplier, err := s.findSupplier(txCtx, cmd.BusinessID, payment.SupplierID)
			if err != nil {
				return err
			}

			delta, err := payment.ReviseItem(cmd.LineItemID, cmd.NewQuantity, cmd.NewUnitPrice)
			if err != nil {
				return mapDomainError(err)
			}

			item := payment.FindLineItem(cmd.LineItemID)
			receipt, err := s.receiptRepo.FindByLineItemID(txCtx, cmd.BusinessID, cmd.LineItemID)
			if err != nil {
				return fmt.Errorf("failed to look up receipt: %w", err)
			}
			if receipt != nil {
				receipt.ApplyRevision(*item)
				if err := s.receiptRepo.Save(txCtx, receipt); err != nil {
					return fmt.Errorf("failed to save receipt: %w", err)
				}
			}

			supplier.ApplyBalanceDelta(delta, "line_item_revised")

			if err := s.paymentRepo.Save(txCtx, payment); err != nil {
				return err
			}
			if err := s.supplierRepo.Save(txCtx, supplier); err != nil {
				return err
			}

			events, err := s.collectPaymentEvents(payment, supplier, nil)
			if err != nil {
				return err
			}
			if err := s.outboxRepo.SaveAll(txCtx, events); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
			payment.ClearDomainEvents()
			supplier.ClearDomainEvents()

			result = payment
			return nil
		})
		return result, err
	})
	if err != nil {
		return nil, s.translateTxError(err, "revise line item")
	}

	s.metrics.RecordLineItemRevised()
	s.logger.Event(ctx, "payment.line_item_revised", map[string]any{
		"paymentId":        cmd.PaymentID,
		"lineItemId":       cmd.LineItemID,
		"remainingBalance": payment.RemainingBalance.String(),
	})

	return ToPaymentDTO(payment), nil
}

// ReverseInvoice marks a payment record reversed and backs its
// remaining balance out of the supplier. Reversal is terminal.
func (s *LedgerService) ReverseInvoice(ctx context.Context, businessID, paymentID string) error {
	err := resilience.Retry(ctx, s.txRetryConfig("reverse_invoice"), func() error {
		return s.tx.Execute(ctx, func(txCtx context.Context) error {
			payment, err := s.findPayment(txCtx, businessID, paymentID)
			if err != nil {
				return err
			}
			supplier, err := s.findSupplier(txCtx, businessID, payment.SupplierID)
			if err != nil {
				return err
			}

			reversed, err := payment.Reverse()
			if err != nil {
				return mapDomainError(err)
			}

			supplier.ApplyBalanceDelta(-reversed, "payment_reversed")

			if err := s.paymentRepo.Save(txCtx, payment); err != nil {
				return err
			}
			if err := s.supplierRepo.Save(txCtx, supplier); err != nil {
				return err
			}

			events, err := s.collectPaymentEvents(payment, supplier, nil)
			if err != nil {
				return err
			}
			if err := s.outboxRepo.SaveAll(txCtx, events); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
			payment.ClearDomainEvents()
			supplier.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return s.translateTxError(err, "reverse invoice")
	}

	s.metrics.RecordPaymentReversed()
	s.logger.Audit(ctx, "reverse", "payment", paymentID, map[string]any{"businessId": businessID})
	return nil
}

// GetPayment retrieves a payment record by id
func (s *LedgerService) GetPayment(ctx context.Context, businessID, paymentID string) (*PaymentDTO, error) {
	payment, err := s.findPayment(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}
	return ToPaymentDTO(payment), nil
}

// ListPayments lists payments matching the query filters. A supplier
// name filter is resolved to supplier ids before hitting the payment
// collection.
func (s *LedgerService) ListPayments(ctx context.Context, query ListPaymentsQuery) (*PaymentListResponse, error) {
	filter, err := s.buildPaymentFilter(ctx, query)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		// Name filter matched no suppliers, so no payments can match
		return &PaymentListResponse{Data: []PaymentDTO{}, Page: query.Page, PageSize: query.PageSize}, nil
	}

	pagination := domain.Pagination{Page: query.Page, PageSize: query.PageSize}
	sort := domain.DefaultSort()
	if query.SortBy != "" {
		sort = domain.Sort{Field: query.SortBy, Ascending: query.SortAsc}
	}

	payments, err := s.paymentRepo.Find(ctx, query.BusinessID, *filter, pagination, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	total, err := s.paymentRepo.Count(ctx, query.BusinessID, *filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = *ToPaymentDTO(p)
	}

	return &PaymentListResponse{
		Data:       dtos,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalItems: total,
	}, nil
}

// GetPaymentsForSupplier retrieves all non-reversed payments for a supplier
func (s *LedgerService) GetPaymentsForSupplier(ctx context.Context, businessID, supplierID string) ([]PaymentDTO, error) {
	if _, err := s.findSupplier(ctx, businessID, supplierID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindBySupplier(ctx, businessID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier payments: %w", err)
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = *ToPaymentDTO(p)
	}
	return dtos, nil
}

// AuditSupplierBalance cross-checks the denormalized supplier balance
// against the sum of outstanding balances on the supplier's non-reversed
// payments. Drift indicates a write that bypassed the ledger transaction.
func (s *LedgerService) AuditSupplierBalance(ctx context.Context, businessID, supplierID string) (*BalanceAuditDTO, error) {
	supplier, err := s.findSupplier(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}

	ledgerBalance, err := s.paymentRepo.SumOutstandingBySupplier(ctx, businessID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outstanding balances: %w", err)
	}

	drift := supplier.BalanceAmount - ledgerBalance
	s.metrics.RecordBalanceAudit(drift != 0)
	if drift != 0 {
		s.logger.Warn("Supplier balance drift detected",
			"businessId", businessID,
			"supplierId", supplierID,
			"recordedBalance", supplier.BalanceAmount,
			"ledgerBalance", ledgerBalance,
			"drift", drift,
		)
	}

	return &BalanceAuditDTO{
		SupplierID:      supplierID,
		RecordedBalance: supplier.BalanceAmount,
		LedgerBalance:   ledgerBalance,
		Drift:           drift,
		Consistent:      drift == 0,
	}, nil
}

// buildLineItems validates and costs the requested items
func buildLineItems(requests []LineItemRequest) ([]domain.LineItem, domain.Money, error) {
	items := make([]domain.LineItem, 0, len(requests))
	var total domain.Money

	for _, req := range requests {
		item, err := domain.NewLineItem(domain.LineItemInput{
			ProductName:   req.ProductName,
			Quantity:      req.Quantity,
			Unit:          req.Unit,
			PurchasePrice: req.PurchasePrice,
			GSTSlab:       domain.GSTSlab(req.GSTSlab),
			GoodsWithGST:  req.GoodsWithGST,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("item %q: %w", req.ProductName, err)
		}
		items = append(items, item)
		total += item.TotalCost
	}

	return items, total, nil
}

func (s *LedgerService) buildPaymentFilter(ctx context.Context, query ListPaymentsQuery) (*domain.PaymentFilter, error) {
	filter := &domain.PaymentFilter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	}
	if query.SupplierID != "" {
		filter.SupplierID = &query.SupplierID
	}
	if query.PaymentMode != "" {
		mode := domain.PaymentMode(query.PaymentMode)
		if !mode.IsValid() {
			return nil, apperrors.ErrValidation("invalid payment mode filter")
		}
		filter.PaymentMode = &mode
	}
	if query.Status != "" {
		status := domain.PaymentStatus(query.Status)
		filter.Status = &status
	}
	if query.ProductName != "" {
		filter.ProductName = &query.ProductName
	}
	filter.MinAmount = query.MinAmount
	filter.MaxAmount = query.MaxAmount

	if query.SupplierName != "" {
		suppliers, err := s.supplierRepo.FindByBusiness(ctx, query.BusinessID,
			domain.SupplierFilter{Search: &query.SupplierName}, domain.Pagination{Page: 1, PageSize: 100})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve supplier name: %w", err)
		}
		if len(suppliers) == 0 {
			return nil, nil
		}
		for _, sup := range suppliers {
			filter.SupplierIDs = append(filter.SupplierIDs, sup.SupplierID)
		}
	}

	return filter, nil
}

func (s *LedgerService) findSupplier(ctx context.Context, businessID, supplierID string) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, businessID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, apperrors.ErrNotFoundWithID("supplier", supplierID)
	}
	return supplier, nil
}

func (s *LedgerService) findPayment(ctx context.Context, businessID, paymentID string) (*domain.SupplierPayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, businessID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, apperrors.ErrNotFoundWithID("payment", paymentID)
	}
	return payment, nil
}

// collectPaymentEvents turns pending domain events into outbox events.
// Payment events partition by supplier id so postings for one supplier
// stay ordered; receipt events go to the inventory topic.
func (s *LedgerService) collectPaymentEvents(
	payment *domain.SupplierPayment,
	supplier *domain.Supplier,
	receipts []*domain.InventoryReceipt,
) ([]*outbox.Event, error) {
	var events []*outbox.Event

	for _, de := range payment.DomainEvents() {
		evt, err := outbox.NewEvent(payment.PaymentID, "supplier_payment", supplier.SupplierID, s.topics.Payments, de)
		if err != nil {
			return nil, fmt.Errorf("failed to build outbox event: %w", err)
		}
		events = append(events, evt)
	}

	for _, de := range supplier.DomainEvents() {
		evt, err := outbox.NewEvent(supplier.SupplierID, "supplier", supplier.SupplierID, s.topics.Suppliers, de)
		if err != nil {
			return nil, fmt.Errorf("failed to build outbox event: %w", err)
		}
		events = append(events, evt)
	}

	for _, r := range receipts {
		evt, err := outbox.NewEvent(r.ReceiptID, "inventory_receipt", supplier.SupplierID, s.topics.Inventory, &domain.InventoryReceiptRecordedEvent{
			ReceiptID:   r.ReceiptID,
			BusinessID:  r.BusinessID,
			SupplierID:  r.SupplierID,
			PaymentID:   r.PaymentID,
			LineItemID:  r.LineItemID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
			TotalCost:   r.TotalCost,
			ReceivedAt:  r.ReceivedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build receipt event: %w", err)
		}
		events = append(events, evt)
	}

	return events, nil
}

// txRetryConfig retries the whole transaction on version conflicts only
func (s *LedgerService) txRetryConfig(operation string) *resilience.RetryConfig {
	cfg := *s.retry
	cfg.RetryableErrors = func(err error) bool {
		if errors.Is(err, domain.ErrVersionConflict) {
			s.metrics.RecordTransactionRetry(operation)
			return true
		}
		return false
	}
	return &cfg
}

// translateTxError keeps AppErrors intact and maps exhausted version
// conflicts to a conflict the caller can retry
func (s *LedgerService) translateTxError(err error, operation string) error {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	if errors.Is(err, domain.ErrVersionConflict) {
		return apperrors.ErrConflict("concurrent update, please retry")
	}
	s.logger.WithOperation(operation).WithError(err).Error("Ledger operation failed")
	return apperrors.ErrDatabase(operation, err)
}

// mapDomainError classifies domain rejections
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrLineItemNotFound):
		return apperrors.ErrNotFound("line item")
	default:
		return apperrors.ErrValidation(err.Error())
	}
}
