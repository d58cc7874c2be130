package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/murtaza192168/inventory-supplier-management/internal/application"
	"github.com/murtaza192168/inventory-supplier-management/internal/domain"
	"github.com/murtaza192168/inventory-supplier-management/pkg/api"
	"github.com/murtaza192168/inventory-supplier-management/pkg/errors"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/middleware"
)

// PaymentHandler handles HTTP requests for the payment ledger
type PaymentHandler struct {
	service *application.LedgerService
	logger  *logging.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *application.LedgerService, logger *logging.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// PostPayment handles POST /api/v1/payments
func (h *PaymentHandler) PostPayment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.PostPaymentCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BusinessID = middleware.GetBusinessContext(c).BusinessID

	result, err := h.service.PostPayment(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// GetPayment handles GET /api/v1/payments/:paymentId
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	businessID := middleware.GetBusinessContext(c).BusinessID
	paymentID := c.Param("paymentId")

	result, err := h.service.GetPayment(c.Request.Context(), businessID, paymentID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query, appErr := h.parseListQuery(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.ListPayments(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReviseLineItem handles PUT /api/v1/payments/:paymentId/items/:itemId
func (h *PaymentHandler) ReviseLineItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.ReviseLineItemCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BusinessID = middleware.GetBusinessContext(c).BusinessID
	cmd.PaymentID = c.Param("paymentId")
	cmd.LineItemID = c.Param("itemId")

	if cmd.NewQuantity == nil && cmd.NewUnitPrice == nil {
		responder.RespondWithAppError(errors.ErrValidation("newQuantity or newUnitPrice is required"))
		return
	}

	result, err := h.service.ReviseLineItem(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ReverseInvoice handles DELETE /api/v1/payments/:paymentId
func (h *PaymentHandler) ReverseInvoice(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	businessID := middleware.GetBusinessContext(c).BusinessID
	paymentID := c.Param("paymentId")

	if err := h.service.ReverseInvoice(c.Request.Context(), businessID, paymentID); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment reversed",
	})
}

func (h *PaymentHandler) parseListQuery(c *gin.Context) (application.ListPaymentsQuery, *errors.AppError) {
	req := api.ParseListRequest(c, "paymentDate")

	query := application.ListPaymentsQuery{
		BusinessID:   middleware.GetBusinessContext(c).BusinessID,
		SupplierID:   req.Filter.SupplierID,
		SupplierName: c.Query("supplierName"),
		PaymentMode:  req.Filter.PaymentMode,
		Status:       req.Filter.Status,
		ProductName:  c.Query("productName"),
		Page:         req.Pagination.Page,
		PageSize:     req.Pagination.PageSize,
		SortBy:       req.Sort.Field,
		SortAsc:      req.Sort.Order == api.SortAsc,
	}

	if v := c.Query("minAmount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return query, errors.ErrValidation("minAmount must be a number")
		}
		min := domain.MoneyFromRupees(amount)
		query.MinAmount = &min
	}
	if v := c.Query("maxAmount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return query, errors.ErrValidation("maxAmount must be a number")
		}
		max := domain.MoneyFromRupees(amount)
		query.MaxAmount = &max
	}

	if req.Filter.DateFrom != "" {
		from, err := parseDate(req.Filter.DateFrom)
		if err != nil {
			return query, errors.ErrValidation("invalid dateFrom format")
		}
		query.FromDate = &from
	}
	if req.Filter.DateTo != "" {
		to, err := parseDate(req.Filter.DateTo)
		if err != nil {
			return query, errors.ErrValidation("invalid dateTo format")
		}
		query.ToDate = &to
	}

	return query, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
