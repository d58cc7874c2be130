package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/murtaza192168/inventory-supplier-management/internal/application"
	"github.com/murtaza192168/inventory-supplier-management/pkg/api"
	"github.com/murtaza192168/inventory-supplier-management/pkg/errors"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
	"github.com/murtaza192168/inventory-supplier-management/pkg/middleware"
)

// SupplierHandler handles HTTP requests for suppliers
type SupplierHandler struct {
	service *application.SupplierService
	ledger  *application.LedgerService
	logger  *logging.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(service *application.SupplierService, ledger *application.LedgerService, logger *logging.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		ledger:  ledger,
		logger:  logger,
	}
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateSupplierCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BusinessID = middleware.GetBusinessContext(c).BusinessID

	result, err := h.service.CreateSupplier(c.Request.Context(), cmd)
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

// GetSupplier handles GET /api/v1/suppliers/:supplierId
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	businessID := middleware.GetBusinessContext(c).BusinessID
	supplierID := c.Param("supplierId")

	result, err := h.service.GetSupplier(c.Request.Context(), businessID, supplierID)
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

// ListSuppliers handles GET /api/v1/suppliers
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pagination := api.ParsePagination(c)

	query := application.ListSuppliersQuery{
		BusinessID: middleware.GetBusinessContext(c).BusinessID,
		Search:     c.Query("search"),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}

	result, err := h.service.ListSuppliers(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateSupplier handles PUT /api/v1/suppliers/:supplierId
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateSupplierCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BusinessID = middleware.GetBusinessContext(c).BusinessID
	cmd.SupplierID = c.Param("supplierId")

	result, err := h.service.UpdateSupplier(c.Request.Context(), cmd)
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

// ListSupplierPayments handles GET /api/v1/suppliers/:supplierId/payments
func (h *SupplierHandler) ListSupplierPayments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	businessID := middleware.GetBusinessContext(c).BusinessID
	supplierID := c.Param("supplierId")

	result, err := h.ledger.GetPaymentsForSupplier(c.Request.Context(), businessID, supplierID)
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

// AuditSupplierBalance handles GET /api/v1/suppliers/:supplierId/balance/audit
func (h *SupplierHandler) AuditSupplierBalance(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	businessID := middleware.GetBusinessContext(c).BusinessID
	supplierID := c.Param("supplierId")

	result, err := h.ledger.AuditSupplierBalance(c.Request.Context(), businessID, supplierID)
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
