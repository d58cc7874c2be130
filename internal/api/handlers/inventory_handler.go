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

// InventoryHandler handles HTTP requests for inventory receipts
type InventoryHandler struct {
	service *application.InventoryService
	logger  *logging.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *application.InventoryService, logger *logging.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger,
	}
}

// ListReceipts handles GET /api/v1/inventory/receipts
func (h *InventoryHandler) ListReceipts(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pagination := api.ParsePagination(c)

	query := application.ListReceiptsQuery{
		BusinessID:  middleware.GetBusinessContext(c).BusinessID,
		SupplierID:  c.Query("supplierId"),
		PaymentID:   c.Query("paymentId"),
		ProductName: c.Query("productName"),
		Page:        pagination.Page,
		PageSize:    pagination.PageSize,
	}

	if v := c.Query("dateFrom"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			responder.RespondWithAppError(errors.ErrValidation("invalid dateFrom format"))
			return
		}
		query.FromDate = &from
	}
	if v := c.Query("dateTo"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			responder.RespondWithAppError(errors.ErrValidation("invalid dateTo format"))
			return
		}
		query.ToDate = &to
	}

	result, err := h.service.ListReceipts(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
