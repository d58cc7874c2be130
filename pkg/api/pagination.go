package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageRequest represents pagination request parameters
type PageRequest struct {
	Page     int64 `form:"page" binding:"min=1" json:"page"`
	PageSize int64 `form:"pageSize" binding:"min=1,max=100" json:"pageSize"`
}

// ParsePagination parses pagination parameters from Gin context
func ParsePagination(c *gin.Context) PageRequest {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return PageRequest{
		Page:     page,
		PageSize: pageSize,
	}
}

// SortOrder represents sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortRequest represents sorting parameters
type SortRequest struct {
	Field string    `form:"sortBy" json:"sortBy"`
	Order SortOrder `form:"order" json:"order"`
}

// ParseSort parses sorting parameters from Gin context
func ParseSort(c *gin.Context, defaultField string) SortRequest {
	field := c.DefaultQuery("sortBy", defaultField)
	order := SortOrder(c.DefaultQuery("order", string(SortDesc)))

	if order != SortAsc && order != SortDesc {
		order = SortDesc
	}

	return SortRequest{
		Field: field,
		Order: order,
	}
}

// FilterRequest represents common ledger list filters. Date bounds apply
// to the payment date, formatted as RFC 3339 or plain YYYY-MM-DD.
type FilterRequest struct {
	SupplierID  string `form:"supplierId" json:"supplierId,omitempty"`
	InvoiceNo   string `form:"invoiceNo" json:"invoiceNo,omitempty"`
	PaymentMode string `form:"paymentMode" json:"paymentMode,omitempty"`
	Status      string `form:"status" json:"status,omitempty"`
	DateFrom    string `form:"dateFrom" json:"dateFrom,omitempty"`
	DateTo      string `form:"dateTo" json:"dateTo,omitempty"`
}

// ParseFilter parses common filter parameters from Gin context
func ParseFilter(c *gin.Context) FilterRequest {
	return FilterRequest{
		SupplierID:  c.Query("supplierId"),
		InvoiceNo:   c.Query("invoiceNo"),
		PaymentMode: c.Query("paymentMode"),
		Status:      c.Query("status"),
		DateFrom:    c.Query("dateFrom"),
		DateTo:      c.Query("dateTo"),
	}
}

// ListRequest combines pagination, sorting, and filtering
type ListRequest struct {
	Pagination PageRequest
	Sort       SortRequest
	Filter     FilterRequest
}

// ParseListRequest parses all list parameters from Gin context
func ParseListRequest(c *gin.Context, defaultSortField string) ListRequest {
	return ListRequest{
		Pagination: ParsePagination(c),
		Sort:       ParseSort(c, defaultSortField),
		Filter:     ParseFilter(c),
	}
}
