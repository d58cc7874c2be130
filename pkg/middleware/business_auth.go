package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/murtaza192168/inventory-supplier-management/pkg/business"
	"github.com/murtaza192168/inventory-supplier-management/pkg/logging"
)

// Business scoping headers. The gateway authenticates the user and forwards
// the resolved business identity on these headers.
const (
	HeaderBusinessID = "X-Business-ID"
	HeaderUserID     = "X-User-ID"
)

// BusinessAuthConfig holds configuration for business scoping middleware
type BusinessAuthConfig struct {
	// Required when true, requests without a business ID are rejected
	Required bool
}

// BusinessAuth middleware extracts the business context from headers and
// attaches it to the request context. Every ledger operation downstream is
// scoped by it.
func BusinessAuth(config *BusinessAuthConfig) gin.HandlerFunc {
	if config == nil {
		config = &BusinessAuthConfig{Required: true}
	}

	return func(c *gin.Context) {
		businessID := c.GetHeader(HeaderBusinessID)
		userID := c.GetHeader(HeaderUserID)

		if config.Required && businessID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_BUSINESS_CONTEXT",
				"message": "X-Business-ID header is required",
			})
			return
		}

		bc := &business.Context{
			BusinessID: businessID,
			UserID:     userID,
		}

		ctx := business.ToContext(c.Request.Context(), bc)
		if bc.BusinessID != "" {
			ctx = logging.ContextWithBusinessID(ctx, bc.BusinessID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set("businessContext", bc)

		c.Next()
	}
}

// GetBusinessContext retrieves the business context from the Gin context
func GetBusinessContext(c *gin.Context) *business.Context {
	if val, exists := c.Get("businessContext"); exists {
		if bc, ok := val.(*business.Context); ok {
			return bc
		}
	}
	return &business.Context{}
}

// RequireBusiness ensures a business context is present. Use on route groups
// that must never run unscoped.
func RequireBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		bc := GetBusinessContext(c)
		if bc == nil || bc.IsEmpty() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_BUSINESS_CONTEXT",
				"message": "Business context is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}
