package middleware

import (
	"net/http"

	"github.com/bipcerto/backend/internal/infrastructure/logger"
	"github.com/bipcerto/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyIDHeader identifies the tenant on every API request
const CompanyIDHeader = "X-Company-ID"

// companyIDKey is the gin context key the handlers read
const companyIDKey = "company_id"

// RequireCompany rejects requests without a valid tenant header and stores
// the parsed company ID for handlers
func RequireCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CompanyIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing "+CompanyIDHeader+" header", c.GetString("request_id")))
			return
		}

		companyID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid "+CompanyIDHeader+" header", c.GetString("request_id")))
			return
		}

		c.Set(companyIDKey, companyID)

		ctx, _ := logger.WithCompanyID(c.Request.Context(), logger.FromContext(c.Request.Context()), companyID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCompanyID returns the tenant parsed by RequireCompany
func GetCompanyID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(companyIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
