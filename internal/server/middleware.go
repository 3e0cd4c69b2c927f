package server

import (
	"github.com/gin-gonic/gin"
	"github.com/inmovalia/catalogo/internal/tenantctx"
)

// TenantContext resolves the tenant_id path parameter, verifies the tenant
// exists and injects its id into the request context.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseSnowflakeID(c.Param("tenant_id"))
		if err != nil {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant id"))
			return
		}

		if _, err := s.tenants.Get(c.Request.Context(), id.String()); err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), id.Int64())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
