package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/inmovalia/catalogo/internal/tenantctx"
)

func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenants.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant})
}

func (s *Server) ListTenantLocales(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrNotFound)
		return
	}

	locales, err := s.tenants.Locales(c.Request.Context(), tenantID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locales": locales})
}
