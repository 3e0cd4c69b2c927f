package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
)

// ListDomainItems returns one separate-store kind. Route aliases such as
// amenidades and tipos_propiedad resolve to their canonical kind.
func (s *Server) ListDomainItems(c *gin.Context) {
	kind, err := separateKindFromPath(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	includeInactive, err := includeInactiveFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.catalogs.List(c.Request.Context(), kind, includeInactive)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) CreateDomainItem(c *gin.Context) {
	kind, err := separateKindFromPath(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogs.Create(c.Request.Context(), kind, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"catalogo": item})
}

func (s *Server) UpdateDomainItem(c *gin.Context) {
	if _, err := separateKindFromPath(c); err != nil {
		AbortWithError(c, err)
		return
	}
	id := strings.TrimSpace(c.Param("id"))

	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogs.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"catalogo": item})
}

func (s *Server) DeleteDomainItem(c *gin.Context) {
	if _, err := separateKindFromPath(c); err != nil {
		AbortWithError(c, err)
		return
	}
	id := strings.TrimSpace(c.Param("id"))

	if err := s.catalogs.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DomainItemCounts returns per-kind totals for the separate-store kinds.
func (s *Server) DomainItemCounts(c *gin.Context) {
	counts, err := s.catalogs.Counts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conteos": counts})
}

func separateKindFromPath(c *gin.Context) (domain.Kind, error) {
	kind, ok := domain.ParseKind(c.Param("kind"))
	if !ok {
		return "", newValidationError("tipo", "unknown_kind", "unknown catalog kind")
	}
	meta, ok := domain.MetaFor(kind)
	if !ok || meta.Storage != domain.StorageSeparate {
		return "", newValidationError("tipo", "unknown_kind", "not a dedicated-table kind")
	}
	return kind, nil
}
