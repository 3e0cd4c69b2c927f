package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
)

type createCatalogPayload struct {
	Tipo string `json:"tipo"`
	domain.CreateRequest
}

type togglePayload struct {
	Activo *bool `json:"activo"`
}

// ListCatalogs returns the merged unified-store catalogs grouped by kind.
// The activo=false query includes inactive items.
func (s *Server) ListCatalogs(c *gin.Context) {
	includeInactive, err := includeInactiveFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	catalogs := domain.Catalogs{}
	for _, meta := range domain.Kinds() {
		if meta.Storage != domain.StorageUnified {
			continue
		}
		items, err := s.catalogs.List(c.Request.Context(), meta.Kind, includeInactive)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		catalogs[meta.Kind] = items
	}

	c.JSON(http.StatusOK, gin.H{"catalogos": catalogs})
}

func (s *Server) CreateCatalogItem(c *gin.Context) {
	var payload createCatalogPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind, ok := domain.ParseKind(payload.Tipo)
	if !ok {
		AbortWithError(c, newValidationError("tipo", "unknown_kind", "unknown catalog kind"))
		return
	}

	item, err := s.catalogs.Create(c.Request.Context(), kind, payload.CreateRequest)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"catalogo": item})
}

func (s *Server) UpdateCatalogItem(c *gin.Context) {
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

func (s *Server) DeleteCatalogItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.catalogs.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleCatalogItem flips one item's per-tenant visibility. The first path
// segment after catalogos names the kind; gin binds it as :id because the
// update and delete routes own that wildcard position.
func (s *Server) ToggleCatalogItem(c *gin.Context) {
	kind, ok := domain.ParseKind(c.Param("id"))
	if !ok {
		AbortWithError(c, newValidationError("tipo", "unknown_kind", "unknown catalog kind"))
		return
	}
	code := strings.TrimSpace(c.Param("code"))

	var payload togglePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Activo == nil {
		AbortWithError(c, newValidationError("activo", "invalid_request", "activo is required"))
		return
	}

	item, err := s.catalogs.Toggle(c.Request.Context(), kind, code, *payload.Activo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"catalogo": item})
}

func includeInactiveFromQuery(c *gin.Context) (bool, error) {
	activo, err := parseOptionalBool(c.Query("activo"))
	if err != nil {
		return false, newValidationError("activo", "invalid_request", "invalid activo value")
	}
	// activo=false widens the listing to inactive items.
	return activo != nil && !*activo, nil
}
