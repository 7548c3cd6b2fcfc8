package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/domain/shared"
)

// ResourceHandler exposes the CRUD routes of one entity type
type ResourceHandler[T any, P shared.EntityPtr[T]] struct {
	BaseHandler
	service *crud.Service[T, P]
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler[T any, P shared.EntityPtr[T]](service *crud.Service[T, P]) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{service: service}
}

// List handles GET /api/{resource}
func (h *ResourceHandler[T, P]) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get handles GET /api/{resource}/:id
func (h *ResourceHandler[T, P]) Get(c *gin.Context) {
	entity, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// Create handles POST /api/{resource}
func (h *ResourceHandler[T, P]) Create(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	entity, err := h.service.Create(c.Request.Context(), actor(c), body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entity)
}

// Update handles PUT /api/{resource}/:id
func (h *ResourceHandler[T, P]) Update(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	entity, err := h.service.Update(c.Request.Context(), actor(c), c.Param("id"), body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete handles DELETE /api/{resource}/:id
func (h *ResourceHandler[T, P]) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
