// Package handler holds the gin handlers of the admin API.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"github.com/nexus/backend/internal/interfaces/http/dto"
	"github.com/nexus/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends a failure envelope with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(message))
}

// HandleError converts err into a response. Domain errors keep their message
// and map to the status of their code; anything else is logged and answered
// with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Message)
		return
	}

	logger.CtxOr(c.Request.Context(), logger.GetGinLogger(c)).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInternal), internalErrorMessage)
}

// readBody returns the raw request body. On failure the response is already
// written and ok is false.
func (h *BaseHandler) readBody(c *gin.Context) (body []byte, ok bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeTooLarge), "Request body exceeds maximum allowed size")
			return nil, false
		}
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeBadRequest), "Failed to read request body")
		return nil, false
	}
	return body, true
}

// actor returns the user acting in the request
func actor(c *gin.Context) string {
	return middleware.GetActor(c)
}
