// Package handler adapts the CRM application services to gin.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"github.com/wealthcrm/backend/internal/infrastructure/logger"
	"github.com/wealthcrm/backend/internal/interfaces/http/dto"
	"github.com/wealthcrm/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a complete list with its size in meta
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// BindJSON decodes the body into req. On failure it writes the response
// and returns false.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	return h.bind(c, c.ShouldBindJSON(req))
}

// BindQuery decodes the query string into req. On failure it writes the
// response and returns false.
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	return h.bind(c, c.ShouldBindQuery(req))
}

func (h *BaseHandler) bind(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case middleware.ValidationDetails(err) != nil:
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			middleware.GetRequestID(c),
			middleware.ValidationDetails(err),
		))
	default:
		h.BadRequest(c, "Invalid request body: "+err.Error())
	}
	return false
}

// ParamID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func (h *BaseHandler) ParamID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// HandleError converts service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			validationErr.Error(),
			requestID,
			[]dto.ValidationDetail{{Field: validationErr.Field, Message: validationErr.Message}},
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	_ = c.Error(err)
	var storeErr *shared.StoreError
	if errors.As(err, &storeErr) {
		logger.L(c.Request.Context()).Error("Store operation failed", zap.String("op", storeErr.Op), zap.Error(storeErr.Err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeStore, "The data store could not complete the request", requestID))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
