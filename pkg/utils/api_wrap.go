package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

// HandleServiceError maps service sentinels onto HTTP statuses. Unknown errors are logged
// with the request trace id and reported as 500.
func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "Travel plan not found")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, "Too many requests")
	case errors.Is(err, ErrInvalidOrEmptyItinerary):
		logger.Warn("empty itinerary from model", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusUnprocessableEntity, "Could not generate an itinerary for this request")
	case errors.Is(err, ErrUnparseableModelOutput):
		logger.Error("unparseable model output", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "The itinerary service returned an unreadable answer")
	case errors.Is(err, ErrExternalService):
		logger.Error("external service failure", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "The itinerary service is unavailable")
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unknown error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
