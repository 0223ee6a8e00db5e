package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// errorFromLogic 将业务错误映射为状态码与提示，未知错误使用 fallback
func errorFromLogic(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, logic.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, logic.ErrInvalidAmount):
		ErrorResponse(c, http.StatusBadRequest, "Amount must be greater than 0")
	case errors.Is(err, logic.ErrInvalidRequest):
		ErrorResponse(c, http.StatusBadRequest, "Invalid request data")
	case errors.Is(err, logic.ErrTransactionNotFound):
		ErrorResponse(c, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, logic.ErrServiceUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		ErrorResponse(c, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
	default:
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
