package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	ErrCodeInvalidRequest   = "ERR_INVALID_REQUEST"
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeInternalError    = "ERR_INTERNAL_ERROR"
	ErrCodeSessionExpired   = "ERR_SESSION_EXPIRED"
	ErrCodeSubmitInProgress = "ERR_SUBMIT_IN_PROGRESS"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// APIError 统一的错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, "page not found")
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// InvalidPayload 无效的表单数据
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid form payload")
}
