package api

import (
	"errors"
	"net/http"
	"time"

	"staffdir/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodePendingApproval    = "ERR_PENDING_APPROVAL"
	ErrCodeAccountRejected    = "ERR_ACCOUNT_REJECTED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"

	// 资源错误码
	ErrCodeUserNotFound    = "ERR_USER_NOT_FOUND"
	ErrCodeUserExists      = "ERR_USER_EXISTS"
	ErrCodeEmailExists     = "ERR_EMAIL_EXISTS"
	ErrCodeNothingToDelete = "ERR_NOTHING_TO_DELETE"

	// 业务逻辑错误码
	ErrCodeMissingField = "ERR_MISSING_FIELD"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func newAPIError(c *gin.Context, code, message string) APIError {
	path := ""
	if c != nil && c.Request != nil && c.Request.URL != nil {
		path = c.Request.URL.Path
	}
	return APIError{
		Code:      code,
		Message:   message,
		Path:      path,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, newAPIError(c, code, message))
}

// AbortWithError 中止请求链并返回统一错误响应
func AbortWithError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, newAPIError(c, code, message))
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// ServiceError 统一的领域错误转换器：把 service 层的哨兵错误映射为
// HTTP 状态码与错误码，其余错误一律按 500 处理且不对外泄露细节。
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		NotFound(c, ErrCodeUserNotFound, err.Error())
	case errors.Is(err, service.ErrNothingToDelete):
		NotFound(c, ErrCodeNothingToDelete, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		BadRequest(c, ErrCodeUserExists, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		BadRequest(c, ErrCodeEmailExists, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrAwaitingApproval):
		Unauthorized(c, ErrCodePendingApproval, err.Error())
	case errors.Is(err, service.ErrAccountRejected):
		Unauthorized(c, ErrCodeAccountRejected, err.Error())
	default:
		logrus.WithError(err).Error("request failed")
		InternalError(c, "internal server error")
	}
}
