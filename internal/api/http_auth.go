package api

import (
	"context"
	"net/http"
	"time"

	"staffdir/internal/entity"
	"staffdir/internal/service"

	"github.com/gin-gonic/gin"
)

// Register 处理自助注册，新账号进入 PENDING 状态等待管理员审批。
func (h *HTTPHandler) Register(c *gin.Context) {
	if h.repo == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "user repository not available")
		return
	}

	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.accounts.Register(ctx, req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service.SummarizeUser(user))
}

func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, expiresAt, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      service.SummarizeUser(user),
	})
}

// PublicDepartments 注册页需要的部门名称集合，无需认证。
func (h *HTTPHandler) PublicDepartments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names, err := h.directory.DepartmentNames(ctx)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.directory.GetUser(ctx, user.Username)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.SummarizeUser(dbUser))
}
