package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"staffdir/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListActiveUsers 员工目录：仅包含 ACTIVE 账号的展示投影。
func (h *HTTPHandler) ListActiveUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.directory.ActiveUsers(ctx)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListPendingUsers 审批队列投影。
func (h *HTTPHandler) ListPendingUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.directory.PendingUsers(ctx)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *HTTPHandler) ApproveUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		BadRequest(c, ErrCodeMissingField, "username is required")
		return
	}

	var req entity.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.accounts.Approve(ctx, username, req.Roles, req.Department); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ActionResponse{Success: true, Message: "User approved successfully"})
}

func (h *HTTPHandler) RejectUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		BadRequest(c, ErrCodeMissingField, "username is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.accounts.Reject(ctx, username); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ActionResponse{Success: true, Message: "User rejected"})
}

// GetUser 返回单个用户的完整记录。
func (h *HTTPHandler) GetUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.directory.GetUser(ctx, username)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser 目前仅支持改名，请求里出现的其他字段会被忽略。
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.directory.UpdateUsername(ctx, username, req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.directory.DeleteUser(ctx, username); err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *HTTPHandler) DeleteAllUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.directory.DeleteAllUsers(ctx); err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// ListUsersByDepartment 按部门名精确匹配列出完整记录。
func (h *HTTPHandler) ListUsersByDepartment(c *gin.Context) {
	department := strings.TrimSpace(c.Param("dept"))
	if department == "" {
		BadRequest(c, ErrCodeMissingField, "department is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.directory.UsersByDepartment(ctx, department)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *HTTPHandler) ListRoles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names, err := h.directory.RoleNames(ctx)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *HTTPHandler) ListDepartments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names, err := h.directory.DepartmentNames(ctx)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}
