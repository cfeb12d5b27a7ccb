package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"staffdir/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息
type RequestUser struct {
	ID         uint
	Username   string
	Department string
	Roles      []string
}

// HasRole 判断用户是否持有指定角色
func (u *RequestUser) HasRole(authority string) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if role == authority {
			return true
		}
	}
	return false
}

// IsAdmin 判断用户是否具有管理员权限
func (u *RequestUser) IsAdmin() bool {
	return u.HasRole(entity.RoleAdmin)
}

// AuthMiddleware JWT 认证中间件
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.repo == nil {
			AbortWithError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "user repository not available")
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			AbortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			AbortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			AbortWithError(c, http.StatusUnauthorized, ErrCodeSessionExpired, "token invalid or expired")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// 以数据库为准重新解析角色与部门，令牌只携带身份
		user, err := h.repo.GetUserByUsername(ctx, claims.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				AbortWithError(c, http.StatusUnauthorized, ErrCodeUserNotFound, "user no longer exists")
				return
			}
			logrus.WithError(err).WithField("username", claims.Username).Error("failed to load user")
			AbortWithError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to verify user")
			return
		}

		if user.Status != entity.UserStatusActive {
			AbortWithError(c, http.StatusForbidden, ErrCodeUserDisabled, "account is not active")
			return
		}

		requestUser := &RequestUser{
			ID:         user.ID,
			Username:   user.Username,
			Department: user.DepartmentName(),
			Roles:      user.RoleNames(),
		}

		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// RequireAdmin 管理员权限守卫中间件
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			AbortWithError(c, http.StatusForbidden, ErrCodeForbidden, "admin privileges required")
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
