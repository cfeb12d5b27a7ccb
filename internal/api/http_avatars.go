package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"staffdir/internal/entity"
	"staffdir/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxAvatarBytes = 5 << 20

var allowedAvatarExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// UploadAvatar 保存当前用户的头像并记录存储路径。
func (h *HTTPHandler) UploadAvatar(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized, "authentication required")
		return
	}
	if h.storage == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "avatar storage not available")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		BadRequest(c, ErrCodeMissingField, "avatar file is required")
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxAvatarBytes {
		BadRequest(c, ErrCodeInvalidRequest, "avatar must be between 1 byte and 5 MB")
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		BadRequest(c, ErrCodeInvalidRequest, "unsupported avatar format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded avatar")
		InternalError(c, "failed to read avatar")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded avatar")
		InternalError(c, "failed to read avatar")
		return
	}
	if len(data) > maxAvatarBytes {
		BadRequest(c, ErrCodeInvalidRequest, "avatar must be between 1 byte and 5 MB")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "avatars",
		BaseName:  user.Username,
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).WithField("username", user.Username).Error("failed to store avatar")
		InternalError(c, "failed to store avatar")
		return
	}

	if err := h.repo.UpdateUser(ctx, user.ID, map[string]interface{}{"avatar_path": path}); err != nil {
		logrus.WithError(err).WithField("username", user.Username).Error("failed to record avatar path")
		InternalError(c, "failed to store avatar")
		return
	}

	c.JSON(http.StatusOK, entity.AvatarResponse{
		Path: path,
		URL:  h.publicFileURL(path),
	})
}

// publicFileURL 根据配置的公共前缀拼接可访问的文件 URL。
func (h *HTTPHandler) publicFileURL(path string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return ""
	}
	return h.storagePublicBase + "/" + trimmed
}
