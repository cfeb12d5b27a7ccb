package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffdir/internal/entity"
	"staffdir/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DirectoryService 提供目录的读侧查询与管理性删除、改名操作。
type DirectoryService struct {
	repo model.Repository
}

// NewDirectoryService 创建目录查询服务。
func NewDirectoryService(repo model.Repository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

// SummarizeUser projects a user into the directory display shape.
func SummarizeUser(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{Roles: []string{}}
	}
	return entity.UserSummary{
		Username:   user.Username,
		Department: user.DepartmentName(),
		Roles:      user.RoleNames(),
	}
}

// ActiveUsers lists ACTIVE accounts projected for the general directory.
func (s *DirectoryService) ActiveUsers(ctx context.Context) ([]entity.UserSummary, error) {
	users, err := s.repo.ListUsersByStatus(ctx, entity.UserStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	summaries := make([]entity.UserSummary, 0, len(users))
	for idx := range users {
		summaries = append(summaries, SummarizeUser(&users[idx]))
	}
	return summaries, nil
}

// PendingUsers lists PENDING accounts projected for the approval queue.
func (s *DirectoryService) PendingUsers(ctx context.Context) ([]entity.PendingUserItem, error) {
	users, err := s.repo.ListUsersByStatus(ctx, entity.UserStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	items := make([]entity.PendingUserItem, 0, len(users))
	for idx := range users {
		user := &users[idx]
		department := user.DepartmentName()
		if department == "" {
			department = "N/A"
		}
		items = append(items, entity.PendingUserItem{
			Username:   user.Username,
			Email:      user.Email,
			Department: department,
			Status:     user.Status,
		})
	}
	return items, nil
}

// UsersByDepartment lists full records for a department (exact name match).
func (s *DirectoryService) UsersByDepartment(ctx context.Context, department string) ([]entity.DbUser, error) {
	users, err := s.repo.ListUsersByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("list users by department: %w", err)
	}
	return users, nil
}

// GetUser fetches a single full record by username.
func (s *DirectoryService) GetUser(ctx context.Context, username string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// RoleNames returns the full role-name catalog.
func (s *DirectoryService) RoleNames(ctx context.Context) ([]string, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Authority)
	}
	return names, nil
}

// DepartmentNames returns the unique department-name set.
func (s *DirectoryService) DepartmentNames(ctx context.Context) ([]string, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	names := make([]string, 0, len(departments))
	for _, department := range departments {
		names = append(names, department.Name)
	}
	return names, nil
}

// DeleteUser removes a single user. The existence check runs first so the
// caller gets a not-found error instead of a silent no-op.
func (s *DirectoryService) DeleteUser(ctx context.Context, username string) error {
	trimmed := strings.TrimSpace(username)
	if _, err := s.repo.GetUserByUsername(ctx, trimmed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := s.repo.DeleteUserByUsername(ctx, trimmed); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	logrus.WithField("username", trimmed).Info("deleted user")
	return nil
}

// DeleteAllUsers clears the store; it refuses when there is nothing to
// delete.
func (s *DirectoryService) DeleteAllUsers(ctx context.Context) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		return ErrNothingToDelete
	}
	if err := s.repo.DeleteAllUsers(ctx); err != nil {
		return fmt.Errorf("delete all users: %w", err)
	}
	logrus.WithField("count", count).Warn("deleted all users")
	return nil
}

// UpdateUsername re-assigns the username of an existing record. Other fields
// of the request are ignored even when present.
func (s *DirectoryService) UpdateUsername(ctx context.Context, username string, req entity.UserUpdateRequest) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	newUsername := strings.TrimSpace(req.Username)
	if newUsername == "" || newUsername == user.Username {
		return user, nil
	}

	if err := s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{"username": newUsername}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update username: %w", err)
	}
	user.Username = newUsername
	return user, nil
}
