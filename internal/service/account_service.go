package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staffdir/internal/auth"
	"staffdir/internal/entity"
	"staffdir/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountService 负责账号生命周期：注册、登录、审批与驳回。
//
// 状态机：注册创建 PENDING 账号；Approve 置为 ACTIVE，Reject 置为
// REJECTED。两个决策操作都可以重复调用，不存在回到 PENDING 的迁移。
type AccountService struct {
	repo   model.Repository
	tokens *auth.Manager
}

// NewAccountService 创建账号生命周期服务。
func NewAccountService(repo model.Repository, tokens *auth.Manager) *AccountService {
	return &AccountService{repo: repo, tokens: tokens}
}

// Register creates a PENDING account with an empty role set. The department
// is resolved or created by name; when none is supplied the default
// department is used.
func (s *AccountService) Register(ctx context.Context, req entity.AuthRegisterRequest) (*entity.DbUser, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" {
		if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	departmentName := strings.TrimSpace(req.Department)
	if departmentName == "" {
		departmentName = entity.DefaultDepartment
	}
	department, err := s.repo.GetOrCreateDepartment(ctx, departmentName)
	if err != nil {
		return nil, fmt.Errorf("resolve department: %w", err)
	}

	user := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Status:       entity.UserStatusPending,
		DepartmentID: &department.ID,
		Department:   department,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// 并发注册同名用户时唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logrus.WithField("username", username).Info("registered pending user")
	return user, nil
}

// Login verifies credentials and gates on account status before issuing a
// token. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*entity.DbUser, string, time.Time, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	switch user.Status {
	case entity.UserStatusPending:
		return nil, "", time.Time{}, ErrAwaitingApproval
	case entity.UserStatusRejected:
		return nil, "", time.Time{}, ErrAccountRejected
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return user, token, expiresAt, nil
}

// Approve activates the account. Role names are resolved by exact match and
// unknown names are ignored; when at least one resolves the existing role
// set is replaced wholesale. An optional department reassignment uses
// find-or-create semantics.
func (s *AccountService) Approve(ctx context.Context, username string, roleNames []string, departmentName string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	resolved := make([]entity.DbRole, 0, len(roleNames))
	for _, name := range roleNames {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		role, err := s.repo.GetRoleByName(ctx, trimmed)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.WithField("role", trimmed).Warn("ignoring unknown role during approval")
				continue
			}
			return nil, fmt.Errorf("resolve role %q: %w", trimmed, err)
		}
		resolved = append(resolved, *role)
	}
	if trimmed := strings.TrimSpace(departmentName); trimmed != "" {
		department, err := s.repo.GetOrCreateDepartment(ctx, trimmed)
		if err != nil {
			return nil, fmt.Errorf("resolve department: %w", err)
		}
		user.DepartmentID = &department.ID
		user.Department = department
	}

	// 先落地状态迁移，角色集替换只在账号已激活后执行，
	// 避免中途失败留下"已换角色但仍 PENDING"的半成品
	user.Status = entity.UserStatusActive
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	if len(resolved) > 0 {
		if err := s.repo.ReplaceUserRoles(ctx, user, resolved); err != nil {
			return nil, fmt.Errorf("replace roles: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"username": user.Username,
		"roles":    user.RoleNames(),
	}).Info("approved user")
	return user, nil
}

// Reject marks the account REJECTED. Calling it again is a no-op in effect.
func (s *AccountService) Reject(ctx context.Context, username string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user.Status = entity.UserStatusRejected
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	logrus.WithField("username", user.Username).Info("rejected user")
	return user, nil
}
