package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffdir/internal/auth"
	"staffdir/internal/config"
	"staffdir/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type userSeed struct {
	Username   string
	Role       string
	Department string
}

// SeedDirectory 初始化角色与部门目录，并按配置创建管理员和演示账号。
// 所有步骤都以存量计数作为幂等保护，重复启动不会重写已有数据。
func SeedDirectory(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	if err := seedRoles(ctx, repo); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedDepartments(ctx, repo); err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	if err := seedAdminUser(ctx, repo, cfg); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if cfg.SeedDemoUsers {
		if err := seedDemoUsers(ctx, repo); err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
	}
	return nil
}

func seedRoles(ctx context.Context, repo Repository) error {
	count, err := repo.CountRoles(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, authority := range entity.SeedRoleCatalog() {
		if err := repo.CreateRole(ctx, &entity.DbRole{Authority: authority}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	logrus.Info("seeded role catalog")
	return nil
}

func seedDepartments(ctx context.Context, repo Repository) error {
	count, err := repo.CountDepartments(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range entity.SeedDepartmentCatalog() {
		if err := repo.CreateDepartment(ctx, &entity.DbDepartment{Name: name}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	logrus.Info("seeded department catalog")
	return nil
}

// seedAdminUser 按配置创建引导管理员。未配置密码时跳过，避免带出默认口令。
func seedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	username := strings.TrimSpace(cfg.AdminUsername)
	password := strings.TrimSpace(cfg.AdminPassword)
	if username == "" || password == "" {
		return nil
	}
	return createActiveUser(ctx, repo, username, password, entity.RoleAdmin, entity.RoleAdmin, username+"@staffdir.local")
}

func seedDemoUsers(ctx context.Context, repo Repository) error {
	seeds := []userSeed{
		{Username: "testUser", Role: entity.RolePayroll, Department: entity.RolePayroll},
		{Username: "payroll1", Role: entity.RolePayroll, Department: entity.RolePayroll},
		{Username: "payroll2", Role: entity.RolePayroll, Department: entity.RolePayroll},
		{Username: "hr1", Role: entity.RoleHR, Department: entity.RoleHR},
		{Username: "hr2", Role: entity.RoleHR, Department: entity.RoleHR},
		{Username: "finance1", Role: entity.RoleFinance, Department: entity.RoleFinance},
		{Username: "finance2", Role: entity.RoleFinance, Department: entity.RoleFinance},
		{Username: "sales1", Role: entity.RoleSales, Department: entity.RoleSales},
		{Username: "sales2", Role: entity.RoleSales, Department: entity.RoleSales},
		{Username: "it1", Role: entity.RoleIT, Department: entity.RoleIT},
		{Username: "it2", Role: entity.RoleIT, Department: entity.RoleIT},
	}
	for _, seed := range seeds {
		if err := createActiveUser(ctx, repo, seed.Username, "password", seed.Role, seed.Department, seed.Username+"@email.com"); err != nil {
			return err
		}
	}
	return nil
}

// createActiveUser 创建一个直接处于 ACTIVE 状态的账号，已存在时跳过。
func createActiveUser(ctx context.Context, repo Repository, username, password, roleName, deptName, email string) error {
	if _, err := repo.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	department, err := repo.GetOrCreateDepartment(ctx, deptName)
	if err != nil {
		return err
	}

	roles := make([]entity.DbRole, 0, 2)
	if role, err := repo.GetRoleByName(ctx, roleName); err == nil {
		roles = append(roles, *role)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if general, err := repo.GetRoleByName(ctx, entity.RoleGeneral); err == nil && roleName != entity.RoleGeneral {
		roles = append(roles, *general)
	}

	user := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Status:       entity.UserStatusActive,
		DepartmentID: &department.ID,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return err
	}
	if len(roles) > 0 {
		if err := repo.ReplaceUserRoles(ctx, user, roles); err != nil {
			return err
		}
	}
	logrus.WithField("username", username).Info("created seeded user")
	return nil
}
