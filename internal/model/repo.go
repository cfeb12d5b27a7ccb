package model

import (
	"context"

	"staffdir/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	SaveUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	ListUsersByStatus(ctx context.Context, status string) ([]entity.DbUser, error)
	ListUsersByDepartment(ctx context.Context, department string) ([]entity.DbUser, error)
	ReplaceUserRoles(ctx context.Context, user *entity.DbUser, roles []entity.DbRole) error
	DeleteUserByUsername(ctx context.Context, username string) error
	DeleteAllUsers(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)

	// 角色目录
	CreateRole(ctx context.Context, role *entity.DbRole) error
	GetRoleByName(ctx context.Context, authority string) (*entity.DbRole, error)
	ListRoles(ctx context.Context) ([]entity.DbRole, error)
	CountRoles(ctx context.Context) (int64, error)

	// 部门目录
	CreateDepartment(ctx context.Context, department *entity.DbDepartment) error
	GetDepartmentByName(ctx context.Context, name string) (*entity.DbDepartment, error)
	GetOrCreateDepartment(ctx context.Context, name string) (*entity.DbDepartment, error)
	ListDepartments(ctx context.Context) ([]entity.DbDepartment, error)
	CountDepartments(ctx context.Context) (int64, error)
}
