package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffdir/internal/entity"

	"gorm.io/gorm"
)

// CreateRole persists a new role.
func (r *GormRepository) CreateRole(ctx context.Context, role *entity.DbRole) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if role == nil {
		return fmt.Errorf("role is nil")
	}
	return r.db.WithContext(ctx).Create(role).Error
}

// GetRoleByName loads a role by its authority name (exact match).
func (r *GormRepository) GetRoleByName(ctx context.Context, authority string) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(authority)
	if trimmed == "" {
		return nil, fmt.Errorf("authority is empty")
	}
	var role entity.DbRole
	if err := r.db.WithContext(ctx).Where("authority = ?", trimmed).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles returns the full role catalog.
func (r *GormRepository) ListRoles(ctx context.Context) ([]entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var roles []entity.DbRole
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// CountRoles returns total role count.
func (r *GormRepository) CountRoles(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbRole{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateDepartment persists a new department.
func (r *GormRepository) CreateDepartment(ctx context.Context, department *entity.DbDepartment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if department == nil {
		return fmt.Errorf("department is nil")
	}
	return r.db.WithContext(ctx).Create(department).Error
}

// GetDepartmentByName loads a department by name (exact match).
func (r *GormRepository) GetDepartmentByName(ctx context.Context, name string) (*entity.DbDepartment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("department name is empty")
	}
	var department entity.DbDepartment
	if err := r.db.WithContext(ctx).Where("name = ?", trimmed).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// GetOrCreateDepartment resolves a department by name, creating it on first
// reference. A duplicate-key error from a concurrent insert is treated as a
// benign race and resolved by re-fetching the winning row.
func (r *GormRepository) GetOrCreateDepartment(ctx context.Context, name string) (*entity.DbDepartment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("department name is empty")
	}

	existing, err := r.GetDepartmentByName(ctx, trimmed)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	department := entity.DbDepartment{Name: trimmed}
	if err := r.db.WithContext(ctx).Create(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetDepartmentByName(ctx, trimmed)
		}
		return nil, err
	}
	return &department, nil
}

// ListDepartments returns every department.
func (r *GormRepository) ListDepartments(ctx context.Context) ([]entity.DbDepartment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var departments []entity.DbDepartment
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// CountDepartments returns total department count.
func (r *GormRepository) CountDepartments(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbDepartment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
