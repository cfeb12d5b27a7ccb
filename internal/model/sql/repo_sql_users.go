package sql

import (
	"context"
	"fmt"
	"strings"

	"staffdir/internal/entity"

	"gorm.io/gorm"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// SaveUser upserts the user row together with its department reference.
// Role membership is managed separately via ReplaceUserRoles.
func (r *GormRepository) SaveUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Omit("Roles").Save(user).Error
}

// UpdateUser updates an existing user entry.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user")
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates).Error
}

// GetUserByUsername loads a user with roles and department preloaded.
func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, fmt.Errorf("username is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Where("username = ?", trimmed).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Where("LOWER(email) = ?", strings.ToLower(trimmed)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user with associations preloaded.
func (r *GormRepository) ListUsers(ctx context.Context) ([]entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []entity.DbUser
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsersByStatus returns users in the given lifecycle state.
func (r *GormRepository) ListUsersByStatus(ctx context.Context, status string) ([]entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []entity.DbUser
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Where("status = ?", strings.TrimSpace(status)).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsersByDepartment returns users whose department name matches exactly.
func (r *GormRepository) ListUsersByDepartment(ctx context.Context, department string) ([]entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []entity.DbUser
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Joins("JOIN departments ON departments.id = users.department_id").
		Where("departments.name = ?", strings.TrimSpace(department)).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ReplaceUserRoles overwrites the user's role set with the provided roles.
func (r *GormRepository) ReplaceUserRoles(ctx context.Context, user *entity.DbUser, roles []entity.DbRole) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil || user.ID == 0 {
		return fmt.Errorf("invalid user")
	}
	if err := r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

// DeleteUserByUsername removes a user and its role memberships.
func (r *GormRepository) DeleteUserByUsername(ctx context.Context, username string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return fmt.Errorf("username is empty")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.DbUser
		if err := tx.Where("username = ?", trimmed).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// DeleteAllUsers clears the user collection and the role join table.
func (r *GormRepository) DeleteAllUsers(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles").Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&entity.DbUser{}).Error
	})
}

// CountUsers returns total user count.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
