package entity

import "time"

const (
	UserStatusPending  = "PENDING"
	UserStatusActive   = "ACTIVE"
	UserStatusRejected = "REJECTED"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Username     string        `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string        `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Email        string        `gorm:"column:email;type:varchar(255)" json:"email"`
	Status       string        `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	DepartmentID *uint         `gorm:"column:department_id" json:"-"`
	Department   *DbDepartment `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Roles        []DbRole      `gorm:"many2many:user_roles" json:"roles"`
	AvatarPath   string        `gorm:"column:avatar_path;type:varchar(512)" json:"avatar_path,omitempty"`
	ResetToken   *string       `gorm:"column:reset_token;type:varchar(255)" json:"-"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// RoleNames 返回用户持有的角色名称集合。
func (u *DbUser) RoleNames() []string {
	if u == nil || len(u.Roles) == 0 {
		return []string{}
	}
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Authority)
	}
	return names
}

// HasRole 判断用户是否持有指定角色。
func (u *DbUser) HasRole(authority string) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if role.Authority == authority {
			return true
		}
	}
	return false
}

// DepartmentName 返回用户所属部门名称，未分配时返回空字符串。
func (u *DbUser) DepartmentName() string {
	if u == nil || u.Department == nil {
		return ""
	}
	return u.Department.Name
}

// UserSummary is the directory projection returned to clients.
type UserSummary struct {
	Username   string   `json:"username"`
	Department string   `json:"department"`
	Roles      []string `json:"roles"`
}

// PendingUserItem is the approval-queue projection.
type PendingUserItem struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// ApproveRequest carries the roles to grant and an optional department
// reassignment. Role names that do not exist in the catalog are ignored.
type ApproveRequest struct {
	Roles      []string `json:"roles"`
	Department string   `json:"department,omitempty"`
}

// UserUpdateRequest 目前仅支持修改用户名，其余字段即使出现也会被忽略。
type UserUpdateRequest struct {
	Username string `json:"username"`
}

// ActionResponse acknowledges an admin decision.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AvatarResponse returns the stored avatar location.
type AvatarResponse struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}
