package entity

import "time"

// 启动时种子化的固定角色目录
const (
	RoleAdmin   = "ADMIN"
	RoleUser    = "USER"
	RolePayroll = "PAYROLL"
	RoleHR      = "HR"
	RoleFinance = "FINANCE"
	RoleSales   = "SALES"
	RoleGeneral = "GENERAL"
	RoleIT      = "IT"
)

// DefaultDepartment 注册时未指定部门的兜底部门。
const DefaultDepartment = "USER"

// DbRole is a named authority attached to users. The catalog is seeded once
// and referenced, never created, during normal operation.
type DbRole struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	Authority string    `gorm:"column:authority;type:varchar(100);uniqueIndex;not null" json:"authority"`
}

// TableName overrides default pluralised name.
func (DbRole) TableName() string {
	return "roles"
}

// DbDepartment is an organisational grouping. Departments are created lazily
// the first time an unseen name is referenced.
type DbDepartment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	Name      string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
}

// TableName overrides default pluralised name.
func (DbDepartment) TableName() string {
	return "departments"
}

// SeedRoleCatalog 固定的角色种子目录。
func SeedRoleCatalog() []string {
	return []string{
		RoleAdmin,
		RoleUser,
		RolePayroll,
		RoleHR,
		RoleFinance,
		RoleSales,
		RoleGeneral,
		RoleIT,
	}
}

// SeedDepartmentCatalog 固定的部门种子目录，与角色目录同名。
func SeedDepartmentCatalog() []string {
	return SeedRoleCatalog()
}
