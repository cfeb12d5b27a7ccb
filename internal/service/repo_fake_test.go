package service

import (
	"context"
	"strings"

	"staffdir/internal/entity"
	"staffdir/internal/model"

	"gorm.io/gorm"
)

// fakeRepo is an in-memory stand-in for the gorm repository. Users are held
// in insertion order so listing results stay deterministic.
type fakeRepo struct {
	users       []*entity.DbUser
	roles       []*entity.DbRole
	departments []*entity.DbDepartment
	nextID      uint
}

var _ model.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	repo := &fakeRepo{}
	for _, authority := range entity.SeedRoleCatalog() {
		repo.roles = append(repo.roles, &entity.DbRole{ID: repo.nextIdentity(), Authority: authority})
	}
	return repo
}

func (f *fakeRepo) nextIdentity() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) findUser(username string) *entity.DbUser {
	for _, user := range f.users {
		if user.Username == username {
			return user
		}
	}
	return nil
}

func (f *fakeRepo) attachDepartment(user *entity.DbUser) *entity.DbUser {
	if user.Department == nil && user.DepartmentID != nil {
		for _, department := range f.departments {
			if department.ID == *user.DepartmentID {
				user.Department = department
				break
			}
		}
	}
	return user
}

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.DbUser) error {
	if f.findUser(user.Username) != nil {
		return gorm.ErrDuplicatedKey
	}
	user.ID = f.nextIdentity()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeRepo) SaveUser(_ context.Context, user *entity.DbUser) error {
	for idx, existing := range f.users {
		if existing.ID == user.ID {
			f.users[idx] = user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) error {
	for _, user := range f.users {
		if user.ID != id {
			continue
		}
		if username, ok := updates["username"].(string); ok {
			if other := f.findUser(username); other != nil && other.ID != id {
				return gorm.ErrDuplicatedKey
			}
			user.Username = username
		}
		if avatar, ok := updates["avatar_path"].(string); ok {
			user.AvatarPath = avatar
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

// 返回副本而不是存储的指针，未保存的修改不会穿透到仓库
func (f *fakeRepo) GetUserByUsername(_ context.Context, username string) (*entity.DbUser, error) {
	if user := f.findUser(username); user != nil {
		loaded := *user
		return f.attachDepartment(&loaded), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	for _, user := range f.users {
		if user.Email != "" && strings.EqualFold(user.Email, email) {
			loaded := *user
			return f.attachDepartment(&loaded), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListUsers(_ context.Context) ([]entity.DbUser, error) {
	out := make([]entity.DbUser, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *f.attachDepartment(user))
	}
	return out, nil
}

func (f *fakeRepo) ListUsersByStatus(_ context.Context, status string) ([]entity.DbUser, error) {
	var out []entity.DbUser
	for _, user := range f.users {
		if user.Status == status {
			out = append(out, *f.attachDepartment(user))
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUsersByDepartment(_ context.Context, department string) ([]entity.DbUser, error) {
	var out []entity.DbUser
	for _, user := range f.users {
		f.attachDepartment(user)
		if user.DepartmentName() == department {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeRepo) ReplaceUserRoles(_ context.Context, user *entity.DbUser, roles []entity.DbRole) error {
	user.Roles = roles
	return nil
}

func (f *fakeRepo) DeleteUserByUsername(_ context.Context, username string) error {
	for idx, user := range f.users {
		if user.Username == username {
			f.users = append(f.users[:idx], f.users[idx+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) DeleteAllUsers(_ context.Context) error {
	f.users = nil
	return nil
}

func (f *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeRepo) CreateRole(_ context.Context, role *entity.DbRole) error {
	for _, existing := range f.roles {
		if existing.Authority == role.Authority {
			return gorm.ErrDuplicatedKey
		}
	}
	role.ID = f.nextIdentity()
	f.roles = append(f.roles, role)
	return nil
}

func (f *fakeRepo) GetRoleByName(_ context.Context, authority string) (*entity.DbRole, error) {
	for _, role := range f.roles {
		if role.Authority == authority {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListRoles(_ context.Context) ([]entity.DbRole, error) {
	out := make([]entity.DbRole, 0, len(f.roles))
	for _, role := range f.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (f *fakeRepo) CountRoles(_ context.Context) (int64, error) {
	return int64(len(f.roles)), nil
}

func (f *fakeRepo) CreateDepartment(_ context.Context, department *entity.DbDepartment) error {
	for _, existing := range f.departments {
		if existing.Name == department.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	department.ID = f.nextIdentity()
	f.departments = append(f.departments, department)
	return nil
}

func (f *fakeRepo) GetDepartmentByName(_ context.Context, name string) (*entity.DbDepartment, error) {
	for _, department := range f.departments {
		if department.Name == name {
			return department, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetOrCreateDepartment(ctx context.Context, name string) (*entity.DbDepartment, error) {
	if department, err := f.GetDepartmentByName(ctx, name); err == nil {
		return department, nil
	}
	department := &entity.DbDepartment{Name: name}
	if err := f.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (f *fakeRepo) ListDepartments(_ context.Context) ([]entity.DbDepartment, error) {
	out := make([]entity.DbDepartment, 0, len(f.departments))
	for _, department := range f.departments {
		out = append(out, *department)
	}
	return out, nil
}

func (f *fakeRepo) CountDepartments(_ context.Context) (int64, error) {
	return int64(len(f.departments)), nil
}
