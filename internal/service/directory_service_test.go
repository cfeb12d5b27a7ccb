package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffdir/internal/auth"
	"staffdir/internal/entity"
)

func newTestDirectory(t *testing.T) (*DirectoryService, *AccountService) {
	t.Helper()
	repo := newFakeRepo()
	tokens, err := auth.NewManager("test-secret", "test", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating token manager: %v", err)
	}
	return NewDirectoryService(repo), NewAccountService(repo, tokens)
}

func TestActiveAndPendingListings(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "active1", Password: "pw123456", Department: "IT"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "pending1", Password: "pw123456", Email: "p1@x.com", Department: "HR"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if _, err := accounts.Approve(ctx, "active1", []string{entity.RoleIT}, ""); err != nil {
		t.Fatalf("unexpected error approving: %v", err)
	}

	active, err := directory.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing active users: %v", err)
	}
	if len(active) != 1 || active[0].Username != "active1" {
		t.Fatalf("expected exactly active1, got %v", active)
	}
	if active[0].Department != "IT" || len(active[0].Roles) != 1 || active[0].Roles[0] != entity.RoleIT {
		t.Fatalf("unexpected projection: %+v", active[0])
	}

	pending, err := directory.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing pending users: %v", err)
	}
	if len(pending) != 1 || pending[0].Username != "pending1" {
		t.Fatalf("expected exactly pending1, got %v", pending)
	}
	if pending[0].Email != "p1@x.com" || pending[0].Status != entity.UserStatusPending {
		t.Fatalf("unexpected pending projection: %+v", pending[0])
	}
}

func TestPendingProjectionFallbacks(t *testing.T) {
	repo := newFakeRepo()
	directory := NewDirectoryService(repo)
	ctx := context.Background()

	// 没有部门和邮箱的历史记录
	if err := repo.CreateUser(ctx, &entity.DbUser{
		Username:     "legacy",
		PasswordHash: "x",
		Status:       entity.UserStatusPending,
	}); err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}

	pending, err := directory.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing pending users: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending user, got %d", len(pending))
	}
	if pending[0].Department != "N/A" {
		t.Fatalf("expected department fallback N/A, got %q", pending[0].Department)
	}
	if pending[0].Email != "" {
		t.Fatalf("expected empty email, got %q", pending[0].Email)
	}
}

func TestUsersByDepartment(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	for _, username := range []string{"sales-a", "sales-b"} {
		if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: username, Password: "pw123456", Department: "SALES"}); err != nil {
			t.Fatalf("unexpected error registering: %v", err)
		}
	}
	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "it-a", Password: "pw123456", Department: "IT"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	users, err := directory.UsersByDepartment(ctx, "SALES")
	if err != nil {
		t.Fatalf("unexpected error listing by department: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 SALES users, got %d", len(users))
	}

	none, err := directory.UsersByDepartment(ctx, "UNKNOWN")
	if err != nil {
		t.Fatalf("unexpected error listing empty department: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no users, got %d", len(none))
	}
}

func TestGetUserNotFound(t *testing.T) {
	directory, _ := newTestDirectory(t)
	if _, err := directory.GetUser(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRoleAndDepartmentCatalogs(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	roles, err := directory.RoleNames(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing roles: %v", err)
	}
	if len(roles) != len(entity.SeedRoleCatalog()) {
		t.Fatalf("expected %d roles, got %d", len(entity.SeedRoleCatalog()), len(roles))
	}

	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "x", Password: "pw123456", Department: "Finance"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	departments, err := directory.DepartmentNames(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing departments: %v", err)
	}
	if len(departments) != 1 || departments[0] != "Finance" {
		t.Fatalf("expected [Finance], got %v", departments)
	}
}

func TestDeleteUser(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	if err := directory.DeleteUser(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "mort", Password: "pw123456"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if err := directory.DeleteUser(ctx, "mort"); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}
	if _, err := directory.GetUser(ctx, "mort"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestDeleteAllUsers(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	if err := directory.DeleteAllUsers(ctx); !errors.Is(err, ErrNothingToDelete) {
		t.Fatalf("expected ErrNothingToDelete on empty store, got %v", err)
	}

	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "temp", Password: "pw123456"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if _, err := accounts.Approve(ctx, "temp", []string{entity.RoleUser}, ""); err != nil {
		t.Fatalf("unexpected error approving: %v", err)
	}
	if err := directory.DeleteAllUsers(ctx); err != nil {
		t.Fatalf("unexpected error clearing store: %v", err)
	}

	active, err := directory.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing active users: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected empty directory after delete-all, got %v", active)
	}
}

func TestUpdateUsername(t *testing.T) {
	directory, accounts := newTestDirectory(t)
	ctx := context.Background()

	if _, err := directory.UpdateUsername(ctx, "ghost", entity.UserUpdateRequest{Username: "whatever"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := accounts.Register(ctx, entity.AuthRegisterRequest{Username: "old-name", Password: "pw123456"}); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	// 空用户名不做任何修改
	user, err := directory.UpdateUsername(ctx, "old-name", entity.UserUpdateRequest{})
	if err != nil {
		t.Fatalf("unexpected error on empty update: %v", err)
	}
	if user.Username != "old-name" {
		t.Fatalf("expected username unchanged, got %q", user.Username)
	}

	user, err = directory.UpdateUsername(ctx, "old-name", entity.UserUpdateRequest{Username: "new-name"})
	if err != nil {
		t.Fatalf("unexpected error renaming: %v", err)
	}
	if user.Username != "new-name" {
		t.Fatalf("expected new-name, got %q", user.Username)
	}
	if _, err := directory.GetUser(ctx, "new-name"); err != nil {
		t.Fatalf("expected renamed user to resolve, got %v", err)
	}
}
