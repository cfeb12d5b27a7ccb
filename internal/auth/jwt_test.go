package auth

import (
	"testing"
	"time"

	"staffdir/internal/entity"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	user := &entity.DbUser{
		ID:       42,
		Username: "alice",
		Status:   entity.UserStatusActive,
		Roles: []entity.DbRole{
			{ID: 1, Authority: entity.RoleHR},
			{ID: 2, Authority: entity.RoleGeneral},
		},
		Department: &entity.DbDepartment{ID: 3, Name: "HR"},
	}
	token, expiresAt, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.Username != user.Username {
		t.Fatalf("expected username %s, got %s", user.Username, claims.Username)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != entity.RoleHR {
		t.Fatalf("unexpected roles in claims: %v", claims.Roles)
	}
	if claims.Department != "HR" {
		t.Fatalf("expected department HR, got %s", claims.Department)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateTokenRequiresPersistedUser(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	if _, _, err := mgr.GenerateToken(&entity.DbUser{Username: "ghost"}); err == nil {
		t.Fatal("expected error for user without id")
	}
}
