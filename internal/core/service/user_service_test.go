package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

func strptr(s string) *string { return &s }

func TestUserService_Provision_UpsertMerge(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, auth.NewHasher("secret"))

	first, err := svc.Provision(context.Background(), ports.ProvisionInput{
		Email:    "lead@example.com",
		Name:     "Lead",
		Position: "Team Lead",
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if first.Role != domain.RoleUser {
		t.Fatalf("expected default role, got %s", first.Role)
	}

	// Second provision: supplied fields overwrite, absent fields preserve.
	merged, err := svc.Provision(context.Background(), ports.ProvisionInput{
		Email: "Lead@Example.com",
		Role:  domain.RoleDirector,
	})
	if err != nil {
		t.Fatalf("provision merge: %v", err)
	}
	if merged.ID != first.ID {
		t.Fatalf("merge created a second account")
	}
	if merged.Role != domain.RoleDirector || merged.Name != "Lead" || merged.Position != "Team Lead" {
		t.Fatalf("merge lost fields: %+v", merged)
	}
}

func TestUserService_Provision_Validation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), auth.NewHasher("secret"))

	if _, err := svc.Provision(context.Background(), ports.ProvisionInput{Email: ""}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
	if _, err := svc.Provision(context.Background(), ports.ProvisionInput{Email: "a@x.com", Role: "superadmin"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestUserService_ChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, auth.NewHasher("secret"))
	target, _ := repo.Create(context.Background(), &domain.User{Email: "t@example.com", Role: domain.RoleUser})

	updated, err := svc.ChangeRole(context.Background(), ports.ChangeRoleInput{UserID: target.ID, Role: "Developer"})
	if err != nil {
		t.Fatalf("change role by id: %v", err)
	}
	if updated.Role != domain.RoleDeveloper {
		t.Fatalf("role not normalized/updated: %+v", updated)
	}

	updated, err = svc.ChangeRole(context.Background(), ports.ChangeRoleInput{Email: "T@Example.com", Role: domain.RoleDirector})
	if err != nil {
		t.Fatalf("change role by email: %v", err)
	}
	if updated.Role != domain.RoleDirector {
		t.Fatalf("role not updated by email: %+v", updated)
	}

	if _, err := svc.ChangeRole(context.Background(), ports.ChangeRoleInput{UserID: target.ID, Role: "owner"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), ports.ChangeRoleInput{Role: domain.RoleUser}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing target, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), ports.ChangeRoleInput{UserID: 404, Role: domain.RoleUser}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_Fields(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, auth.NewHasher("secret"))
	user, _ := repo.Create(context.Background(), &domain.User{Email: "p@example.com", Position: "Engineer"})

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{Name: strptr("Pat")})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Pat" || updated.Position != "Engineer" {
		t.Fatalf("patch semantics broken: %+v", updated)
	}

	if _, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
}

func TestUserService_UpdateProfile_PasswordChange(t *testing.T) {
	repo := newStubUserRepo()
	hasher := auth.NewHasher("secret")
	svc := NewUserService(repo, hasher)
	user, _ := repo.Create(context.Background(), &domain.User{
		Email:        "pw@example.com",
		PasswordHash: hasher.Hash("old-password"),
	})

	if _, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{NewPassword: "new"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without current password, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{CurrentPassword: "wrong", NewPassword: "new"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{CurrentPassword: "old-password", NewPassword: "new-password"}); err != nil {
		t.Fatalf("password change: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), user.ID)
	if !hasher.Verify("new-password", stored.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
	if hasher.Verify("old-password", stored.PasswordHash) {
		t.Fatalf("old password still verifies")
	}
}

func TestUserService_DeleteAndCleanup(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, auth.NewHasher("secret"))
	_, _ = repo.Create(context.Background(), &domain.User{Email: "a@example.com"})
	_, _ = repo.Create(context.Background(), &domain.User{Email: "b@example.com"})

	deleted, err := svc.Delete(context.Background(), "A@Example.com")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Email != "a@example.com" {
		t.Fatalf("unexpected deleted user: %+v", deleted)
	}
	if _, err := svc.Delete(context.Background(), "a@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	removed, err := svc.Cleanup(context.Background(), []string{"b@example.com", "ghost@example.com"})
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(removed) != 1 || removed[0].Email != "b@example.com" {
		t.Fatalf("unexpected cleanup result: %+v", removed)
	}

	if _, err := svc.Cleanup(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty list, got %v", err)
	}
}
