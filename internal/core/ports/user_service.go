package ports

import (
	"context"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// ProvisionInput is the administrative onboarding payload. No password is
// involved; the account cannot log in until one is set.
type ProvisionInput struct {
	Email    string
	Name     string
	Position string
	Role     string
	KPIs     string
}

// ChangeRoleInput targets an account by id or, failing that, by email.
type ChangeRoleInput struct {
	UserID int64
	Email  string
	Role   string
}

// ProfileUpdateInput is a self-service profile edit. Password change
// requires the current password.
type ProfileUpdateInput struct {
	Name            *string
	Position        *string
	KPIs            *string
	CurrentPassword string
	NewPassword     string
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Provision(ctx context.Context, in ProvisionInput) (*domain.User, error)
	ChangeRole(ctx context.Context, in ChangeRoleInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, email string) (*domain.User, error)
	Cleanup(ctx context.Context, emails []string) ([]domain.User, error)
}
