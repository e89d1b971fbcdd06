package ports

import (
	"context"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched; non-nil fields overwrite.
type ProfilePatch struct {
	Name     *string
	Position *string
	KPIs     *string
}

// UserRepository defines the persistence contract for the user directory.
// Implementations must compare emails case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Upsert inserts or merges on the email key: non-empty supplied fields
	// overwrite, empty fields preserve existing values.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRoleByID(ctx context.Context, id int64, role string) (*domain.User, error)
	UpdateRoleByEmail(ctx context.Context, email, role string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastSeen(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email string) (*domain.User, error)
}
