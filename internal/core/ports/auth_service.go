package ports

import (
	"context"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Position string
	KPIs     string
}

type AuthService interface {
	// Register creates an account with role "user" and returns a session
	// token alongside the created record.
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	// Login verifies credentials and returns a session token. Unknown email
	// and wrong password produce the same error.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Me resolves the current account for a verified token subject and
	// touches its last-seen timestamp.
	Me(ctx context.Context, userID int64) (*domain.User, error)
}
