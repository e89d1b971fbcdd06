package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

// UserService implements directory administration and self-service profile
// updates. Authorization happens upstream in the policy middleware; these
// methods assume the caller is already cleared for the operation.
type UserService struct {
	repo   ports.UserRepository
	hasher *auth.Hasher
}

func NewUserService(repo ports.UserRepository, hasher *auth.Hasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Provision creates or merges an account without a password. Supplied
// fields overwrite, absent fields keep existing values.
func (s *UserService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	return s.repo.Upsert(ctx, &domain.User{
		Email:    email,
		Name:     in.Name,
		Position: in.Position,
		Role:     role,
		KPIs:     in.KPIs,
	})
}

func (s *UserService) ChangeRole(ctx context.Context, in ports.ChangeRoleInput) (*domain.User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	if in.UserID != 0 {
		return s.repo.UpdateRoleByID(ctx, in.UserID, role)
	}
	if strings.TrimSpace(in.Email) != "" {
		return s.repo.UpdateRoleByEmail(ctx, in.Email, role)
	}
	return nil, domain.ErrInvalidInput
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileUpdateInput) (*domain.User, error) {
	if in.Name == nil && in.Position == nil && in.KPIs == nil && in.NewPassword == "" {
		return nil, domain.ErrInvalidInput
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, domain.ErrInvalidInput
		}
		current, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.PasswordHash == "" || !s.hasher.Verify(in.CurrentPassword, current.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		if err := s.repo.UpdatePassword(ctx, userID, s.hasher.Hash(in.NewPassword)); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateProfile(ctx, userID, ports.ProfilePatch{
		Name:     in.Name,
		Position: in.Position,
		KPIs:     in.KPIs,
	})
}

func (s *UserService) Delete(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.DeleteByEmail(ctx, email)
}

// Cleanup deletes the given accounts, skipping addresses that are already
// gone, and returns what was actually removed.
func (s *UserService) Cleanup(ctx context.Context, emails []string) ([]domain.User, error) {
	if len(emails) == 0 {
		return nil, domain.ErrInvalidInput
	}

	deleted := make([]domain.User, 0, len(emails))
	for _, email := range emails {
		user, err := s.repo.DeleteByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		deleted = append(deleted, *user)
	}
	return deleted, nil
}
