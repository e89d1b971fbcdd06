package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chismoso/checkin-api/internal/api/metrics"
	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

// AuthService implements registration, login, and current-user resolution.
type AuthService struct {
	repo   ports.UserRepository
	hasher *auth.Hasher
	codec  *auth.Codec
}

func NewAuthService(repo ports.UserRepository, hasher *auth.Hasher, codec *auth.Codec) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, codec: codec}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: s.hasher.Hash(in.Password),
		Name:         in.Name,
		Position:     in.Position,
		Role:         domain.RoleUser,
		KPIs:         in.KPIs,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}
	metrics.RegistrationsTotal.Inc()

	token, err := s.issueToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable to the
		// caller; an account cannot be enumerated through login.
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	// Provisioned accounts have no password yet and cannot log in.
	if user.PasswordHash == "" || !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastSeen(ctx, user.ID); err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLastSeen(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	token, err := s.codec.Issue(auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.Inc()
	return token, nil
}
