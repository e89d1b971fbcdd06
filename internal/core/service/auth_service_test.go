package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository shared by the service
// tests in this package.
type stubUserRepo struct {
	nextID int64
	users  map[string]*domain.User // keyed by normalized email
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	key := domain.NormalizeEmail(user.Email)
	if _, exists := r.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	stored.LastSeenAt = stored.CreatedAt
	r.users[key] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	key := domain.NormalizeEmail(user.Email)
	existing, ok := r.users[key]
	if !ok {
		r.nextID++
		stored := cloneUser(user)
		stored.ID = r.nextID
		stored.CreatedAt = time.Now().UTC()
		stored.LastSeenAt = stored.CreatedAt
		r.users[key] = stored
		return cloneUser(stored), nil
	}
	if user.Name != "" {
		existing.Name = user.Name
	}
	if user.Position != "" {
		existing.Position = user.Position
	}
	if user.Role != "" {
		existing.Role = user.Role
	}
	if user.KPIs != "" {
		existing.KPIs = user.KPIs
	}
	existing.LastSeenAt = time.Now().UTC()
	return cloneUser(existing), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[domain.NormalizeEmail(email)]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRoleByID(_ context.Context, id int64, role string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateRoleByEmail(_ context.Context, email, role string) (*domain.User, error) {
	if u, ok := r.users[domain.NormalizeEmail(email)]; ok {
		u.Role = role
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, patch ports.ProfilePatch) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			if patch.Name != nil {
				u.Name = *patch.Name
			}
			if patch.Position != nil {
				u.Position = *patch.Position
			}
			if patch.KPIs != nil {
				u.KPIs = *patch.KPIs
			}
			u.LastSeenAt = time.Now().UTC()
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) TouchLastSeen(_ context.Context, id int64) error {
	for _, u := range r.users {
		if u.ID == id {
			u.LastSeenAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) DeleteByEmail(_ context.Context, email string) (*domain.User, error) {
	key := domain.NormalizeEmail(email)
	if u, ok := r.users[key]; ok {
		delete(r.users, key)
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthService(repo ports.UserRepository) (*AuthService, *auth.Codec) {
	codec := auth.NewCodec("secret")
	return NewAuthService(repo, auth.NewHasher("secret"), codec), codec
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "alice@example.com",
		Password: "hunter2",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}

	stored, _ := repo.FindByEmail(context.Background(), "alice@example.com")
	if stored.PasswordHash == "" || stored.PasswordHash == "hunter2" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("registration token invalid: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Password: ""}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEitherCasing(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "User@Example.com", Password: "pw"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "user@example.com", Password: "pw"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)

	_, created, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Lookup must work regardless of casing.
	token, user, err := svc.Login(context.Background(), "Carol@Example.COM", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("resolved wrong account: %+v", user)
	}
	if _, err := codec.Decode(token); err != nil {
		t.Fatalf("login token invalid: %v", err)
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())
	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass"})

	_, _, errWrongPassword := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, errUnknownEmail := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(errWrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Fatalf("login failures are distinguishable: %q vs %q", errWrongPassword, errUnknownEmail)
	}
}

func TestAuthService_Login_ProvisionedAccountHasNoPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := repo.Upsert(context.Background(), &domain.User{Email: "new@example.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "new@example.com", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty password: expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "new@example.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, created, _ := svc.Register(context.Background(), ports.RegisterInput{Email: "me@example.com", Password: "pw"})

	before, _ := repo.FindByID(context.Background(), created.ID)
	time.Sleep(time.Millisecond)

	user, err := svc.Me(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if user.Email != "me@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	after, _ := repo.FindByID(context.Background(), created.ID)
	if !after.LastSeenAt.After(before.LastSeenAt) {
		t.Fatalf("last seen not touched")
	}

	if _, err := svc.Me(context.Background(), 9999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
