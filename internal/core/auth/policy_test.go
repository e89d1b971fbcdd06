package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

type stubDirectory struct {
	users map[int64]*domain.User
	err   error
}

func (d *stubDirectory) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	if u, ok := d.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestPolicy(t *testing.T, dir *stubDirectory, allow ...string) (*Policy, *Codec) {
	t.Helper()
	codec := NewCodec("secret")
	var list AllowList
	for _, e := range allow {
		list = append(list, domain.NormalizeEmail(e))
	}
	return NewPolicy(codec, dir, list), codec
}

func signedToken(t *testing.T, codec *Codec, userID int64, role string) string {
	t.Helper()
	token, err := codec.Issue(Claims{UserID: userID, Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestPolicy_AnonymousWithoutCredentials(t *testing.T) {
	policy, _ := newTestPolicy(t, &stubDirectory{})

	d, err := policy.Authorize(context.Background(), Credentials{}, SurfaceReports)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if d.Level != LevelAnonymous || d.User != nil || d.SubjectID != 0 {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestPolicy_UserRoleIsNeverAdmin(t *testing.T) {
	dir := &stubDirectory{users: map[int64]*domain.User{1: {ID: 1, Email: "a@x.com", Role: domain.RoleUser}}}
	policy, codec := newTestPolicy(t, dir)
	token := signedToken(t, codec, 1, domain.RoleUser)

	for _, surface := range []Surface{SurfaceReports, SurfaceAccounts} {
		d, err := policy.Authorize(context.Background(), Credentials{Token: token}, surface)
		if err != nil {
			t.Fatalf("authorize: %v", err)
		}
		if d.Level != LevelUser || d.Admin() {
			t.Fatalf("user role escalated on surface %v: %+v", surface, d)
		}
		if d.User == nil || d.User.ID != 1 {
			t.Fatalf("identity not resolved: %+v", d)
		}
	}
}

func TestPolicy_DeveloperAdminEverywhere(t *testing.T) {
	dir := &stubDirectory{users: map[int64]*domain.User{2: {ID: 2, Role: domain.RoleDeveloper}}}
	policy, codec := newTestPolicy(t, dir)
	token := signedToken(t, codec, 2, domain.RoleDeveloper)

	for _, surface := range []Surface{SurfaceReports, SurfaceAccounts} {
		d, err := policy.Authorize(context.Background(), Credentials{Token: token}, surface)
		if err != nil {
			t.Fatalf("authorize: %v", err)
		}
		if !d.Admin() || d.Strategy != StrategyToken {
			t.Fatalf("developer denied on surface %v: %+v", surface, d)
		}
	}
}

func TestPolicy_DirectorSurfaceAsymmetry(t *testing.T) {
	dir := &stubDirectory{users: map[int64]*domain.User{3: {ID: 3, Role: domain.RoleDirector}}}
	policy, codec := newTestPolicy(t, dir)
	token := signedToken(t, codec, 3, domain.RoleDirector)

	d, err := policy.Authorize(context.Background(), Credentials{Token: token}, SurfaceReports)
	if err != nil || !d.Admin() {
		t.Fatalf("director denied on reports surface: %+v (%v)", d, err)
	}

	d, err = policy.Authorize(context.Background(), Credentials{Token: token}, SurfaceAccounts)
	if err != nil || d.Admin() {
		t.Fatalf("director escalated on accounts surface: %+v (%v)", d, err)
	}
	if d.Level != LevelUser {
		t.Fatalf("director should remain authenticated-user on accounts: %+v", d)
	}
}

func TestPolicy_StoredRoleWinsOverTokenClaim(t *testing.T) {
	// A token minted when the account was a developer must not keep
	// granting admin after a demotion.
	dir := &stubDirectory{users: map[int64]*domain.User{4: {ID: 4, Role: domain.RoleUser}}}
	policy, codec := newTestPolicy(t, dir)
	token := signedToken(t, codec, 4, domain.RoleDeveloper)

	d, err := policy.Authorize(context.Background(), Credentials{Token: token}, SurfaceAccounts)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if d.Admin() {
		t.Fatalf("stale token claim escalated a demoted account: %+v", d)
	}
}

func TestPolicy_AllowListFallback(t *testing.T) {
	policy, _ := newTestPolicy(t, &stubDirectory{}, "boss@example.com")

	// Case-insensitive match, admin on every surface, no linked identity.
	for _, surface := range []Surface{SurfaceReports, SurfaceAccounts} {
		d, err := policy.Authorize(context.Background(), Credentials{AdminEmail: "Boss@Example.COM"}, surface)
		if err != nil {
			t.Fatalf("authorize: %v", err)
		}
		if !d.Admin() || d.Strategy != StrategyAllowList {
			t.Fatalf("allow-list match denied on surface %v: %+v", surface, d)
		}
		if d.User != nil {
			t.Fatalf("allow-list grant should carry no identity: %+v", d)
		}
	}

	d, err := policy.Authorize(context.Background(), Credentials{AdminEmail: "other@example.com"}, SurfaceReports)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if d.Admin() {
		t.Fatalf("unlisted email granted admin: %+v", d)
	}
}

func TestPolicy_AllowListUpgradesNonAdminToken(t *testing.T) {
	// Either proof suffices; presenting both must never be required, and a
	// weaker token must not suppress a valid allow-list grant.
	dir := &stubDirectory{users: map[int64]*domain.User{5: {ID: 5, Email: "u@x.com", Role: domain.RoleUser}}}
	policy, codec := newTestPolicy(t, dir, "boss@example.com")
	token := signedToken(t, codec, 5, domain.RoleUser)

	d, err := policy.Authorize(context.Background(), Credentials{Token: token, AdminEmail: "boss@example.com"}, SurfaceAccounts)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if !d.Admin() || d.Strategy != StrategyAllowList {
		t.Fatalf("allow-list did not upgrade: %+v", d)
	}
	if d.User == nil || d.User.ID != 5 {
		t.Fatalf("resolved identity dropped during upgrade: %+v", d)
	}
}

func TestPolicy_InvalidTokenFallsThrough(t *testing.T) {
	policy, _ := newTestPolicy(t, &stubDirectory{}, "boss@example.com")

	d, err := policy.Authorize(context.Background(), Credentials{Token: "not.a.token", AdminEmail: "boss@example.com"}, SurfaceReports)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if !d.Admin() {
		t.Fatalf("garbage token blocked allow-list fallback: %+v", d)
	}

	d, err = policy.Authorize(context.Background(), Credentials{Token: "garbage"}, SurfaceReports)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if d.Level != LevelAnonymous {
		t.Fatalf("garbage token produced a non-anonymous decision: %+v", d)
	}
}

func TestPolicy_StaleSubjectFallsThrough(t *testing.T) {
	policy, codec := newTestPolicy(t, &stubDirectory{}, "boss@example.com")
	token := signedToken(t, codec, 99, domain.RoleDeveloper)

	d, err := policy.Authorize(context.Background(), Credentials{Token: token}, SurfaceReports)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if d.Level != LevelAnonymous || d.User != nil {
		t.Fatalf("deleted subject still authenticated: %+v", d)
	}
	if d.SubjectID != 99 {
		t.Fatalf("verified subject id not surfaced: %+v", d)
	}
}

func TestPolicy_DirectoryFailureIsNotUnauthorized(t *testing.T) {
	dir := &stubDirectory{err: errors.New("connection refused")}
	policy, codec := newTestPolicy(t, dir)
	token := signedToken(t, codec, 1, domain.RoleDeveloper)

	_, err := policy.Authorize(context.Background(), Credentials{Token: token}, SurfaceReports)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAllowList_Parsing(t *testing.T) {
	list := NewAllowList(" A@x.com , b@y.com ,", "")
	if len(list) != 2 || !list.Contains("a@X.com") || !list.Contains("B@y.com") {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list.Contains("") {
		t.Fatalf("empty email matched")
	}

	single := NewAllowList("", "solo@x.com")
	if !single.Contains("SOLO@X.COM") || single.First() != "solo@x.com" {
		t.Fatalf("fallback not honoured: %+v", single)
	}

	if NewAllowList("", "").Contains("anyone@x.com") {
		t.Fatalf("empty configuration matched")
	}
}
