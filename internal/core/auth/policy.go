package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// Level is the outcome of an authorization decision.
type Level int

const (
	LevelAnonymous Level = iota
	LevelUser
	LevelAdmin
)

// Surface classifies what a privileged operation touches. The distinction
// exists because "director" is an admin for reading and report management
// but may not mutate accounts — only "developer" may change another
// account's role, provision, or delete.
type Surface int

const (
	// SurfaceReports covers directory listing and report management.
	SurfaceReports Surface = iota
	// SurfaceAccounts covers role mutation, provisioning and deletion.
	SurfaceAccounts
)

// Strategy names for the two authorization paths, used as metric labels.
const (
	StrategyToken     = "token"
	StrategyAllowList = "allow_list"
)

// Credentials is everything a request may present: a bearer token and/or
// the legacy admin-email signal. Either may be empty.
type Credentials struct {
	Token      string
	AdminEmail string
}

// Decision is the result of Authorize. SubjectID is set whenever a
// validly-signed token named a subject, even if that subject no longer
// exists in the directory; User is set only when the subject resolved.
type Decision struct {
	Level     Level
	User      *domain.User
	SubjectID int64
	Strategy  string
}

// Admin reports whether the decision grants administrative access.
func (d Decision) Admin() bool { return d.Level == LevelAdmin }

// Directory is the read-only slice of the user store the policy needs.
type Directory interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Policy is the single source of truth for "is this caller privileged".
// It tries an ordered list of strategies, first success wins: a role-based
// token grant, then the legacy allow-list. Admin operations accept either
// proof, never require both.
type Policy struct {
	codec     *Codec
	directory Directory
	allowList AllowList
}

func NewPolicy(codec *Codec, directory Directory, allowList AllowList) *Policy {
	return &Policy{codec: codec, directory: directory, allowList: allowList}
}

// Authorize resolves the caller's level and identity for the given surface.
// It performs at most one directory read and has no side effects on any
// failure path. A directory failure is returned as domain.ErrUnavailable,
// never conflated with invalid credentials, so callers fail closed without
// masking an outage as "unauthorized".
func (p *Policy) Authorize(ctx context.Context, creds Credentials, surface Surface) (Decision, error) {
	d := Decision{Level: LevelAnonymous}

	if creds.Token != "" {
		if claims, err := p.codec.Decode(creds.Token); err == nil && claims.UserID != 0 {
			d.SubjectID = claims.UserID
			user, err := p.directory.FindByID(ctx, claims.UserID)
			switch {
			case err == nil:
				d.User = user
				d.Strategy = StrategyToken
				d.Level = roleLevel(user.Role, surface)
			case errors.Is(err, domain.ErrUserNotFound):
				// Stale subject; the allow-list may still vouch for the caller.
			default:
				return Decision{}, fmt.Errorf("resolve token subject: %w", domain.ErrUnavailable)
			}
		}
	}

	if d.Level < LevelAdmin && p.allowList.Contains(creds.AdminEmail) {
		d.Level = LevelAdmin
		d.Strategy = StrategyAllowList
	}

	return d, nil
}

// roleLevel maps a stored role to a decision level for a surface. The
// stored role wins over whatever the token claims said.
func roleLevel(role string, surface Surface) Level {
	switch role {
	case domain.RoleDeveloper:
		return LevelAdmin
	case domain.RoleDirector:
		if surface == SurfaceReports {
			return LevelAdmin
		}
		return LevelUser
	default:
		return LevelUser
	}
}
