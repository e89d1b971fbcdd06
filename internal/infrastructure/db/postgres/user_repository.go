package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

const userColumns = "id, email, password_hash, name, position, role, kpis, created_at, last_seen_at"

// UserRepository is the PostgreSQL-backed user directory. Email lookups and
// uniqueness checks compare on lower(email); stored casing is preserved.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	// The unique constraint is on the exact column value; the pre-check
	// enforces case-insensitive uniqueness across casings.
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		user.Email,
	).Scan(&exists)
	if err != nil {
		return nil, storeErr("UserRepository.Create", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, name, position, role, kpis, last_seen_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 RETURNING `+userColumns,
		user.Email, nullable(user.PasswordHash), nullable(user.Name),
		nullable(user.Position), user.Role, nullable(user.KPIs),
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storeErr("UserRepository.Create", err)
	}
	return created, nil
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		row := r.db.QueryRowContext(ctx,
			`UPDATE users
			 SET name = COALESCE($2, name),
			     position = COALESCE($3, position),
			     role = COALESCE($4, role),
			     kpis = COALESCE($5, kpis),
			     last_seen_at = NOW()
			 WHERE id = $1
			 RETURNING `+userColumns,
			existing.ID, nullable(user.Name), nullable(user.Position),
			nullable(user.Role), nullable(user.KPIs),
		)
		updated, err := scanUser(row)
		if err != nil {
			return nil, storeErr("UserRepository.Upsert", err)
		}
		return updated, nil
	case errors.Is(err, domain.ErrUserNotFound):
		row := r.db.QueryRowContext(ctx,
			`INSERT INTO users (email, name, position, role, kpis, last_seen_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 RETURNING `+userColumns,
			user.Email, nullable(user.Name), nullable(user.Position),
			user.Role, nullable(user.KPIs),
		)
		created, err := scanUser(row)
		if err != nil {
			return nil, storeErr("UserRepository.Upsert", err)
		}
		return created, nil
	default:
		return nil, err
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("UserRepository.FindByEmail", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("UserRepository.FindByID", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, storeErr("UserRepository.List", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("UserRepository.List", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("UserRepository.List", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateRoleByID(ctx context.Context, id int64, role string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET role = $2 WHERE id = $1 RETURNING `+userColumns, id, role)
	return r.scanUpdated("UserRepository.UpdateRoleByID", row)
}

func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email, role string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET role = $2 WHERE lower(email) = lower($1) RETURNING `+userColumns, email, role)
	return r.scanUpdated("UserRepository.UpdateRoleByEmail", row)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, patch ports.ProfilePatch) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     position = COALESCE($3, position),
		     kpis = COALESCE($4, kpis),
		     last_seen_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, patch.Name, patch.Position, patch.KPIs,
	)
	return r.scanUpdated("UserRepository.UpdateProfile", row)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, last_seen_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return storeErr("UserRepository.UpdatePassword", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("UserRepository.UpdatePassword", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_seen_at = NOW() WHERE id = $1`, id); err != nil {
		return storeErr("UserRepository.TouchLastSeen", err)
	}
	return nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM users WHERE lower(email) = lower($1) RETURNING `+userColumns, email)
	return r.scanUpdated("UserRepository.DeleteByEmail", row)
}

func (r *UserRepository) scanUpdated(op string, row *sql.Row) (*domain.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr(op, err)
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user                  domain.User
		passwordHash, name    sql.NullString
		position, role, kpis  sql.NullString
		createdAt, lastSeenAt sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Email, &passwordHash, &name, &position, &role, &kpis, &createdAt, &lastSeenAt)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash.String
	user.Name = name.String
	user.Position = position.String
	user.Role = role.String
	user.KPIs = kpis.String
	user.CreatedAt = createdAt.Time
	user.LastSeenAt = lastSeenAt.Time
	return &user, nil
}

// nullable maps Go's empty string to SQL NULL so COALESCE merges work and
// absent profile fields stay NULL as the original schema expects.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// storeErr tags unexpected datastore failures so callers can tell an
// outage apart from invalid credentials and fail closed with a 500, not a
// misleading 401.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, err, domain.ErrUnavailable)
}
