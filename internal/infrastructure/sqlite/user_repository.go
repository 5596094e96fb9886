package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Username, u.PasswordHash, toUnix(now), toUnix(now))
	if err != nil {
		return mapErr(err, "user")
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var (
		u                entity.User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, created_at, updated_at
		FROM users `+where, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &created, &updated)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	u.CreatedAt, u.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = ?, username = ?, updated_at = ? WHERE id = ?
	`, u.Email, u.Username, toUnix(u.UpdatedAt), u.ID)
	if err != nil {
		return mapErr(err, "user")
	}
	return affected(res, "user")
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
	`, hash, toUnix(time.Now()), id)
	if err != nil {
		return mapErr(err, "user")
	}
	return affected(res, "user")
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapErr(err, "user")
	}
	return affected(res, "user")
}

func (r *UserRepository) List(ctx context.Context) ([]entity.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, username FROM users ORDER BY created_at, id
	`)
	if err != nil {
		return nil, mapErr(err, "users")
	}
	return collectSummaries(rows)
}

// SearchByEmail matches a case-insensitive substring of the email.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string) ([]entity.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, username FROM users
		WHERE email LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY email
	`, helpers.EscapeLike(strings.ToLower(fragment)))
	if err != nil {
		return nil, mapErr(err, "users")
	}
	return collectSummaries(rows)
}

func collectSummaries(rows *sql.Rows) ([]entity.UserSummary, error) {
	defer rows.Close()
	out := make([]entity.UserSummary, 0)
	for rows.Next() {
		var s entity.UserSummary
		if err := rows.Scan(&s.ID, &s.Email, &s.Username); err != nil {
			return nil, mapErr(err, "users")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "users")
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
