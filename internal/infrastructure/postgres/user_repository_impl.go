package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Username, u.PasswordHash)

	return mapErr(row.Scan(&u.CreatedAt, &u.UpdatedAt), "user")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err, "user")
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, updated_at = $3
		WHERE id = $4
	`, u.Email, u.Username, u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr(err, "user")
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "user")
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return mapErr(err, "user")
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "user")
	}
	return nil
}

// Delete removes the user; posts and comments go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "user")
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "user")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, email, username FROM users ORDER BY created_at, id
	`)
	if err != nil {
		return nil, mapErr(err, "users")
	}
	return collectSummaries(rows)
}

// SearchByEmail matches a case-insensitive substring of the email. LIKE
// wildcards in fragment are matched literally.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string) ([]entity.UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, email, username FROM users
		WHERE email ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY email
	`, helpers.EscapeLike(fragment))
	if err != nil {
		return nil, mapErr(err, "users")
	}
	return collectSummaries(rows)
}

func collectSummaries(rows pgx.Rows) ([]entity.UserSummary, error) {
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
