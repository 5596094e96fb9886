package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/internal/domain/repository"
)

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (author_id, image_url)
		VALUES ($1, $2)
		RETURNING id, likes, created_at
	`, p.AuthorID, p.ImageURL)
	return mapErr(row.Scan(&p.ID, &p.Likes, &p.CreatedAt), "post")
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}
	err := r.db.QueryRow(ctx, `
		SELECT id, author_id::text, image_url, likes, created_at
		FROM posts
		WHERE id = $1
	`, id).Scan(&p.ID, &p.AuthorID, &p.ImageURL, &p.Likes, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err, "post")
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, author_id::text, image_url, likes, created_at
		FROM posts
		ORDER BY id
	`)
	if err != nil {
		return nil, mapErr(err, "posts")
	}
	defer rows.Close()

	out := make([]entity.Post, 0)
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.ImageURL, &p.Likes, &p.CreatedAt); err != nil {
			return nil, mapErr(err, "posts")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "posts")
	}
	return out, nil
}

// Delete removes the post only if authorID still owns it. Its comments are
// removed in the same statement through ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id int64, authorID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return mapErr(err, "post")
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "post")
	}
	return nil
}

// IncrementLikes bumps the counter server-side so concurrent likes never
// lose an update, and returns the new count.
func (r *PostRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	var likes int64
	err := r.db.QueryRow(ctx, `
		UPDATE posts SET likes = likes + 1
		WHERE id = $1
		RETURNING likes
	`, id).Scan(&likes)
	if err != nil {
		return 0, mapErr(err, "post")
	}
	return likes, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
