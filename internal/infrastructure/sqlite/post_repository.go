package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/internal/domain/repository"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (author_id, image_url, likes, created_at) VALUES (?, ?, 0, ?)
	`, p.AuthorID, p.ImageURL, toUnix(now))
	if err != nil {
		return mapErr(err, "post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return mapErr(err, "post")
	}
	p.ID, p.Likes, p.CreatedAt = id, 0, now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	var (
		p       entity.Post
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, author_id, image_url, likes, created_at FROM posts WHERE id = ?
	`, id).Scan(&p.ID, &p.AuthorID, &p.ImageURL, &p.Likes, &created)
	if err != nil {
		return nil, mapErr(err, "post")
	}
	p.CreatedAt = fromUnix(created)
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, author_id, image_url, likes, created_at FROM posts ORDER BY id
	`)
	if err != nil {
		return nil, mapErr(err, "posts")
	}
	defer rows.Close()

	out := make([]entity.Post, 0)
	for rows.Next() {
		var (
			p       entity.Post
			created int64
		)
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.ImageURL, &p.Likes, &created); err != nil {
			return nil, mapErr(err, "posts")
		}
		p.CreatedAt = fromUnix(created)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "posts")
	}
	return out, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64, authorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return mapErr(err, "post")
	}
	return affected(res, "post")
}

func (r *PostRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	var likes int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE posts SET likes = likes + 1 WHERE id = ? RETURNING likes
	`, id).Scan(&likes)
	if err != nil {
		return 0, mapErr(err, "post")
	}
	return likes, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts the comment only while its post exists.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, text, created_at)
		SELECT p.id, ?, ?, ? FROM posts p WHERE p.id = ?
		RETURNING id
	`, c.AuthorID, c.Text, toUnix(now), c.PostID).Scan(&c.ID)
	if err != nil {
		return mapErr(err, "post")
	}
	c.CreatedAt = now
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, postID, commentID int64) (*entity.Comment, error) {
	var (
		c       entity.Comment
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, author_id, text, created_at
		FROM comments WHERE id = ? AND post_id = ?
	`, commentID, postID).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &created)
	if err != nil {
		return nil, mapErr(err, "comment")
	}
	c.CreatedAt = fromUnix(created)
	return &c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, postID, commentID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ? AND post_id = ?`, commentID, postID)
	if err != nil {
		return mapErr(err, "comment")
	}
	return affected(res, "comment")
}

// ListByPostIDs fetches the comments of every given post in one query.
func (r *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]entity.Comment, error) {
	out := make([]entity.Comment, 0)
	if len(postIDs) == 0 {
		return out, nil
	}

	ids, err := json.Marshal(postIDs)
	if err != nil {
		return nil, mapErr(err, "comments")
	}

	// One JSON argument keeps the statement under SQLite's bound-variable limit.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, post_id, author_id, text, created_at
		FROM comments WHERE post_id IN (SELECT value FROM json_each(?))
		ORDER BY id
	`, string(ids))
	if err != nil {
		return nil, mapErr(err, "comments")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c       entity.Comment
			created int64
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &created); err != nil {
			return nil, mapErr(err, "comments")
		}
		c.CreatedAt = fromUnix(created)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "comments")
	}
	return out, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
