package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/internal/domain/repository"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts the comment only while its post exists, so a comment can
// never reference a deleted post even when a delete races the insert.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, text)
		SELECT p.id, $2::uuid, $3::text FROM posts p WHERE p.id = $1
		RETURNING id, created_at
	`, c.PostID, c.AuthorID, c.Text)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt), "post")
}

func (r *CommentRepository) GetByID(ctx context.Context, postID, commentID int64) (*entity.Comment, error) {
	c := &entity.Comment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, post_id, author_id::text, text, created_at
		FROM comments
		WHERE id = $1 AND post_id = $2
	`, commentID, postID).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err, "comment")
	}
	return c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, postID, commentID int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND post_id = $2`, commentID, postID)
	if err != nil {
		return mapErr(err, "comment")
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "comment")
	}
	return nil
}

// ListByPostIDs fetches the comments of every given post in one query.
func (r *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]entity.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, post_id, author_id::text, text, created_at
		FROM comments
		WHERE post_id = ANY($1)
		ORDER BY id
	`, postIDs)
	if err != nil {
		return nil, mapErr(err, "comments")
	}
	defer rows.Close()

	out := make([]entity.Comment, 0)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, mapErr(err, "comments")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "comments")
	}
	return out, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
