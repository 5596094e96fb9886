package repository

import (
	"context"

	"github.com/oksasatya/social-feed/internal/domain/entity"
)

// PostRepository persists posts. IncrementLikes is a single atomic statement.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	List(ctx context.Context) ([]entity.Post, error)
	Delete(ctx context.Context, id int64, authorID string) error
	IncrementLikes(ctx context.Context, id int64) (int64, error)
}

// CommentRepository persists comments. ListByPostIDs is the batched fan-in
// fetch used by the feed: one round trip for any number of posts.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, postID, commentID int64) (*entity.Comment, error)
	Delete(ctx context.Context, postID, commentID int64) error
	ListByPostIDs(ctx context.Context, postIDs []int64) ([]entity.Comment, error)
}
