package application

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/social-feed/internal/domain/entity"
)

// UserSearcher answers email substring queries. Both the user repository and
// the Elasticsearch index satisfy it.
type UserSearcher interface {
	SearchByEmail(ctx context.Context, fragment string) ([]entity.UserSummary, error)
}

// UserIndex keeps an external search index in sync with the user table.
type UserIndex interface {
	Index(ctx context.Context, u entity.UserSummary) error
	Remove(ctx context.Context, userID string) error
}

// Publisher enqueues a JSON job.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

var validate = validator.New()
