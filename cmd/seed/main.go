package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/social-feed/config"
	"github.com/oksasatya/social-feed/internal/application"
	"github.com/oksasatya/social-feed/internal/container"
	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
	demoUsername = "demoUser"
	demoImageURL = "https://picsum.photos/seed/social-feed/600/400"
)

// Seeds a demo user with one post. Running it again leaves existing data alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	// The seeder sends no emails and uploads nothing.
	cfg.RabbitMQURL = ""
	cfg.GCSBucket = ""
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer c.Close()

	u, err := c.Auth.Register(ctx, application.RegisterInput{
		Email: demoEmail, Password: demoPassword, Username: demoUsername,
	})
	switch {
	case errors.Is(err, apperr.ErrDuplicateIdentity):
		u, err = c.Users.GetByEmail(ctx, demoEmail)
		if err != nil {
			log.Fatalf("failed to load demo user: %v", err)
		}
		logger.WithField("user_id", u.ID).Info("demo user already present")
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		logger.WithField("user_id", u.ID).Info("seeded demo user")
	}

	if hasPost(ctx, c, u) {
		logger.Info("demo post already present")
		return
	}
	p, err := c.Post.CreatePost(ctx, u.ID, demoImageURL)
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	logger.WithField("post_id", p.ID).Infof("seeded demo post; login with %s / %s", demoEmail, demoPassword)
}

func hasPost(ctx context.Context, c *container.Container, u *entity.User) bool {
	posts, err := c.Posts.List(ctx)
	if err != nil {
		log.Fatalf("failed to list posts: %v", err)
	}
	for _, p := range posts {
		if p.AuthorID == u.ID {
			return true
		}
	}
	return false
}
