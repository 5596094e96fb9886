package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/social-feed/config"
	"github.com/oksasatya/social-feed/internal/application"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/internal/infrastructure/identity"
	pginfra "github.com/oksasatya/social-feed/internal/infrastructure/postgres"
	"github.com/oksasatya/social-feed/internal/infrastructure/search"
	"github.com/oksasatya/social-feed/internal/infrastructure/sqlite"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

// Container is the application graph built once at startup and handed to the
// router and commands explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	// Redis is nil when REDIS_ADDR is empty or unreachable in token mode.
	Redis *redis.Client

	Users    repo.UserRepository
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Identity repo.IdentityProvider
	Cookies  *helpers.Manager

	Auth *application.AuthService
	User *application.UserService
	Post *application.PostService
	Feed *application.FeedService

	closers []func()
}

// New connects every configured backend and builds the services on top of them.
// Optional backends (rabbitmq, gcs) that fail to connect are logged and left out.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.openRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	switch cfg.AuthMode {
	case config.AuthModeSession:
		c.Identity = identity.NewSessionProvider(c.Redis, cfg.SessionTTL)
	default:
		c.Identity = identity.NewTokenProvider(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	}
	c.Cookies = helpers.NewCookie(cfg.SessionCookie, cfg.CookieDomain, cfg.CookieSecure)

	var (
		searcher application.UserSearcher
		index    application.UserIndex
		mail     application.Publisher
		images   application.ImageStore
	)
	if cfg.SearchBackend == config.SearchElasticsearch {
		idx, err := c.openSearch(ctx)
		if err != nil {
			c.Close()
			return nil, err
		}
		searcher, index = idx, idx
	}
	if pub := c.openPublisher(); pub != nil {
		mail = pub
	}
	if store := c.openImages(ctx); store != nil {
		images = store
	}

	c.Auth = application.NewAuthService(c.Users, c.Identity, index, mail, logger)
	c.User = application.NewUserService(c.Users, c.Identity, searcher, index, logger)
	c.Post = application.NewPostService(c.Posts, c.Comments, images, logger)
	c.Feed = application.NewFeedService(c.Posts, c.Comments)
	return c, nil
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		c.onClose(func() { _ = db.Close() })
		c.Users = sqlite.NewUserRepository(db)
		c.Posts = sqlite.NewPostRepository(db)
		c.Comments = sqlite.NewCommentRepository(db)
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.onClose(pool.Close)
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Posts = pginfra.NewPostRepository(pool)
		c.Comments = pginfra.NewCommentRepository(pool)
	}
	c.Logger.WithField("driver", cfg.DBDriver).Info("store ready")
	return nil
}

func (c *Container) openRedis(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisAddr == "" {
		if cfg.AuthMode == config.AuthModeSession {
			return errors.New("redis is required for session auth")
		}
		c.Logger.Warn("redis not configured; rate limiting disabled")
		return nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		if cfg.AuthMode == config.AuthModeSession {
			return fmt.Errorf("redis ping: %w", err)
		}
		c.Logger.WithError(err).Warn("redis unreachable; rate limiting disabled")
		return nil
	}
	c.Redis = rdb
	c.onClose(func() { _ = rdb.Close() })
	return nil
}

func (c *Container) openSearch(ctx context.Context) (*search.UserIndex, error) {
	cfg := c.Config
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	idx := search.NewUserIndex(es, cfg.ESUsersIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("elasticsearch index: %w", err)
	}
	return idx, nil
}

func (c *Container) openPublisher() *helpers.RabbitPublisher {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		return nil
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; email jobs disabled")
		return nil
	}
	c.onClose(pub.Close)
	return pub
}

func (c *Container) openImages(ctx context.Context) *helpers.GCSImageStore {
	cfg := c.Config
	if cfg.GCSBucket == "" {
		return nil
	}
	client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		c.Logger.WithError(err).Warn("gcs unavailable; image uploads disabled")
		return nil
	}
	c.onClose(func() { _ = client.Close() })
	return helpers.NewGCSImageStore(client, cfg.GCSBucket)
}
