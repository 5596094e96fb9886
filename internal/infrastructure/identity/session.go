package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

func sessionKey(sid string) string     { return "session:" + sid }
func userSessionsKey(uid string) string { return "user:sessions:" + uid }

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionProvider keeps server-side sessions in Redis, keyed by an opaque
// session id carried in a cookie. Each login creates an independent session.
type SessionProvider struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionProvider(rdb *redis.Client, ttl time.Duration) *SessionProvider {
	return &SessionProvider{rdb: rdb, ttl: ttl}
}

func (p *SessionProvider) Issue(ctx context.Context, userID string) (repository.Proof, error) {
	if p.rdb == nil {
		return repository.Proof{}, fmt.Errorf("%w: session store not initialized", apperr.ErrStoreFailure)
	}
	now := time.Now().UTC()
	rec := sessionRecord{UserID: userID, IssuedAt: now, ExpiresAt: now.Add(p.ttl)}
	sid := uuid.NewString()

	if err := helpers.RedisSetJSON(ctx, p.rdb, sessionKey(sid), rec, p.ttl); err != nil {
		return repository.Proof{}, apperr.Store(err)
	}
	pipe := p.rdb.Pipeline()
	pipe.SAdd(ctx, userSessionsKey(userID), sid)
	pipe.Expire(ctx, userSessionsKey(userID), p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		_ = helpers.RedisDel(ctx, p.rdb, sessionKey(sid))
		return repository.Proof{}, apperr.Store(err)
	}
	return repository.Proof{Value: sid, UserID: userID, IssuedAt: rec.IssuedAt, ExpiresAt: rec.ExpiresAt}, nil
}

func (p *SessionProvider) Verify(ctx context.Context, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: missing session", apperr.ErrUnauthenticated)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", fmt.Errorf("%w: malformed session id", apperr.ErrUnauthenticated)
	}
	if p.rdb == nil {
		return "", fmt.Errorf("%w: session store not initialized", apperr.ErrUnauthorized)
	}
	var rec sessionRecord
	ok, err := helpers.RedisGetJSON(ctx, p.rdb, sessionKey(value), &rec)
	if err != nil {
		return "", apperr.Store(err)
	}
	if !ok || rec.UserID == "" {
		return "", fmt.Errorf("%w: session not found", apperr.ErrUnauthorized)
	}
	if !time.Now().Before(rec.ExpiresAt) {
		_ = helpers.RedisDel(ctx, p.rdb, sessionKey(value))
		return "", fmt.Errorf("%w: session expired", apperr.ErrUnauthorized)
	}
	return rec.UserID, nil
}

func (p *SessionProvider) Invalidate(ctx context.Context, value string) error {
	if p.rdb == nil || value == "" {
		return nil
	}
	var rec sessionRecord
	ok, err := helpers.RedisGetJSON(ctx, p.rdb, sessionKey(value), &rec)
	if err != nil {
		return apperr.Store(err)
	}
	pipe := p.rdb.Pipeline()
	pipe.Del(ctx, sessionKey(value))
	if ok {
		pipe.SRem(ctx, userSessionsKey(rec.UserID), value)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (p *SessionProvider) InvalidateAll(ctx context.Context, userID, keep string) error {
	if p.rdb == nil {
		return nil
	}
	sids, err := p.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return apperr.Store(err)
	}
	pipe := p.rdb.Pipeline()
	for _, sid := range sids {
		if sid == keep {
			continue
		}
		pipe.Del(ctx, sessionKey(sid))
		pipe.SRem(ctx, userSessionsKey(userID), sid)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (p *SessionProvider) Transport() repository.Transport { return repository.TransportCookie }

var _ repository.IdentityProvider = (*SessionProvider)(nil)
