package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustUser(t *testing.T, users *UserRepository, email string) *entity.User {
	t.Helper()
	u := &entity.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	mustUser(t, users, "alice@example.com")
	err := users.Create(ctx, &entity.User{ID: uuid.NewString(), Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateIdentity)

	got, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserGet_NotFound(t *testing.T) {
	users := NewUserRepository(setupDB(t))

	_, err := users.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, users.Delete(context.Background(), "missing"), apperr.ErrNotFound)
}

func TestUserSearchByEmail(t *testing.T) {
	users := NewUserRepository(setupDB(t))
	ctx := context.Background()

	mustUser(t, users, "alice@example.com")
	mustUser(t, users, "bob@example.org")
	mustUser(t, users, "a_b@example.com")

	got, err := users.SearchByEmail(ctx, "EXAMPLE.COM")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = users.SearchByEmail(ctx, "_")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a_b@example.com", got[0].Email)

	got, err = users.SearchByEmail(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUserDelete_CascadesContent(t *testing.T) {
	db := setupDB(t)
	users, posts, comments := NewUserRepository(db), NewPostRepository(db), NewCommentRepository(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	bob := mustUser(t, users, "bob@example.com")

	p := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/a.png"}
	require.NoError(t, posts.Create(ctx, p))
	require.NoError(t, comments.Create(ctx, &entity.Comment{PostID: p.ID, AuthorID: bob.ID, Text: "nice"}))

	require.NoError(t, users.Delete(ctx, alice.ID))

	_, err := posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	left, err := comments.ListByPostIDs(ctx, []int64{p.ID})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPostDelete_OnlyOwner(t *testing.T) {
	db := setupDB(t)
	users, posts := NewUserRepository(db), NewPostRepository(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	p := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/a.png"}
	require.NoError(t, posts.Create(ctx, p))

	assert.ErrorIs(t, posts.Delete(ctx, p.ID, "someone-else"), apperr.ErrNotFound)
	require.NoError(t, posts.Delete(ctx, p.ID, alice.ID))
}

func TestPostIncrementLikes_Concurrent(t *testing.T) {
	db := setupDB(t)
	users, posts := NewUserRepository(db), NewPostRepository(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	p := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/a.png"}
	require.NoError(t, posts.Create(ctx, p))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := posts.IncrementLikes(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Likes)

	_, err = posts.IncrementLikes(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCommentCreate_MissingPost(t *testing.T) {
	db := setupDB(t)
	users, comments := NewUserRepository(db), NewCommentRepository(db)

	alice := mustUser(t, users, "alice@example.com")
	err := comments.Create(context.Background(), &entity.Comment{PostID: 42, AuthorID: alice.ID, Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCommentListByPostIDs_Groups(t *testing.T) {
	db := setupDB(t)
	users, posts, comments := NewUserRepository(db), NewPostRepository(db), NewCommentRepository(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	p1 := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/1.png"}
	p2 := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/2.png"}
	require.NoError(t, posts.Create(ctx, p1))
	require.NoError(t, posts.Create(ctx, p2))

	for _, c := range []*entity.Comment{
		{PostID: p1.ID, AuthorID: alice.ID, Text: "one"},
		{PostID: p2.ID, AuthorID: alice.ID, Text: "two"},
		{PostID: p1.ID, AuthorID: alice.ID, Text: "three"},
	} {
		require.NoError(t, comments.Create(ctx, c))
	}

	got, err := comments.ListByPostIDs(ctx, []int64{p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "three", got[2].Text)

	got, err = comments.ListByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	c, err := comments.GetByID(ctx, p1.ID, commentIDOf(t, comments, p2.ID))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func commentIDOf(t *testing.T, comments *CommentRepository, postID int64) int64 {
	t.Helper()
	list, err := comments.ListByPostIDs(context.Background(), []int64{postID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0].ID
}

func TestCommentListByPostIDs_BeyondVariableLimit(t *testing.T) {
	db := setupDB(t)
	users, posts, comments := NewUserRepository(db), NewPostRepository(db), NewCommentRepository(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	_, err := db.ExecContext(ctx, `
		WITH RECURSIVE seq(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM seq WHERE n < 40000)
		INSERT INTO posts (author_id, image_url, likes, created_at)
		SELECT ?, 'https://img/' || n || '.png', 0, n FROM seq
	`, alice.ID)
	require.NoError(t, err)

	all, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 40000)
	ids := make([]int64, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}

	last := ids[len(ids)-1]
	require.NoError(t, comments.Create(ctx, &entity.Comment{PostID: last, AuthorID: alice.ID, Text: "deep"}))

	got, err := comments.ListByPostIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, last, got[0].PostID)
	assert.Equal(t, "deep", got[0].Text)
}

func TestCreate_UnknownAuthor(t *testing.T) {
	db := setupDB(t)
	users, posts, comments := NewUserRepository(db), NewPostRepository(db), NewCommentRepository(db)
	ctx := context.Background()

	err := posts.Create(ctx, &entity.Post{AuthorID: uuid.NewString(), ImageURL: "https://img/x.png"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	alice := mustUser(t, users, "alice@example.com")
	p := &entity.Post{AuthorID: alice.ID, ImageURL: "https://img/1.png"}
	require.NoError(t, posts.Create(ctx, p))
	err = comments.Create(ctx, &entity.Comment{PostID: p.ID, AuthorID: uuid.NewString(), Text: "ghost"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
