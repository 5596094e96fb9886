package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
)

func newPostFixture() (*PostService, *fakePosts, *fakeComments, *fakeImages) {
	posts := &fakePosts{}
	comments := &fakeComments{posts: posts}
	images := &fakeImages{}
	return NewPostService(posts, comments, images, nopLogger), posts, comments, images
}

func TestCreatePost_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newPostFixture()
	ctx := context.Background()

	for _, in := range []string{"", "   ", "not a url", "/relative.png", "ftp://host/x.png", "https://"} {
		_, err := svc.CreatePost(ctx, "u-1", in)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, in)
	}

	p, err := svc.CreatePost(ctx, "u-1", "https://img.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.AuthorID)
	assert.Equal(t, int64(0), p.Likes)
}

func TestDeletePost_Ownership(t *testing.T) {
	t.Parallel()
	svc, posts, _, _ := newPostFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u-1", "https://img.example.com/a.png")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(ctx, "u-2", p.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.DeletePost(ctx, "u-1", 999), apperr.ErrNotFound)
	require.NoError(t, svc.DeletePost(ctx, "u-1", p.ID))
	assert.Empty(t, posts.posts)
}

func TestLike_ConcurrentNoLostUpdates(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newPostFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u-1", "https://img.example.com/a.png")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Like(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	likes, err := svc.Like(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), likes)

	_, err = svc.Like(ctx, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	t.Parallel()
	svc, _, comments, _ := newPostFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u-1", "https://img.example.com/a.png")
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, "u-2", p.ID, "  \t ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.AddComment(ctx, "u-2", 404, "hello")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.AddComment(ctx, "u-2", p.ID, strings.Repeat("a", maxCommentLen+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	// Limit counts characters, so multi-byte text at the limit is accepted.
	long, err := svc.AddComment(ctx, "u-2", p.ID, strings.Repeat("é", maxCommentLen))
	require.NoError(t, err)
	assert.Equal(t, maxCommentLen, utf8.RuneCountInString(long.Text))
	_, err = svc.AddComment(ctx, "u-2", p.ID, strings.Repeat("é", maxCommentLen+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	c, err := svc.AddComment(ctx, "u-2", p.ID, "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Text)
	assert.Equal(t, "u-2", c.AuthorID)
	assert.Len(t, comments.comments, 2)
}

func TestDeleteComment_AuthorOrPostOwner(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newPostFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "owner", "https://img.example.com/a.png")
	require.NoError(t, err)
	c1, err := svc.AddComment(ctx, "author", p.ID, "one")
	require.NoError(t, err)
	c2, err := svc.AddComment(ctx, "author", p.ID, "two")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteComment(ctx, "stranger", p.ID, c1.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteComment(ctx, "author", p.ID+1, c1.ID), apperr.ErrNotFound)
	require.NoError(t, svc.DeleteComment(ctx, "author", p.ID, c1.ID))
	require.NoError(t, svc.DeleteComment(ctx, "owner", p.ID, c2.ID))
	assert.ErrorIs(t, svc.DeleteComment(ctx, "owner", p.ID, c2.ID), apperr.ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	t.Parallel()
	svc, _, _, images := newPostFixture()
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, "u-1", "doc.pdf", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	u, err := svc.UploadImage(ctx, "u-1", "Cat.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(images.path, "posts/u-1/"))
	assert.True(t, strings.HasSuffix(images.path, ".png"))
	assert.Equal(t, "image/png", images.contentType)
	assert.Equal(t, "png-bytes", string(images.body))
	assert.True(t, strings.HasSuffix(u, images.path))

	svc.Images = nil
	_, err = svc.UploadImage(ctx, "u-1", "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrStoreFailure)
}
