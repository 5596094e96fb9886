package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	order []string
	err   error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*entity.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, x := range f.byID {
		if x.Email == u.Email {
			return fmt.Errorf("%w: user", apperr.ErrDuplicateIdentity)
		}
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	f.order = append(f.order, u.ID)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	for id, x := range f.byID {
		if id != u.ID && x.Email == u.Email {
			return fmt.Errorf("%w: user", apperr.ErrDuplicateIdentity)
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]entity.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.UserSummary{}
	for _, id := range f.order {
		if u, ok := f.byID[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (f *fakeUsers) SearchByEmail(ctx context.Context, fragment string) ([]entity.UserSummary, error) {
	all, _ := f.List(ctx)
	out := []entity.UserSummary{}
	for _, u := range all {
		if strings.Contains(u.Email, strings.ToLower(fragment)) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakePosts struct {
	mu      sync.Mutex
	posts   []entity.Post
	nextID  int64
	listErr error
}

func (f *fakePosts) Create(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID, p.Likes, p.CreatedAt = f.nextID, 0, time.Now()
	f.posts = append(f.posts, *p)
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: post", apperr.ErrNotFound)
}

func (f *fakePosts) List(_ context.Context) ([]entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entity.Post{}, f.posts...), nil
}

func (f *fakePosts) Delete(_ context.Context, id int64, authorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == id && p.AuthorID == authorID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: post", apperr.ErrNotFound)
}

func (f *fakePosts) IncrementLikes(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Likes++
			return f.posts[i].Likes, nil
		}
	}
	return 0, fmt.Errorf("%w: post", apperr.ErrNotFound)
}

type fakeComments struct {
	mu         sync.Mutex
	posts      *fakePosts
	comments   []entity.Comment
	nextID     int64
	batchCalls int
	lastBatch  []int64
}

func (f *fakeComments) Create(ctx context.Context, c *entity.Comment) error {
	if _, err := f.posts.GetByID(ctx, c.PostID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID, c.CreatedAt = f.nextID, time.Now()
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, postID, commentID int64) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.ID == commentID && c.PostID == postID {
			cp := c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: comment", apperr.ErrNotFound)
}

func (f *fakeComments) Delete(_ context.Context, postID, commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments {
		if c.ID == commentID && c.PostID == postID {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: comment", apperr.ErrNotFound)
}

func (f *fakeComments) ListByPostIDs(_ context.Context, postIDs []int64) ([]entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.lastBatch = append([]int64{}, postIDs...)
	want := map[int64]bool{}
	for _, id := range postIDs {
		want[id] = true
	}
	out := []entity.Comment{}
	for _, c := range f.comments {
		if want[c.PostID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeIdentity issues opaque proofs and tracks them per user.
type fakeIdentity struct {
	mu     sync.Mutex
	proofs map[string]string
}

func newFakeIdentity() *fakeIdentity { return &fakeIdentity{proofs: map[string]string{}} }

func (f *fakeIdentity) Issue(_ context.Context, userID string) (repo.Proof, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := uuid.NewString()
	f.proofs[v] = userID
	return repo.Proof{Value: v, UserID: userID, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeIdentity) Verify(_ context.Context, value string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if uid, ok := f.proofs[value]; ok {
		return uid, nil
	}
	return "", apperr.ErrUnauthorized
}

func (f *fakeIdentity) Invalidate(_ context.Context, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.proofs, value)
	return nil
}

func (f *fakeIdentity) InvalidateAll(_ context.Context, userID, keep string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for v, uid := range f.proofs {
		if uid == userID && v != keep {
			delete(f.proofs, v)
		}
	}
	return nil
}

func (f *fakeIdentity) Transport() repo.Transport { return repo.TransportCookie }

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]entity.UserSummary
	err  error
}

func (f *fakeIndex) Index(_ context.Context, u entity.UserSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs[u.ID] = u
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body)
	return nil
}

type fakeImages struct {
	path, contentType string
	body              []byte
}

func (f *fakeImages) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.path, f.contentType, f.body = objectPath, contentType, b
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

var nopLogger = helpers.NewNopLogger()
