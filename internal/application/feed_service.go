package application

import (
	"cmp"
	"context"
	"slices"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
)

type SortOrder string

const (
	SortInsertion SortOrder = ""
	SortLikesAsc  SortOrder = "likes_asc"
	SortLikesDesc SortOrder = "likes_desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortInsertion, SortLikesAsc, SortLikesDesc:
		return o, nil
	}
	return "", apperr.Invalid("sort must be likes_asc or likes_desc")
}

type FeedService struct {
	Posts    repo.PostRepository
	Comments repo.CommentRepository
}

func NewFeedService(posts repo.PostRepository, comments repo.CommentRepository) *FeedService {
	return &FeedService{Posts: posts, Comments: comments}
}

// ListPosts returns every post with its comments attached. Comments for all
// posts are loaded with one batched query; none is issued when there are no
// posts.
func (s *FeedService) ListPosts(ctx context.Context, order SortOrder) ([]entity.PostWithComments, error) {
	posts, err := s.Posts.List(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	out := make([]entity.PostWithComments, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	comments, err := s.Comments.ListByPostIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Store(err)
	}

	byPost := make(map[int64][]entity.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for _, p := range posts {
		cs := byPost[p.ID]
		if cs == nil {
			cs = []entity.Comment{}
		}
		out = append(out, entity.PostWithComments{Post: p, Comments: cs})
	}

	switch order {
	case SortLikesAsc:
		slices.SortStableFunc(out, func(a, b entity.PostWithComments) int { return cmp.Compare(a.Likes, b.Likes) })
	case SortLikesDesc:
		slices.SortStableFunc(out, func(a, b entity.PostWithComments) int { return cmp.Compare(b.Likes, a.Likes) })
	}
	return out, nil
}

