package application

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
)

const maxCommentLen = 2000

type PostService struct {
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Images   ImageStore
	Logger   *logrus.Logger
}

func NewPostService(posts repo.PostRepository, comments repo.CommentRepository, images ImageStore, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Comments: comments, Images: images, Logger: logger}
}

func validateImageURL(raw string) error {
	if raw == "" {
		return apperr.Invalid("image_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperr.Invalid("image_url must be an absolute http(s) URL")
	}
	return nil
}

// CreatePost stores a post authored by principal.
func (s *PostService) CreatePost(ctx context.Context, principal, imageURL string) (*entity.Post, error) {
	imageURL = strings.TrimSpace(imageURL)
	if err := validateImageURL(imageURL); err != nil {
		return nil, err
	}
	p := &entity.Post{AuthorID: principal, ImageURL: imageURL}
	if err := s.Posts.Create(ctx, p); err != nil {
		if !apperr.Classified(err) {
			s.Logger.WithError(err).WithField("user_id", principal).Error("create post failed")
		}
		return nil, apperr.Store(err)
	}
	postsTotal.Add(1)
	return p, nil
}

func (s *PostService) DeletePost(ctx context.Context, principal string, postID int64) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return apperr.Store(err)
	}
	if p.AuthorID != principal {
		return fmt.Errorf("%w: post belongs to another user", apperr.ErrForbidden)
	}
	return apperr.Store(s.Posts.Delete(ctx, postID, principal))
}

// Like increments the post's like counter and returns the new count.
func (s *PostService) Like(ctx context.Context, postID int64) (int64, error) {
	likes, err := s.Posts.IncrementLikes(ctx, postID)
	if err != nil {
		return 0, apperr.Store(err)
	}
	likesTotal.Add(1)
	return likes, nil
}

func (s *PostService) AddComment(ctx context.Context, principal string, postID int64, text string) (*entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, apperr.Invalid("text must be at most %d characters", maxCommentLen)
	}
	c := &entity.Comment{PostID: postID, AuthorID: principal, Text: text}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, apperr.Store(err)
	}
	commentsTotal.Add(1)
	return c, nil
}

// DeleteComment removes a comment under postID. The comment's author and the
// post's owner may delete it.
func (s *PostService) DeleteComment(ctx context.Context, principal string, postID, commentID int64) error {
	c, err := s.Comments.GetByID(ctx, postID, commentID)
	if err != nil {
		return apperr.Store(err)
	}
	if c.AuthorID != principal {
		p, err := s.Posts.GetByID(ctx, postID)
		if err != nil {
			return apperr.Store(err)
		}
		if p.AuthorID != principal {
			return fmt.Errorf("%w: comment belongs to another user", apperr.ErrForbidden)
		}
	}
	return apperr.Store(s.Comments.Delete(ctx, postID, commentID))
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage stores an image under posts/<principal>/ and returns its
// public URL for use as a post's image_url.
func (s *PostService) UploadImage(ctx context.Context, principal, filename, contentType string, r io.Reader) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	defExt, ok := imageExts[contentType]
	if !ok {
		return "", apperr.Invalid("unsupported image type %q", contentType)
	}
	if s.Images == nil {
		return "", fmt.Errorf("%w: image storage not configured", apperr.ErrStoreFailure)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 5 {
		ext = defExt
	}
	objectPath := path.Join("posts", principal, uuid.NewString()+ext)
	u, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Error("upload image failed")
		return "", apperr.Store(err)
	}
	return u, nil
}
