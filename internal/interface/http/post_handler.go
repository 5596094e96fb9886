package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/application"
	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/interface/httperr"
	"github.com/oksasatya/social-feed/internal/interface/middleware"
	"github.com/oksasatya/social-feed/pkg/response"
	"github.com/oksasatya/social-feed/pkg/validation"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

type PostHandler struct {
	Posts *application.PostService
	Feed  *application.FeedService
}

func NewPostHandler(posts *application.PostService, feed *application.FeedService) *PostHandler {
	return &PostHandler{Posts: posts, Feed: feed}
}

type createPostRequest struct {
	ImageURL string `json:"image_url" binding:"required,max=2048"`
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListPosts GET /posts?sort=likes_asc|likes_desc
func (h *PostHandler) ListPosts(c *gin.Context) {
	order, err := application.ParseSortOrder(c.Query("sort"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	feed, err := h.Feed.ListPosts(c.Request.Context(), order)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFeed(feed), "ok", nil)
}

// CreatePost POST /posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Posts.CreatePost(c.Request.Context(), middleware.UserID(c), req.ImageURL)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"post_id": p.ID}, "post created", nil)
}

// DeletePost DELETE /posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	if err := h.Posts.DeletePost(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "post deleted", nil)
}

// Like POST /posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	likes, err := h.Posts.Like(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post_id": id, "likes": likes}, "liked", nil)
}

// AddComment POST /posts/:id/comment
func (h *PostHandler) AddComment(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Posts.AddComment(c.Request.Context(), middleware.UserID(c), id, req.Text)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"comment_id": cm.ID}, "comment added", nil)
}

// DeleteComment DELETE /posts/:id/comments/:commentId
func (h *PostHandler) DeleteComment(c *gin.Context) {
	postID, err := int64Param(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	commentID, err := int64Param(c, "commentId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	if err := h.Posts.DeleteComment(c.Request.Context(), middleware.UserID(c), postID, commentID); err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "comment deleted", nil)
}

// UploadImage POST /uploads/images (multipart field "image"). The content
// type is sniffed from the file itself, not taken from the client.
func (h *PostHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Abort(c, apperr.Invalid("image exceeds %d bytes", MaxUploadBytes))
			return
		}
		httperr.Abort(c, apperr.Invalid("image file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.Abort(c, apperr.Invalid("image file is unreadable"))
		return
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		httperr.Abort(c, apperr.Invalid("image file is unreadable"))
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	url, err := h.Posts.UploadImage(c.Request.Context(), middleware.UserID(c), fh.Filename, contentType,
		io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "image uploaded", nil)
}
