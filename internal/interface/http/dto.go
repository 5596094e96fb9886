package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type userSummaryResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func toUserSummaries(in []entity.UserSummary) []userSummaryResponse {
	out := make([]userSummaryResponse, 0, len(in))
	for _, u := range in {
		out = append(out, userSummaryResponse{ID: u.ID, Email: u.Email, Username: u.Username})
	}
	return out
}

type commentResponse struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c *entity.Comment) commentResponse {
	return commentResponse{ID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt}
}

type postResponse struct {
	ID        int64             `json:"id"`
	AuthorID  string            `json:"author_id"`
	ImageURL  string            `json:"image_url"`
	Likes     int64             `json:"likes"`
	CreatedAt time.Time         `json:"created_at"`
	Comments  []commentResponse `json:"comments"`
}

func toFeed(in []entity.PostWithComments) []postResponse {
	out := make([]postResponse, 0, len(in))
	for _, p := range in {
		cs := make([]commentResponse, 0, len(p.Comments))
		for i := range p.Comments {
			cs = append(cs, toCommentResponse(&p.Comments[i]))
		}
		out = append(out, postResponse{
			ID: p.ID, AuthorID: p.AuthorID, ImageURL: p.ImageURL, Likes: p.Likes, CreatedAt: p.CreatedAt, Comments: cs,
		})
	}
	return out
}

// int64Param parses a numeric path parameter.
func int64Param(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.Invalid("%s must be a positive integer", name)
	}
	return v, nil
}
