package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/social-feed/internal/application"
	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/interface/httperr"
	"github.com/oksasatya/social-feed/internal/interface/middleware"
	"github.com/oksasatya/social-feed/pkg/response"
	"github.com/oksasatya/social-feed/pkg/validation"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type updateProfileRequest struct {
	Email    *string `json:"email" binding:"omitempty,max=254"`
	Username *string `json:"username" binding:"omitempty,max=64"`
}

type searchRequest struct {
	Query string `form:"query"`
}

// Me GET /me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "ok", nil)
}

// GetProfile GET /users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		httperr.Abort(c, fmt.Errorf("%w: user", apperr.ErrNotFound))
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "ok", nil)
}

// UpdateProfile PUT /users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), c.Param("id"), application.UpdateProfileInput{
		Email: req.Email, Username: req.Username,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile updated", nil)
}

// DeleteProfile DELETE /users/:id
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.Svc.DeleteProfile(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "profile deleted", nil)
}

// ListUsers GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserSummaries(users), "ok", nil)
}

// SearchUsers GET /search-users?query=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req searchRequest
	_ = c.ShouldBindQuery(&req)
	users, err := h.Svc.SearchUsers(c.Request.Context(), req.Query)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserSummaries(users), "ok", nil)
}
