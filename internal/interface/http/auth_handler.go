package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/application"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/internal/interface/httperr"
	"github.com/oksasatya/social-feed/internal/interface/middleware"
	"github.com/oksasatya/social-feed/pkg/helpers"
	"github.com/oksasatya/social-feed/pkg/response"
	"github.com/oksasatya/social-feed/pkg/validation"
)

type AuthHandler struct {
	Svc       *application.AuthService
	Transport repo.Transport
	Cookies   *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Transport: svc.Identity.Transport(), Cookies: cookies}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"max=64"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

type loginResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token,omitempty"`
	TokenType string    `json:"token_type,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email: req.Email, Password: req.Password, Username: req.Username,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "registered", nil)
}

// Login POST /login. Bearer deployments return the token in the body;
// session deployments set the session cookie instead.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, proof, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	out := loginResponse{UserID: u.ID, ExpiresAt: proof.ExpiresAt}
	if h.Transport == repo.TransportCookie {
		h.Cookies.Set(c, proof.Value, proof.ExpiresAt)
	} else {
		out.Token, out.TokenType = proof.Value, "Bearer"
	}
	response.Success(c, http.StatusOK, out, "login successful", nil)
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.Proof(c)); err != nil {
		httperr.Abort(c, err)
		return
	}
	if h.Transport == repo.TransportCookie {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// ChangePassword PUT /users/:id/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserID(c), c.Param("id"), middleware.Proof(c),
		application.ChangePasswordInput{Current: req.CurrentPassword, New: req.NewPassword})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"password_changed": true}, "password changed", nil)
}
