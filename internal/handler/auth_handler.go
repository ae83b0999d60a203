package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.Role, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, userID string) (*models.UserInfo, error)
}

type streamLister interface {
	ListStreams(ctx context.Context) ([]models.Stream, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	streams streamLister
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, streams streamLister) *AuthHandler {
	return &AuthHandler{service: svc, streams: streams}
}

// Register godoc
// @Summary Register an account
// @Description Self-service registration for students, lecturers, PRLs and PLs
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	role, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := fmt.Sprintf("%s registered successfully", role)
	if role == models.RoleStudent {
		message = "Student registered successfully"
	}
	response.Message(c, http.StatusOK, message)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username, password and role
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, res)
}

// Streams godoc
// @Summary List streams for registration
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/streams [get]
func (h *AuthHandler) Streams(c *gin.Context) {
	streams, err := h.streams.ListStreams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, streams)
}

// Me godoc
// @Summary Get current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	info, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, info)
}
