package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type authServiceStub struct {
	registered models.RegisterRequest
	loginErr   error
}

func (s *authServiceStub) Register(ctx context.Context, req models.RegisterRequest) (models.Role, error) {
	s.registered = req
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	return role, nil
}

func (s *authServiceStub) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &models.LoginResponse{Token: "signed", User: models.UserInfo{ID: "L1", Username: req.Username, Role: models.RoleLecturer}}, nil
}

func (s *authServiceStub) Profile(ctx context.Context, userID string) (*models.UserInfo, error) {
	if userID != "L1" {
		return nil, appErrors.ErrNotFound
	}
	return &models.UserInfo{ID: userID, Username: "lmokoena", Role: models.RoleLecturer}, nil
}

type streamListerStub struct{}

func (streamListerStub) ListStreams(ctx context.Context) ([]models.Stream, error) {
	return []models.Stream{{ID: "S1", StreamName: "Information Technology"}}, nil
}

func TestAuthHandlerRegisterMessages(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, streamListerStub{})

	c, w := newGinContext(http.MethodPost, "/auth/register", `{"role":"student","first_name":"Palesa","last_name":"Ntho","username":"901234","password":"pw","password_confirm":"pw","student_number":"901234"}`, nil)
	h.Register(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student registered successfully", messageOf(t, w))

	c, w = newGinContext(http.MethodPost, "/auth/register", `{"role":"prl","first_name":"Lerato","last_name":"Mokoena","username":"lm","password":"pw","password_confirm":"pw"}`, nil)
	h.Register(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PRL registered successfully", messageOf(t, w))
}

func TestAuthHandlerRegisterRejectsMalformedBody(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, streamListerStub{})
	c, w := newGinContext(http.MethodPost, "/auth/register", `{"role":`, nil)
	h.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error["code"])
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{loginErr: appErrors.ErrInvalidCredentials}, streamListerStub{})
	c, w := newGinContext(http.MethodPost, "/auth/login", `{"username":"lm","password":"bad","role":"lecturer"}`, nil)
	h.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error["code"])
}

func TestAuthHandlerMeRequiresClaims(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, streamListerStub{})

	c, w := newGinContext(http.MethodGet, "/auth/me", "", nil)
	h.Me(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/auth/me", "", lecturerClaims)
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"username":"lmokoena"`)
}
