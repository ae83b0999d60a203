package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/middleware"
	"github.com/noah-isme/luct-reporting-api/internal/models"
)

func newGinContext(method, path, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	return body.Message
}

var (
	lecturerClaims = &models.JWTClaims{UserID: "L1", Role: models.RoleLecturer, Username: "lmokoena"}
	prlClaims      = &models.JWTClaims{UserID: "P1", Role: models.RolePRL, Username: "pntho"}
	plClaims       = &models.JWTClaims{UserID: "PL1", Role: models.RolePL, Username: "tlebesa"}
	studentClaims  = &models.JWTClaims{UserID: "ST1", Role: models.RoleStudent, Username: "901234"}
)
