package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/internal/service"
)

type stubValidator struct {
	claims map[string]*models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s.claims[token]; ok {
		return claims, nil
	}
	return nil, errors.New("token is malformed")
}

func newProtectedEngine(gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := stubValidator{claims: map[string]*models.JWTClaims{
		"lecturer-token": {UserID: "L1", Role: models.RoleLecturer},
		"pl-token":       {UserID: "PL1", Role: models.RolePL},
		"forged-token":   {UserID: "X", Role: models.Role("admin")},
	}}
	r := gin.New()
	r.GET("/protected", JWT(validator), gate, func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
	})
	return r
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestJWTRejectsMissingAndInvalidTokensAlike(t *testing.T) {
	r := newProtectedEngine(RequireRole(models.RoleLecturer))

	var bodies []map[string]interface{}
	for _, header := range []string{"", "Token lecturer-token", "Bearer ", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, header)
		bodies = append(bodies, errorBody(t, w))
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
	assert.Equal(t, "UNAUTHORIZED", bodies[0]["code"])
	assert.Equal(t, "unauthorized", bodies[0]["message"])
}

func TestRequireRole(t *testing.T) {
	r := newProtectedEngine(RequireRole(models.RoleLecturer))

	cases := []struct {
		token  string
		status int
	}{
		{"lecturer-token", http.StatusOK},
		{"pl-token", http.StatusForbidden},
		{"forged-token", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.token)
		if tc.status == http.StatusForbidden {
			assert.Equal(t, "FORBIDDEN", errorBody(t, w)["code"])
		}
	}
}

func TestRequireRolesAcceptsAnyListedRole(t *testing.T) {
	r := newProtectedEngine(RequireRoles(models.RoleLecturer, models.RolePRL, models.RolePL))

	for _, token := range []string{"lecturer-token", "pl-token"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, token)
	}
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", RequireRole(models.RolePL), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/reports/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/dash", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ExtractMeta(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dash", nil))
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.NotContains(t, meta, "started_at")
}
