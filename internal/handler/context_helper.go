package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/middleware"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// currentUser returns the caller's claims or writes a 401.
func currentUser(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func respondOK(c *gin.Context, data interface{}) {
	response.JSON(c, http.StatusOK, data)
}
