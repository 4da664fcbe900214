package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/middleware"
	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	return middleware.Claims(c)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.ID
	}
	return ""
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}
