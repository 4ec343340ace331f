package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/middleware"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorIDFromContext(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
