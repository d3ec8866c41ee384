package middleware

import (
	"net/http"
	"strings"

	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity and role on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": utils.ErrorEnvelope{Code: "MISSING_TOKEN", Message: "Authorization header is required"},
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": utils.ErrorEnvelope{Code: "INVALID_TOKEN", Message: "token is invalid or expired"},
			})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: actorID, Role: role})
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor stored by
// JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
