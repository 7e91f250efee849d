package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the caller recorded in audit fields. Authentication is handled upstream.
const ActorHeader = "X-Actor"

// DefaultActor is recorded when a request does not name its caller.
const DefaultActor = "system"

// actorKey is the key used to store the acting user in the Gin and request contexts.
const actorKey = contextKey("actor")

// ActorMiddleware resolves the acting user from the X-Actor header.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(string(actorKey), actor)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), actorKey, actor))
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		// check in the request context as well
		if actor, ok := c.Request.Context().Value(actorKey).(string); ok && actor != "" {
			return actor
		}
		return DefaultActor
	}

	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return DefaultActor
	}
	return actor
}
