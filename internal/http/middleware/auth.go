package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-orders/internal/auth"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
	contextActorKey  = "actor"
)

// AuthMiddleware проверяет JWT access токен из заголовка Authorization.
// Для WebSocket токен можно передать в query-параметре token.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		actor, err := tokens.ParseAccess(raw)
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(contextActorKey, actor)
		c.Set(ContextUserIDKey, actor.UserID)
		c.Set(ContextRoleKey, string(actor.Role))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// RequireRole пропускает только участников с одной из ролей.
func RequireRole(roles ...valueobject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "недостаточно прав")
	}
}

// ActorFrom участник, установленный AuthMiddleware.
func ActorFrom(c *gin.Context) (valueobject.Actor, bool) {
	v, ok := c.Get(contextActorKey)
	if !ok {
		return valueobject.Actor{}, false
	}
	actor, ok := v.(valueobject.Actor)
	return actor, ok
}

// SetActor кладёт участника в контекст напрямую (используется в тестах хендлеров).
func SetActor(actor valueobject.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextActorKey, actor)
		c.Set(ContextUserIDKey, actor.UserID)
		c.Set(ContextRoleKey, string(actor.Role))
		c.Next()
	}
}
