package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
)

const actorKey = "actor"

// Authenticate validates bearer tokens and injects the acting caller into
// the request context.
type Authenticate struct {
	tokens model.TokenManager
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Handle parses the Authorization header, validates the token and stores the
// resulting actor for downstream handlers.
func (m *Authenticate) Handle(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	actor, err := m.tokens.ParseAccessToken(token)
	if err != nil {
		m.logger.Debug("rejected authorization token",
			"error", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
		return
	}

	c.Set(actorKey, actor)
	c.Next()
}

// ActorFromContext retrieves the authenticated actor set by Handle.
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return model.Actor{}, false
	}

	actor, ok := v.(model.Actor)
	return actor, ok
}
