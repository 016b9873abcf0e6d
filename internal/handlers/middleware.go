package handlers

import (
	"net/http"
	"strings"

	"todoapp/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// errUnauthorized is the single body returned for every token failure, so
// callers cannot tell a bad signature from an expired or malformed token.
const errUnauthorized = "invalid or expired token"

func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	ident, err := h.services.ParseToken(parts[1])
	if err != nil {
		// Which verification check failed stays in the log only.
		if h.log != nil {
			h.log.Infow("token_rejected", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": errUnauthorized,
		})
		return
	}

	c.Set(identityKey, ident)
	c.Next()
}

// identityFromCtx returns the identity stored by identityMiddleware.
func identityFromCtx(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}
