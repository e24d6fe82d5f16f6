package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ctxClinicianID is the gin context key holding the authenticated clinician.
	ctxClinicianID = "userId"

	errNoAuthHeader  = "missing Authorization header"
	errBadAuthHeader = "invalid Authorization header format"
	errBadToken      = "invalid or expired token"
)

// bearerAuth requires "Authorization: Bearer <jwt>".
func (h *Handler) bearerAuth(c *gin.Context) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	switch {
	case scheme == "" && !ok:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNoAuthHeader})
	case !ok || scheme != "Bearer" || token == "":
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadAuthHeader})
	default:
		h.authorize(c, token)
	}
}

// wsAuthMiddleware accepts the bearer header or an access_token query
// parameter.
func (h *Handler) wsAuthMiddleware(c *gin.Context) {
	if tok := c.Query("access_token"); tok != "" {
		h.authorize(c, tok)
		return
	}
	h.bearerAuth(c)
}

func (h *Handler) authorize(c *gin.Context, token string) {
	clinicianID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}
	c.Set(ctxClinicianID, clinicianID)
	c.Next()
}
