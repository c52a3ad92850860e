package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
)

// respondError maps a service error onto its HTTP status. Unknown errors are
// reported as a bare 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
