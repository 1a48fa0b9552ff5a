package middleware

import (
	"strconv"

	"github.com/collabhub/collabhub-api/internal/constants"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/gin-gonic/gin"
)

// RequireProjectID parses the :id path parameter of project routes
func RequireProjectID() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || projectID == 0 {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProjectID, projectID)
		c.Next()
	}
}

// GetProjectID retrieves the project ID set by RequireProjectID
func GetProjectID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyProjectID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
