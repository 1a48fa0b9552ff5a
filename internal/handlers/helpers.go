package handlers

import (
	"strconv"
	"strings"

	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requireUserID reads the authenticated user or writes a 401.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// requireProjectID reads the project ID parsed by middleware.RequireProjectID,
// falling back to the :id parameter.
func requireProjectID(c *gin.Context) (uint64, bool) {
	if id, ok := middleware.GetProjectID(c); ok {
		return id, true
	}
	return parseIDParam(c, "id", "Invalid project ID")
}

func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// parseIDList accepts repeated and comma-separated query values.
func parseIDList(values []string) ([]uint64, bool) {
	var ids []uint64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

func respondInternal(c *gin.Context, err error) {
	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("request failed")
	apierrors.InternalError(c, "")
}
