package utils

import (
	"strconv"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// PageParams holds zero-based page parameters
type PageParams struct {
	Page int
	Size int
}

// Offset returns the row offset for the page
func (p PageParams) Offset() int {
	return p.Page * p.Size
}

// TotalPages returns the number of pages needed for total rows
func (p PageParams) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// NewPageParams clamps page and size into the supported range
func NewPageParams(page, size, defaultSize int) PageParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	if size < 1 || size > constants.MaxPageSize {
		size = defaultSize
	}
	return PageParams{Page: page, Size: size}
}

// GetPageParams extracts and validates page parameters from the request
func GetPageParams(c *gin.Context, defaultSize int) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = constants.MinPage
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil {
		size = defaultSize
	}
	return NewPageParams(page, size, defaultSize)
}
