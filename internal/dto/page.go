package dto

import "github.com/collabhub/collabhub-api/internal/utils"

// PageDTO is the envelope for paged lists
type PageDTO[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPageDTO builds a page from converted content and the total row count
func NewPageDTO[T any](content []T, params utils.PageParams, total int64) PageDTO[T] {
	if content == nil {
		content = []T{}
	}
	return PageDTO[T]{
		Content:       content,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    params.TotalPages(total),
	}
}
