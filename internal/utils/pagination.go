package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// MaxLimit caps the page size a client can request.
const MaxLimit = 100

// Pagination holds pagination parameters.
type Pagination struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// GetPagination extracts the page and limit from the query parameters.
// It falls back to defaults if parsing fails and clamps limit to MaxLimit.
func GetPagination(c *fiber.Ctx, defaultPage, defaultLimit int) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// TotalPages calculates the number of pages based on the total items and items per page.
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(totalItems) / limit
	if int(totalItems)%limit > 0 {
		pages++
	}
	return pages
}
