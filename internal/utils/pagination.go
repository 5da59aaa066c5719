package utils

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// GetPaginationParams reads limit and offset from the query string.
// Invalid values fall back to the defaults and limit is capped at MaxPageSize.
func GetPaginationParams(c *gin.Context) PaginationParams {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}

// PageLinks builds the absolute next and previous URLs of a page. Either is
// nil when there is no such page.
func PageLinks(c *gin.Context, params PaginationParams, count int64) (next, previous *string) {
	if int64(params.Offset+params.Limit) < count {
		link := pageURL(c, params.Limit, params.Offset+params.Limit)
		next = &link
	}

	if params.Offset > 0 {
		prevOffset := params.Offset - params.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		link := pageURL(c, params.Limit, prevOffset)
		previous = &link
	}

	return next, previous
}

func pageURL(c *gin.Context, limit, offset int) string {
	u := url.URL{
		Scheme: requestScheme(c),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}

	query := c.Request.URL.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}
	u.RawQuery = query.Encode()

	return u.String()
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
