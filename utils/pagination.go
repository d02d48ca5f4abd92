package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams reads ?page and ?limit. Missing, unparsable or non-positive values
// fall back to page 1 and defaultLimit; limit is capped at maxLimit and page
// at MaxPage.
func PageParams(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
