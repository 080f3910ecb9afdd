package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ParsePagination safely parses and validates offset and limit query
// parameters for the order and merchant listing endpoints. Offset defaults
// to 0, limit to 50 and is capped at 100.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offsetStr := c.DefaultQuery("offset", "0")
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit))
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > maxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxPageLimit)
	}

	return offset, limit, nil
}
