package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseIndexParam reads a zero-based question index path parameter.
// It writes the 400 response itself; callers bail out when ok is false.
func ParseIndexParam(c *gin.Context, param string) (int, bool) {
	indexStr := c.Param(param)
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a non-negative integer",
		})
		return 0, false
	}
	return index, true
}
