package api

import (
	"strconv"

	"gymclass/internal/apperror"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Invalid " + name)
	}
	return id, nil
}
