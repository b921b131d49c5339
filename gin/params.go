package gin

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet/errors"
)

func paramInt(key string, c *gin.Context) (int, error) {
	v, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, errors.New(fmt.Sprintf("invalid %s: %s", key, c.Param(key)), errors.BadRequest())
	}
	return v, nil
}
