package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oipulse/oipulse/internal/domain/dto"
	"github.com/oipulse/oipulse/internal/logger"
)

// ErrorHandler converts errors attached to the gin context by downstream
// handlers into a standardized JSON 500 response. Handlers that already wrote
// a response are left alone.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("internal error", err))
}

// AbortWithError writes a standardized error response with the given status
// and stops the handler chain. The inner error is also attached to the
// context so the request logger can pick it up.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
