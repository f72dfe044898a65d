package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/response"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		status := c.Writer.Status()
		line := fmt.Sprintf("%s %s -> %d (%s) ip=%s", c.Request.Method, path, status, time.Since(start).Round(time.Microsecond), c.ClientIP())
		switch {
		case status >= 500:
			logger.Errorf("%s", line)
		case status >= 400:
			logger.Warnf("%s", line)
		default:
			logger.Infof("%s", line)
		}
	}
}

// Recovery turns a handler panic into a 500 with the error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
				if !c.Writer.Written() {
					response.Abort(c, http.StatusInternalServerError, "Internal Server Error", fmt.Sprint(r))
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
