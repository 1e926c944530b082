package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jokeshare/src/app/http/response"
)

const panicPage = `<!DOCTYPE html><html><head><title>Oops</title></head>` +
	`<body><div class="error-container">Something unexpected went wrong. Sorry about that.</div></body></html>`

// Recovery recovers from panics, logs the stack and answers 500.
// JSON clients get the error envelope, browsers a bare error page.
//
// It should be the first middleware in the chain.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)

				log.Error("panic recovered",
					"request_id", requestID,
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"stack", string(debug.Stack()),
				)

				if response.WantsJSON(c) {
					c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
						Error: response.ErrorDetail{
							Code:      "INTERNAL_ERROR",
							Message:   "An unexpected error occurred",
							RequestID: requestID,
						},
					})
					return
				}
				c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(panicPage))
				c.Abort()
			}
		}()

		c.Next()
	}
}
